package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLSinkDocument(t *testing.T) {
	var buf strings.Builder
	s := NewYAMLSink(&buf)

	s.Push("file")
	s.Str("filepath", "a.tdms")
	s.Uint("size_in_byte", 28)
	s.Push("segments")
	s.Push("segment")
	s.Int("index", 0)
	s.Bool("big_endian", true)
	s.Float("scale", 1.5)
	s.Bytes("pattern", []byte{0xAB, 0x01})
	s.Pop()
	s.Pop()
	s.Int("segments_count", 1)
	s.Pop()
	require.NoError(t, s.Flush())

	want := `file:
  filepath: a.tdms
  size_in_byte: 28
  segments:
    segment:
      index: 0
      big_endian: true
      scale: 1.5
      pattern: ab01
  segments_count: 1
`
	assert.Equal(t, want, buf.String())
}

func TestYAMLSinkRepeatedKeysKeepOrder(t *testing.T) {
	// The report schema repeats element names (one "segment" per segment);
	// the sink must write them all, in emission order.
	var buf strings.Builder
	s := NewYAMLSink(&buf)
	s.Push("segments")
	for i := int64(0); i < 3; i++ {
		s.Push("segment")
		s.Int("index", i)
		s.Pop()
	}
	s.Pop()
	require.NoError(t, s.Flush())

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "segment:"))
	first := strings.Index(out, "index: 0")
	last := strings.Index(out, "index: 2")
	assert.True(t, first >= 0 && last > first, "got:\n%s", out)
}

func TestYAMLSinkFlushAfterAbort(t *testing.T) {
	// Levels still open when decoding aborts must not corrupt the output.
	var buf strings.Builder
	s := NewYAMLSink(&buf)
	s.Push("file")
	s.Push("segments")
	s.Str("note", "truncated")
	require.NoError(t, s.Flush())
	assert.Contains(t, buf.String(), "note: truncated")
}
