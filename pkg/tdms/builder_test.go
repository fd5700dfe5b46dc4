package tdms

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// binWriter builds synthetic TDMS byte sequences for tests.
type binWriter struct {
	buf   bytes.Buffer
	order binary.ByteOrder
}

func newBinWriter(order binary.ByteOrder) *binWriter {
	return &binWriter{order: order}
}

func (w *binWriter) raw(b []byte) {
	w.buf.Write(b)
}

func (w *binWriter) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *binWriter) u16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) u32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) u64(v uint64) {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *binWriter) f64(v float64) {
	w.u64(math.Float64bits(v))
}

func (w *binWriter) str(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) bytes() []byte {
	return w.buf.Bytes()
}

// segment assembles one segment: lead-in plus meta plus raw bytes. The
// table-of-contents field is always little endian; the rest of the
// lead-in follows the segment's byte order. Offsets are relative to the
// end of the lead-in. A nextOffset of ^uint64(0) writes the
// "extends to end of file" sentinel.
func segment(order binary.ByteOrder, toc uint32, nextOffset uint64, meta, rawData []byte) []byte {
	w := newBinWriter(order)
	w.raw([]byte("TDSm"))
	var tocb [4]byte
	binary.LittleEndian.PutUint32(tocb[:], toc)
	w.raw(tocb[:])
	w.u32(0x1269)
	w.u64(nextOffset)
	w.u64(uint64(len(meta)))
	w.raw(meta)
	w.raw(rawData)
	return w.bytes()
}

// metaOneChannel builds an object list with a single channel defining a
// plain inline raw descriptor and no properties.
func metaOneChannel(order binary.ByteOrder, path string, typ DataType, dim uint32, values uint64) []byte {
	w := newBinWriter(order)
	w.u32(1)
	w.str(path)
	w.u32(uint32(RawIndexInlineFixed))
	w.u32(uint32(typ))
	w.u32(dim)
	w.u64(values)
	w.u32(0) // properties
	return w.bytes()
}

// writeTDMS writes the concatenated segments to a fresh file and returns
// its path.
func writeTDMS(t *testing.T, segments ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tdms")
	var data []byte
	for _, s := range segments {
		data = append(data, s...)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func decodeFile(t *testing.T, path string) (*memSink, error) {
	t.Helper()
	sink := &memSink{}
	err := DumpStructure(path, sink, nil)
	return sink, err
}

func decode(t *testing.T, segments ...[]byte) (*memSink, error) {
	t.Helper()
	return decodeFile(t, writeTDMS(t, segments...))
}

// memSink records the emitted report tree as a flat event list:
// "push <name>", "pop", and "<name>=<value>" for leaves.
type memSink struct {
	events []string
}

func (m *memSink) Push(name string)             { m.events = append(m.events, "push "+name) }
func (m *memSink) Pop()                         { m.events = append(m.events, "pop") }
func (m *memSink) Int(name string, v int64)     { m.leaf(name, strconv.FormatInt(v, 10)) }
func (m *memSink) Uint(name string, v uint64)   { m.leaf(name, strconv.FormatUint(v, 10)) }
func (m *memSink) Float(name string, v float64) { m.leaf(name, strconv.FormatFloat(v, 'g', -1, 64)) }
func (m *memSink) Bool(name string, v bool)     { m.leaf(name, strconv.FormatBool(v)) }
func (m *memSink) Str(name string, v string)    { m.leaf(name, v) }
func (m *memSink) Bytes(name string, v []byte)  { m.leaf(name, hex.EncodeToString(v)) }
func (m *memSink) Flush() error                 { return nil }

func (m *memSink) leaf(name, value string) {
	m.events = append(m.events, name+"="+value)
}

// value returns the first leaf emitted under the given name.
func (m *memSink) value(name string) (string, bool) {
	for _, ev := range m.events {
		if v, ok := strings.CutPrefix(ev, name+"="); ok {
			return v, true
		}
	}
	return "", false
}

// values returns every leaf emitted under the given name, in order.
func (m *memSink) values(name string) []string {
	var out []string
	for _, ev := range m.events {
		if v, ok := strings.CutPrefix(ev, name+"="); ok {
			out = append(out, v)
		}
	}
	return out
}

func (m *memSink) pushed(name string) bool {
	for _, ev := range m.events {
		if ev == "push "+name {
			return true
		}
	}
	return false
}

// segmentBlocks splits the event list into one slice per decoded segment,
// from its "push segment" to the matching pop.
func (m *memSink) segmentBlocks() [][]string {
	var blocks [][]string
	depth := -1
	var cur []string
	for _, ev := range m.events {
		if depth < 0 {
			if ev == "push segment" {
				depth = 1
				cur = []string{ev}
			}
			continue
		}
		cur = append(cur, ev)
		if strings.HasPrefix(ev, "push ") {
			depth++
		} else if ev == "pop" {
			depth--
			if depth == 0 {
				blocks = append(blocks, cur)
				depth = -1
				cur = nil
			}
		}
	}
	return blocks
}

// requireValue asserts a leaf's first occurrence.
func requireValue(t *testing.T, sink *memSink, name, want string) {
	t.Helper()
	got, ok := sink.value(name)
	require.True(t, ok, "leaf %q not emitted", name)
	require.Equal(t, want, got, "leaf %q", name)
}
