package tdms

import (
	"fmt"
	"sort"
)

// RawDataIndex discriminates how an object's raw-data layout is defined in
// a segment. Despite its on-disk name it is not an index but a tagged
// union discriminator.
type RawDataIndex uint32

const (
	// RawIndexNoData marks an object that carries no raw data in this segment.
	RawIndexNoData RawDataIndex = 0xFFFFFFFF
	// RawIndexReusePrevious reuses the layout from the most recent segment
	// that defined one for the same object path.
	RawIndexReusePrevious RawDataIndex = 0x00000000
	// RawIndexInlineFixed defines a fresh layout inline.
	RawIndexInlineFixed RawDataIndex = 0x14
	// RawIndexInlineSized defines a fresh layout inline with a total byte
	// size, used for variable-length types such as strings.
	RawIndexInlineSized RawDataIndex = 0x1C
	// RawIndexDaqmxFormatChanging marks DAQmx raw data with a format
	// changing scaler.
	RawIndexDaqmxFormatChanging RawDataIndex = 0x1269
	// RawIndexDaqmxDigitalLine marks DAQmx raw data with a digital line
	// scaler.
	RawIndexDaqmxDigitalLine RawDataIndex = 0x1369
)

func parseRawDataIndex(v uint32) (RawDataIndex, error) {
	switch idx := RawDataIndex(v); idx {
	case RawIndexNoData, RawIndexReusePrevious, RawIndexInlineFixed,
		RawIndexInlineSized, RawIndexDaqmxFormatChanging, RawIndexDaqmxDigitalLine:
		return idx, nil
	}
	return 0, fmt.Errorf("raw data index 0x%X: %w", v, ErrUnknownRawDataIndex)
}

// RawInfo describes the raw-data layout of one object within a chunk.
type RawInfo struct {
	Path            string
	Type            DataType
	ArrayDimension  uint32
	NumberOfValues  uint64 // values per chunk
	TotalSizeInByte uint64 // nonzero only for variable-length types
}

// ChunkByteSize returns the number of bytes the object occupies in one
// chunk. The explicit total size wins when set; otherwise the size is
// computed from the type's fixed value size.
func (ri RawInfo) ChunkByteSize() uint64 {
	if ri.TotalSizeInByte != 0 {
		return ri.TotalSizeInByte
	}
	return ri.Type.ByteSize() * uint64(ri.ArrayDimension) * ri.NumberOfValues
}

// rawInfoRegistry maps object paths to their latest raw-data layout. The
// decoder owns two of them: one spanning the whole file (resolves reuse
// selectors) and one for the current segment (drives chunk geometry).
type rawInfoRegistry map[string]RawInfo

// sortedPaths returns the registered paths in lexical order so that
// report output is deterministic.
func (reg rawInfoRegistry) sortedPaths() []string {
	paths := make([]string, 0, len(reg))
	for p := range reg {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
