package tdms

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// File is a read-only, seekable view of a TDMS file. The total size is
// established once at open and drives both clean-termination detection and
// the resolution of the "extends to end of file" next-segment sentinel.
type File struct {
	f    *os.File
	size uint64
}

// OpenFile opens the TDMS file at path for reading.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tdms file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat tdms file: %w", err)
	}
	return &File{f: f, size: uint64(st.Size())}, nil
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	return f.f.Close()
}

// Size returns the total file length in bytes.
func (f *File) Size() uint64 {
	return f.size
}

// Seek moves the read position to an absolute byte offset.
func (f *File) Seek(offset uint64) error {
	if _, err := f.f.Seek(int64(offset), io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", offset, err)
	}
	return nil
}

// ReadFull fills buf completely or fails with ErrTruncatedRead.
func (f *File) ReadFull(buf []byte) error {
	if _, err := io.ReadFull(f.f, buf); err != nil {
		return fmt.Errorf("read %d bytes: %w", len(buf), ErrTruncatedRead)
	}
	return nil
}

// segmentReader reads the primitives of one segment, converting every
// multi-byte numeric value from the segment's byte order to native values.
// It is constructed once per segment from the lead-in's big-endian flag.
type segmentReader struct {
	f         *File
	order     binary.ByteOrder
	bigEndian bool
}

func newSegmentReader(f *File, bigEndian bool) *segmentReader {
	var order binary.ByteOrder = binary.LittleEndian
	if bigEndian {
		order = binary.BigEndian
	}
	return &segmentReader{f: f, order: order, bigEndian: bigEndian}
}

func (r *segmentReader) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.f.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *segmentReader) u8() (uint8, error) {
	b, err := r.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *segmentReader) u16() (uint16, error) {
	b, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *segmentReader) u32() (uint32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *segmentReader) u64() (uint64, error) {
	b, err := r.read(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

func (r *segmentReader) f32() (float32, error) {
	v, err := r.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *segmentReader) f64() (float64, error) {
	v, err := r.u64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// opaque reads an n-byte value with no native representation (extended
// float, fixed point) and normalizes its byte layout to little endian.
// The value is never arithmetically interpreted.
func (r *segmentReader) opaque(n int) ([]byte, error) {
	b, err := r.read(n)
	if err != nil {
		return nil, err
	}
	if r.bigEndian {
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
	}
	return b, nil
}

// str reads a length-prefixed string: a uint32 byte count followed by that
// many bytes of UTF-8 text. Object paths, property names and string
// property values all share this layout.
func (r *segmentReader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	b, err := r.read(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
