package tdms

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/totonga/tdms-tools/pkg/report"
)

// Segment lead-in layout: "TDSm" tag, table-of-contents flags, version,
// next-segment offset, raw-data offset. All metadata and raw-data offsets
// inside a segment are relative to the end of the lead-in.
const (
	segmentMagic     = "TDSm"
	leadInSize       = 28
	supportedVersion = 0x1269 // TDMS 2.0

	// nextSegmentUnknown marks a segment whose extent was not known when
	// its lead-in was written (the file was still being captured); it
	// extends to the end of the file.
	nextSegmentUnknown = ^uint64(0)
)

// Table-of-contents flag bits. The field is stored little endian
// regardless of the segment's data byte order. Reserved bits are ignored.
const (
	tocMetaData        = 1 << 1
	tocNewObjList      = 1 << 2
	tocRawData         = 1 << 3
	tocInterleavedData = 1 << 5
	tocBigEndian       = 1 << 6
	tocDAQmxRawData    = 1 << 7
)

// Decoder walks a TDMS file segment by segment and writes the decoded
// structure to a report sink. The two raw-info registries are the only
// state carried across segment boundaries; they belong to one decoding
// run, so decoding several files in one process just means several
// decoders.
type Decoder struct {
	file *File
	sink report.Sink
	log  *slog.Logger

	allTime rawInfoRegistry // resolves reuse selectors across the whole file
	current rawInfoRegistry // channels carrying raw data in this segment
}

// NewDecoder creates a decoder over an open file. A nil logger disables
// decode logging.
func NewDecoder(file *File, sink report.Sink, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Decoder{
		file:    file,
		sink:    sink,
		log:     logger,
		allTime: make(rawInfoRegistry),
		current: make(rawInfoRegistry),
	}
}

// DumpStructure decodes the structure of the TDMS file at path and writes
// the report through sink. The caller owns the sink and must flush it
// afterwards, also when decoding fails, so the report covers everything
// decoded up to the failure point.
func DumpStructure(path string, sink report.Sink, logger *slog.Logger) error {
	file, err := OpenFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	sink.Push("file")
	sink.Str("filepath", path)
	sink.Uint("size_in_byte", file.Size())

	d := NewDecoder(file, sink, logger)
	sink.Push("segments")
	count, err := d.run()
	if err != nil {
		return err
	}
	sink.Pop()
	sink.Int("segments_count", count)
	sink.Pop()
	return nil
}

// run iterates the file's segments until clean end of file. A trailing
// region too short to hold a lead-in belongs to a segment still being
// written and terminates the run cleanly, not with an error.
func (d *Decoder) run() (int64, error) {
	var index int64
	var offset uint64
	for {
		if offset >= d.file.Size() || d.file.Size()-offset < leadInSize {
			return index, nil
		}
		next, err := d.decodeSegment(index, offset)
		if err != nil {
			return index, fmt.Errorf("segment %d at offset %d: %w", index, offset, err)
		}
		offset = next
		index++
	}
}

// decodeSegment decodes one segment starting at the given absolute offset
// and returns the absolute offset of the next segment.
func (d *Decoder) decodeSegment(index int64, offset uint64) (uint64, error) {
	if err := d.file.Seek(offset); err != nil {
		return 0, err
	}

	var head [8]byte
	if err := d.file.ReadFull(head[:]); err != nil {
		return 0, err
	}
	if !bytes.Equal(head[:4], []byte(segmentMagic)) {
		return 0, fmt.Errorf("tag %q: %w", head[:4], ErrBadMagic)
	}
	toc := binary.LittleEndian.Uint32(head[4:])
	bigEndian := toc&tocBigEndian != 0
	newObjList := toc&tocNewObjList != 0
	interleaved := toc&tocInterleavedData != 0

	r := newSegmentReader(d.file, bigEndian)

	version, err := r.u32()
	if err != nil {
		return 0, err
	}
	if version != supportedVersion {
		return 0, fmt.Errorf("version 0x%X: %w", version, ErrUnsupportedVersion)
	}
	nextOffset, err := r.u64()
	if err != nil {
		return 0, err
	}
	rawOffset, err := r.u64()
	if err != nil {
		return 0, err
	}

	// Offsets are relative to the end of the lead-in. The sentinel
	// next-offset resolves against the file size; this is the only
	// handling an incomplete last segment gets.
	dataStart := offset + leadInSize
	span := nextOffset
	if nextOffset == nextSegmentUnknown {
		span = d.file.Size() - dataStart
	}
	absNext := dataStart + span
	absRaw := dataStart + rawOffset

	d.log.Debug("segment",
		"index", index,
		"offset", offset,
		"raw_data_offset", rawOffset,
		"next", absNext)

	s := d.sink
	s.Push("segment")
	s.Int("index", index)
	s.Uint("version", uint64(version))
	s.Push("table_of_content")
	s.Bool("meta_data", toc&tocMetaData != 0)
	s.Bool("new_obj_list", newObjList)
	s.Bool("raw_data", toc&tocRawData != 0)
	s.Bool("big_endian", bigEndian)
	s.Bool("interleaved_data", interleaved)
	s.Bool("daqmx_raw_data", toc&tocDAQmxRawData != 0)
	s.Pop()
	s.Uint("next_segment_offset", nextOffset)
	s.Uint("raw_data_offset", rawOffset)
	s.Uint("absolut_segment_offset", offset)
	s.Uint("absolut_raw_data_offset", absRaw)
	s.Uint("absolut_next_segment_byte_offset", absNext)

	// Metadata in a segment with a new object list fully replaces the
	// carried-over channel layout.
	if newObjList {
		clear(d.current)
	}

	// A raw-data offset of zero means the segment carries no metadata at
	// all (no object list, no properties, no index information).
	if rawOffset > 0 {
		if err := d.decodeObjectList(r); err != nil {
			return 0, err
		}
	}

	// Chunk geometry is computed whenever channels are known, not only
	// when this segment restates the object list. The vendor driver
	// documents the latter, but files written by streaming captures carry
	// raw data forward without restating objects.
	if len(d.current) > 0 {
		d.emitChannelData(absRaw, absNext, span-rawOffset, interleaved)
	}

	s.Pop()
	return absNext, nil
}

func (d *Decoder) decodeObjectList(r *segmentReader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	s := d.sink
	s.Uint("objects_count", uint64(count))
	s.Push("objects")
	for i := uint32(0); i < count; i++ {
		if err := d.decodeObject(r, i); err != nil {
			return err
		}
	}
	s.Pop()
	return nil
}

func (d *Decoder) decodeObject(r *segmentReader, index uint32) error {
	s := d.sink
	s.Push("object")
	s.Uint("index", uint64(index))

	path, err := r.str()
	if err != nil {
		return err
	}
	s.Str("object_path", path)

	rawIdx, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("raw_data_index", uint64(rawIdx))

	sel, err := parseRawDataIndex(rawIdx)
	if err != nil {
		return fmt.Errorf("object %q: %w", path, err)
	}

	switch sel {
	case RawIndexNoData:
		// object carries no raw data in this segment

	case RawIndexReusePrevious:
		prev, ok := d.allTime[path]
		if !ok {
			return fmt.Errorf("object %q: %w", path, ErrMissingPriorRawInfo)
		}
		d.current[path] = prev

	case RawIndexInlineFixed, RawIndexInlineSized:
		info, err := d.decodeRawInfo(r, path, sel == RawIndexInlineSized)
		if err != nil {
			return err
		}
		d.current[path] = info
		d.allTime[path] = info

	case RawIndexDaqmxFormatChanging, RawIndexDaqmxDigitalLine:
		if err := d.decodeDaqmxRawInfo(r, sel); err != nil {
			return err
		}
	}

	if err := d.decodeProperties(r); err != nil {
		return fmt.Errorf("object %q: %w", path, err)
	}

	s.Pop()
	return nil
}

// decodeRawInfo decodes a plain inline raw-data descriptor. The sized
// variant additionally carries the total byte size, used for
// variable-length types such as strings.
func (d *Decoder) decodeRawInfo(r *segmentReader, path string, sized bool) (RawInfo, error) {
	s := d.sink
	s.Push("raw")

	dataType, err := r.u32()
	if err != nil {
		return RawInfo{}, err
	}
	typ := DataType(dataType)
	s.Uint("data_type", uint64(dataType))
	s.Str("data_type_string", typ.String())

	dimension, err := r.u32()
	if err != nil {
		return RawInfo{}, err
	}
	s.Uint("array_dimension", uint64(dimension))

	values, err := r.u64()
	if err != nil {
		return RawInfo{}, err
	}
	s.Uint("number_of_values", values)

	var totalSize uint64
	if sized {
		if totalSize, err = r.u64(); err != nil {
			return RawInfo{}, err
		}
		s.Uint("total_size_in_byte", totalSize)
	}

	s.Pop()
	return RawInfo{
		Path:            path,
		Type:            typ,
		ArrayDimension:  dimension,
		NumberOfValues:  values,
		TotalSizeInByte: totalSize,
	}, nil
}

// decodeDaqmxRawInfo decodes a DAQmx raw-data descriptor: the channel
// type, its scaler table and the raw-data width vector. DAQmx objects do
// not enter the raw-info registries; their geometry lives in the scaler
// metadata, not in a plain typed array.
func (d *Decoder) decodeDaqmxRawInfo(r *segmentReader, sel RawDataIndex) error {
	s := d.sink
	s.Push("daqmx")
	switch sel {
	case RawIndexDaqmxFormatChanging:
		s.Str("type", "raw data contains DAQmx Format Changing scaler")
	case RawIndexDaqmxDigitalLine:
		s.Str("type", "raw data contains DAQmx Digital Line scaler")
	}

	dataType, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("data_type", uint64(dataType))
	s.Str("data_type_string", DataType(dataType).String())

	dimension, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("array_dimension", uint64(dimension))

	chunkSize, err := r.u64()
	if err != nil {
		return err
	}
	s.Uint("chunk_size", chunkSize)

	scalerCount, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("format_changing_scalers_size", uint64(scalerCount))
	s.Push("format_changing_scalers")
	for i := uint32(0); i < scalerCount; i++ {
		if err := d.decodeDaqmxScaler(r); err != nil {
			return err
		}
	}
	s.Pop()

	widthCount, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("data_with_size_vector_size", uint64(widthCount))
	s.Push("data_with_size_vector")
	for i := uint32(0); i < widthCount; i++ {
		width, err := r.u32()
		if err != nil {
			return err
		}
		s.Uint("size", uint64(width))
	}
	s.Pop()

	s.Pop()
	return nil
}

func (d *Decoder) decodeDaqmxScaler(r *segmentReader) error {
	s := d.sink
	s.Push("format_changing_scaler")

	dataType, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("data_type", uint64(dataType))
	s.Str("data_type_string", DataType(dataType).String())

	bufferIndex, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("buffer_index", uint64(bufferIndex))

	byteOffset, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("byte_offset_within_the_stride", uint64(byteOffset))

	formatBitmap, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("sample_format_bitmap", uint64(formatBitmap))

	scaleID, err := r.u32()
	if err != nil {
		return err
	}
	s.Uint("scale_id", uint64(scaleID))

	s.Pop()
	return nil
}

func (d *Decoder) decodeProperties(r *segmentReader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	s := d.sink
	s.Uint("properties_count", uint64(count))
	s.Push("properties")
	for i := uint32(0); i < count; i++ {
		s.Push("property")

		name, err := r.str()
		if err != nil {
			return err
		}
		s.Str("name", name)

		dataType, err := r.u32()
		if err != nil {
			return err
		}
		typ := DataType(dataType)
		s.Uint("data_type", uint64(dataType))
		s.Str("data_type_string", typ.String())

		value, err := readPropertyValue(r, typ)
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		emitPropertyValue(s, value)

		s.Pop()
	}
	s.Pop()
	return nil
}

// emitChannelData reports the chunked raw-data geometry of the current
// channel set. One chunk is one repetition of every current channel's
// values; the chunk count follows from the segment's raw-data span.
func (d *Decoder) emitChannelData(absStart, absEnd, span uint64, interleaved bool) {
	var chunkBytes uint64
	for _, info := range d.current {
		chunkBytes += info.ChunkByteSize()
	}
	chunks := uint64(1)
	if chunkBytes != 0 {
		chunks = span / chunkBytes
	}

	s := d.sink
	s.Push("channel_data")
	s.Uint("absolut_raw_data_byte_start", absStart)
	s.Uint("absolut_raw_data_byte_end", absEnd)
	s.Bool("interleaved", interleaved)
	s.Uint("number_of_chunks", chunks)
	s.Uint("channels_count", uint64(len(d.current)))
	s.Push("channels")
	for _, path := range d.current.sortedPaths() {
		info := d.current[path]
		s.Push("channel")
		s.Str("path", info.Path)
		s.Uint("data_type", uint64(info.Type))
		s.Str("data_type_string", info.Type.String())
		s.Uint("data_type_single_value_size", info.Type.ByteSize())
		s.Uint("number_of_values_in_chunk", info.NumberOfValues)
		s.Uint("number_of_values_in_segment", info.NumberOfValues*chunks)
		s.Pop()
	}
	s.Pop()
	s.Pop()
}
