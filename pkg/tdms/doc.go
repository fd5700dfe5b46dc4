// Package tdms decodes the on-disk structure of National Instruments
// TDMS files without a vendor SDK.
//
// A TDMS file is a sequence of segments. Each segment starts with a
// fixed 28-byte lead-in ("TDSm" tag, table-of-contents flags, version,
// next-segment offset, raw-data offset), optionally followed by metadata
// (an object list with raw-data descriptors and typed properties) and
// raw channel data. The decoder walks the segments sequentially and
// writes everything it finds to a report.Sink; raw sample payloads are
// never decoded to values, only their geometry (type, dimension, value
// counts, chunking) is computed.
//
// Typical usage:
//
//	sink := report.NewXMLSink(out)
//	err := tdms.DumpStructure("capture.tdms", sink, nil)
//	if ferr := sink.Flush(); err == nil {
//		err = ferr
//	}
//
// Decoding is a single deterministic pass. Any structural violation (bad
// lead-in tag, unsupported version, unknown raw-data-index selector,
// invalid property type) aborts the run with a wrapped sentinel error
// from this package; there is no partial-segment recovery.
package tdms
