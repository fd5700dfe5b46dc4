package tdms

import "errors"

// Decode errors. All of them abort the current run; the decoder never
// skips over a structural violation because the inline schema
// forward-references byte layout and there is no defined resynchronization
// point once it is unknown.
var (
	// ErrTruncatedRead is returned when fewer bytes are available than a
	// structure requires. Running out of bytes exactly at a segment
	// boundary is not an error.
	ErrTruncatedRead = errors.New("truncated read")

	// ErrBadMagic is returned when a segment does not start with "TDSm".
	ErrBadMagic = errors.New("bad segment magic")

	// ErrUnsupportedVersion is returned for any format version other than
	// TDMS 2.0 (0x1269).
	ErrUnsupportedVersion = errors.New("unsupported tdms version")

	// ErrUnknownRawDataIndex is returned when an object's raw-data-index
	// selector is none of the defined discriminator values.
	ErrUnknownRawDataIndex = errors.New("unknown raw data index")

	// ErrMissingPriorRawInfo is returned when an object reuses its previous
	// raw-data layout but no earlier segment defined one for its path.
	ErrMissingPriorRawInfo = errors.New("no raw info from a previous segment")

	// ErrInvalidPropertyType is returned when a property carries a type
	// that is not allowed for properties (Void, the with-unit float
	// variants, or the DAQmx raw-data marker).
	ErrInvalidPropertyType = errors.New("invalid property type")

	// ErrUnknownDataType is returned when a property carries a type tag
	// that is not part of the format.
	ErrUnknownDataType = errors.New("unknown data type")
)
