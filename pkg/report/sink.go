// Package report provides ordered tree sinks for the structure reports
// written by the decoder. A sink records a stream of named, possibly
// nested values; the decoder never reads anything back from it.
package report

// Sink records an ordered tree of named values. Push and Pop bracket one
// nesting level and must be balanced (LIFO). The typed leaf methods emit
// one value under the current level. Write errors are sticky: the first
// one is remembered and reported by Flush, so the decoding loop stays
// free of per-call error plumbing.
type Sink interface {
	Push(name string)
	Pop()

	Int(name string, v int64)
	Uint(name string, v uint64)
	Float(name string, v float64)
	Bool(name string, v bool)
	Str(name string, v string)
	Bytes(name string, v []byte)

	// Flush finalizes the report, closing any levels still open, and
	// returns the first write error encountered.
	Flush() error
}
