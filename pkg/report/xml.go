package report

import (
	"bufio"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
)

// xmlEscaper rewrites the characters that are significant in XML text
// content. Replacement happens in one pass, so already-escaped entities
// are not escaped twice.
var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// XMLSink writes the report as an indented XML document. Elements are
// streamed as they are emitted; nothing is buffered beyond the underlying
// bufio writer, so a report aborted mid-decode still contains everything
// up to the failure point.
type XMLSink struct {
	w    *bufio.Writer
	open []string
	err  error
}

// NewXMLSink creates a sink writing an XML document to w.
func NewXMLSink(w io.Writer) *XMLSink {
	s := &XMLSink{w: bufio.NewWriter(w)}
	s.writeLine(`<?xml version="1.0" encoding="UTF-8" standalone="no" ?>`)
	return s
}

func (s *XMLSink) Push(name string) {
	s.indent()
	s.writeLine("<" + name + ">")
	s.open = append(s.open, name)
}

func (s *XMLSink) Pop() {
	if len(s.open) == 0 {
		return
	}
	name := s.open[len(s.open)-1]
	s.open = s.open[:len(s.open)-1]
	s.indent()
	s.writeLine("</" + name + ">")
}

func (s *XMLSink) Int(name string, v int64) {
	s.leaf(name, strconv.FormatInt(v, 10))
}

func (s *XMLSink) Uint(name string, v uint64) {
	s.leaf(name, strconv.FormatUint(v, 10))
}

func (s *XMLSink) Float(name string, v float64) {
	s.leaf(name, strconv.FormatFloat(v, 'g', -1, 64))
}

func (s *XMLSink) Bool(name string, v bool) {
	s.leaf(name, strconv.FormatBool(v))
}

func (s *XMLSink) Str(name string, v string) {
	s.leaf(name, xmlEscaper.Replace(v))
}

func (s *XMLSink) Bytes(name string, v []byte) {
	s.leaf(name, hex.EncodeToString(v))
}

// Flush closes all still-open elements and flushes the writer. It returns
// the first error encountered since the sink was created.
func (s *XMLSink) Flush() error {
	for len(s.open) > 0 {
		s.Pop()
	}
	if err := s.w.Flush(); err != nil && s.err == nil {
		s.err = err
	}
	return s.err
}

func (s *XMLSink) leaf(name, text string) {
	s.indent()
	s.writeLine("<" + name + ">" + text + "</" + name + ">")
}

func (s *XMLSink) indent() {
	for range s.open {
		s.write("  ")
	}
}

func (s *XMLSink) writeLine(text string) {
	s.write(text)
	s.write("\n")
}

func (s *XMLSink) write(text string) {
	if s.err != nil {
		return
	}
	if _, err := s.w.WriteString(text); err != nil {
		s.err = err
	}
}
