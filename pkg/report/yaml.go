package report

import (
	"encoding/hex"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLSink writes the report as a YAML document. The tree is collected as
// a yaml.Node document so that emission order survives encoding, and is
// written out on Flush.
type YAMLSink struct {
	w     io.Writer
	root  *yaml.Node
	stack []*yaml.Node
}

// NewYAMLSink creates a sink writing a YAML document to w.
func NewYAMLSink(w io.Writer) *YAMLSink {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	return &YAMLSink{w: w, root: root, stack: []*yaml.Node{root}}
}

func (s *YAMLSink) Push(name string) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	s.append(name, m)
	s.stack = append(s.stack, m)
}

func (s *YAMLSink) Pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *YAMLSink) Int(name string, v int64) {
	s.scalar(name, "!!int", strconv.FormatInt(v, 10))
}

func (s *YAMLSink) Uint(name string, v uint64) {
	s.scalar(name, "!!int", strconv.FormatUint(v, 10))
}

func (s *YAMLSink) Float(name string, v float64) {
	s.scalar(name, "!!float", strconv.FormatFloat(v, 'g', -1, 64))
}

func (s *YAMLSink) Bool(name string, v bool) {
	s.scalar(name, "!!bool", strconv.FormatBool(v))
}

func (s *YAMLSink) Str(name string, v string) {
	s.scalar(name, "!!str", v)
}

func (s *YAMLSink) Bytes(name string, v []byte) {
	s.scalar(name, "!!str", hex.EncodeToString(v))
}

// Flush encodes the collected document.
func (s *YAMLSink) Flush() error {
	s.stack = s.stack[:1]
	enc := yaml.NewEncoder(s.w)
	enc.SetIndent(2)
	if err := enc.Encode(s.root); err != nil {
		return err
	}
	return enc.Close()
}

func (s *YAMLSink) scalar(name, tag, value string) {
	s.append(name, &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value})
}

func (s *YAMLSink) append(name string, value *yaml.Node) {
	top := s.stack[len(s.stack)-1]
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
	top.Content = append(top.Content, key, value)
}
