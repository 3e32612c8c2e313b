// Package lsif is the reference implementation for the Leaf System
// Interchange Format, a stream of YAML documents each describing a grammar
// and how to draw it.
package lsif

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format struct {
	Seed      *int64             `yaml:"seed"`
	Axiom     string             `yaml:"axiom"`
	Cycles    int                `yaml:"cycles"`
	MaxLength int                `yaml:"maxLength"`
	Constants map[string]float64 `yaml:"constants"`

	// Rules may hold nulls, they are discarded
	Rules []*string `yaml:"rules"`

	Turtle   *Turtle    `yaml:"turtle"`
	Geometry []Geometry `yaml:"geometry"`
}

type Turtle struct {
	Mode          string     `yaml:"mode"`
	VoxelSize     Expression `yaml:"voxelSize"`
	Angle         Expression `yaml:"angle"`
	StepDistance  Expression `yaml:"stepDistance"`
	StackCapacity int        `yaml:"stackCapacity"`

	// Duplicates is either "reject" (default) or "overwrite"
	Duplicates string `yaml:"duplicates"`
}

// Geometry binds a symbol to a template, either a box of the given size laid
// on the anchors, or an explicit set of vertices.
type Geometry struct {
	Symbol   string      `yaml:"symbol"`
	Box      Expression  `yaml:"box"`
	Vertices [][]float64 `yaml:"vertices"`
	Anchors  [][]float64 `yaml:"anchors"`
}

// UnmarshalYAML accepts any scalar, so that plain numbers are expressions too.
func (expr *Expression) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expression must be a scalar", node.Line)
	}
	*expr = Expression(node.Value)
	return nil
}

type Decoder struct {
	in          io.Reader
	yamlDecoder *yaml.Decoder
}

func NewDecoder(in io.Reader) *Decoder {
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	return &Decoder{
		in:          in,
		yamlDecoder: dec,
	}
}

// Decode reads the next document, returning io.EOF once the stream is done.
func (dec *Decoder) Decode() (*Format, error) {
	format := &Format{}
	// Read until yaml multi-document delimiter and/or until EOF
	err := dec.yamlDecoder.Decode(format)
	return format, err
}
