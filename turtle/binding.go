package turtle

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sadiwali/Leaf/geometry"
)

const (
	// Operators drive the turtle and can't be bound to geometry
	Operators = "^/-+_[]"

	// RuleOnly symbols belong to the rule syntax and never reach the turtle
	RuleOnly = "<>()"
)

// Binding substitutes a symbol with a template shape. The anchors are the
// bottom-left, top-left and bottom-right points of the template's front face.
type Binding struct {
	Symbol rune
	Shape  geometry.Shape
	BL     geometry.Point
	TL     geometry.Point
	BR     geometry.Point
}

// NewBinding validates and builds a binding.
func NewBinding(symbol string, shape geometry.Shape, anchors []geometry.Point) (Binding, error) {
	switch {
	case symbol == "":
		return Binding{}, errors.Wrap(ErrInvalidBinding, "you must choose a symbol to replace")
	case utf8.RuneCountInString(symbol) > 1:
		return Binding{}, errors.Wrapf(ErrInvalidBinding, "%q is more than one symbol", symbol)
	case strings.Contains(Operators, symbol) || strings.Contains(RuleOnly, symbol):
		return Binding{}, errors.Wrapf(ErrInvalidBinding, "%q is reserved", symbol)
	case shape == nil || !shape.Valid():
		return Binding{}, errors.Wrapf(ErrInvalidBinding, "invalid shape for %q", symbol)
	case len(anchors) != 3:
		return Binding{}, errors.Wrapf(ErrInvalidBinding, "need exactly 3 points, got %d", len(anchors))
	}

	r, _ := utf8.DecodeRuneInString(symbol)
	b := Binding{
		Symbol: r,
		Shape:  shape,
		BL:     anchors[0],
		TL:     anchors[1],
		BR:     anchors[2],
	}
	if _, err := b.OrientPlane(); err != nil {
		return Binding{}, errors.Wrapf(ErrInvalidBinding, "anchors of %q: %v", symbol, err)
	}
	return b, nil
}

func (b Binding) OrientPlane() (geometry.Plane, error) {
	return geometry.PlaneFromPoints(b.BL, b.TL, b.BR)
}

// VoxelSize is the edge length of the template's face.
func (b Binding) VoxelSize() float64 {
	return b.TL.Sub(b.BL).Len()
}

// Center is the middle of the template's voxel, half a voxel behind the face.
func (b Binding) Center() geometry.Point {
	a := b.TL.Sub(b.BL).Normalize()
	c := b.BR.Sub(b.BL).Normalize()
	n := a.Cross(c).Normalize().Mul(-b.VoxelSize() / 2)

	mid := b.TL.Add(b.BR).Mul(0.5)
	return mid.Add(n)
}

// Place returns a copy of the template scaled to the turtle's voxel size
// and aligned onto its frame.
func (b Binding) Place(s State) (geometry.Shape, error) {
	source, err := b.OrientPlane()
	if err != nil {
		return nil, err
	}
	target, err := s.OrientPlane()
	if err != nil {
		return nil, err
	}

	shape := b.Shape
	if factor := s.VoxelSize / b.VoxelSize(); factor != 1 {
		t := geometry.Scale(b.Center(), factor)
		shape = shape.Transform(t)
		source = source.Transform(t)
	}

	return shape.Transform(geometry.PlaneToPlane(source, target)), nil
}

// DuplicatePolicy decides what happens when a symbol is bound twice.
type DuplicatePolicy uint8

const (
	RejectDuplicates DuplicatePolicy = iota
	OverwriteDuplicates
)

// Bindings maps symbols to their binding.
type Bindings struct {
	policy DuplicatePolicy
	table  map[rune]Binding
}

func NewBindings(policy DuplicatePolicy) *Bindings {
	return &Bindings{
		policy: policy,
		table:  make(map[rune]Binding),
	}
}

// Add registers b according to the duplicate policy.
func (bs *Bindings) Add(b Binding) error {
	if _, ok := bs.table[b.Symbol]; ok && bs.policy == RejectDuplicates {
		return errors.Wrapf(ErrDuplicateBinding, "%q", b.Symbol)
	}
	bs.table[b.Symbol] = b
	return nil
}

// Lookup is safe on a nil table.
func (bs *Bindings) Lookup(symbol rune) (Binding, bool) {
	if bs == nil {
		return Binding{}, false
	}
	b, ok := bs.table[symbol]
	return b, ok
}

func (bs *Bindings) Len() int {
	if bs == nil {
		return 0
	}
	return len(bs.table)
}
