package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Shape is an opaque piece of geometry handled by a kernel.
type Shape interface {
	// Transform returns a transformed copy, leaving the receiver untouched
	Transform(t Transform) Shape

	Valid() bool
}

// Kernel constructs the primitives emitted by the turtle.
type Kernel interface {
	// Box spans [0, size] along each axis of plane
	Box(plane Plane, size float64) Shape

	Line(from, to Point) Shape
}

type Kind uint8

const (
	KindMesh Kind = iota
	KindBox
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindLine:
		return "line"
	default:
		return "mesh"
	}
}

// Mesh is a shape made of its vertices only. It is enough to place, orient
// and measure geometry without a solid modelling kernel.
type Mesh struct {
	Kind     Kind
	Vertices []Point
}

// Transform transforms a copy of the mesh.
func (m *Mesh) Transform(t Transform) Shape {
	out := &Mesh{
		Kind:     m.Kind,
		Vertices: make([]Point, len(m.Vertices)),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = Apply(t, v)
	}
	return out
}

// Valid reports whether the mesh has vertices, all of them finite.
func (m *Mesh) Valid() bool {
	if m == nil || len(m.Vertices) == 0 {
		return false
	}
	for _, v := range m.Vertices {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}

// Centroid is the average of the vertices.
func (m *Mesh) Centroid() Point {
	var c Point
	if len(m.Vertices) == 0 {
		return c
	}
	for _, v := range m.Vertices {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(m.Vertices)))
}

// Mesh stringifier, one vertex after the other
func (m *Mesh) String() string {
	var b strings.Builder
	b.WriteString(m.Kind.String())
	for _, v := range m.Vertices {
		fmt.Fprintf(&b, " (%g %g %g)", v.X(), v.Y(), v.Z())
	}
	return b.String()
}

// MeshKernel is the reference Kernel, producing *Mesh shapes.
type MeshKernel struct{}

// Box returns the eight corners of the box, iterating w, then v, then u.
func (MeshKernel) Box(plane Plane, size float64) Shape {
	vertices := make([]Point, 0, 8)
	for _, u := range []float64{0, size} {
		for _, v := range []float64{0, size} {
			for _, w := range []float64{0, size} {
				vertices = append(vertices, plane.PointAt(u, v, w))
			}
		}
	}
	return &Mesh{Kind: KindBox, Vertices: vertices}
}

func (MeshKernel) Line(from, to Point) Shape {
	return &Mesh{Kind: KindLine, Vertices: []Point{from, to}}
}
