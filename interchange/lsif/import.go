package lsif

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	leaf "github.com/sadiwali/Leaf"
	"github.com/sadiwali/Leaf/geometry"
	"github.com/sadiwali/Leaf/interchange"
	"github.com/sadiwali/Leaf/interchange/rules"
	"github.com/sadiwali/Leaf/turtle"
)

var ensureInterfaceCompliance interchange.Format = &Format{}

var ErrUnusedGeometry = errors.New("geometry given without a turtle, ignored")

// Default turtle settings
const (
	DefaultVoxelSize    = 1
	DefaultAngle        = 90
	DefaultStepDistance = 1
)

// Import compiles the document. Malformed rules and invalid geometry are
// reported as warnings, only unusable settings fail the import.
func (format *Format) Import() (interchange.Document, error) {
	if format.Cycles < 0 {
		return interchange.Document{}, errors.Wrapf(leaf.ErrInvalidInput, "cycle cannot be negative, got %d", format.Cycles)
	}

	seed, err := format.seed()
	if err != nil {
		return interchange.Document{}, err
	}

	// Discard the null rules, keeping the order of the others
	raw := make([]string, 0, len(format.Rules))
	for _, r := range format.Rules {
		if r != nil {
			raw = append(raw, *r)
		}
	}
	compiled, warnings := rules.Compile(raw)

	doc := interchange.Document{
		Parameters: leaf.Parameters{
			Axiom:     format.Axiom,
			Rules:     compiled,
			Seed:      seed,
			MaxLength: format.MaxLength,
		},
		Cycles: uint(format.Cycles),
	}
	doc.Warnings = append(warnings, doc.Parameters.Warnings()...)

	if format.Turtle == nil {
		if len(format.Geometry) > 0 {
			doc.Warnings = append(doc.Warnings, errors.Wrapf(ErrUnusedGeometry, "%d bindings", len(format.Geometry)))
		}
		return doc, nil
	}

	cfg, warnings, err := format.importTurtle()
	if err != nil {
		return interchange.Document{}, err
	}
	doc.Turtle = cfg
	doc.Warnings = append(doc.Warnings, warnings...)
	return doc, nil
}

func (format *Format) seed() (int64, error) {
	if format.Seed != nil {
		return *format.Seed, nil
	}

	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, errors.Wrap(err, "read random seed")
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func (format *Format) importTurtle() (*turtle.Config, []error, error) {
	t := format.Turtle
	cfg := &turtle.Config{StackCapacity: t.StackCapacity}

	switch t.Mode {
	case "", "voxel":
		cfg.Mode = turtle.Voxels
	case "line":
		cfg.Mode = turtle.Lines
	default:
		return nil, nil, errors.Errorf("unknown turtle mode %q", t.Mode)
	}

	// Each setting can refer to the ones evaluated before it
	env := Environment(format.Constants)
	var err error
	if cfg.VoxelSize, err = t.VoxelSize.evaluate(env, DefaultVoxelSize); err != nil {
		return nil, nil, errors.Wrap(err, "voxelSize")
	}
	env = env.with("voxelSize", cfg.VoxelSize)
	if cfg.Angle, err = t.Angle.evaluate(env, DefaultAngle); err != nil {
		return nil, nil, errors.Wrap(err, "angle")
	}
	env = env.with("angle", cfg.Angle)
	if cfg.StepDistance, err = t.StepDistance.evaluate(env, DefaultStepDistance); err != nil {
		return nil, nil, errors.Wrap(err, "stepDistance")
	}
	env = env.with("stepDistance", cfg.StepDistance)

	if err := positive("voxelSize", cfg.VoxelSize); err != nil {
		return nil, nil, err
	}
	if err := positive("stepDistance", cfg.StepDistance); err != nil {
		return nil, nil, err
	}
	if math.IsNaN(cfg.Angle) || math.IsInf(cfg.Angle, 0) {
		return nil, nil, errors.Wrapf(leaf.ErrInvalidInput, "angle must be finite, got %v", cfg.Angle)
	}

	policy := turtle.RejectDuplicates
	switch t.Duplicates {
	case "", "reject":
	case "overwrite":
		policy = turtle.OverwriteDuplicates
	default:
		return nil, nil, errors.Errorf("unknown duplicate policy %q", t.Duplicates)
	}

	// Invalid bindings are dropped, their symbol falls back to plain voxels
	var warnings []error
	cfg.Bindings = turtle.NewBindings(policy)
	for i, g := range format.Geometry {
		b, err := g.binding(env)
		if err == nil {
			err = cfg.Bindings.Add(b)
		}
		if err != nil {
			warnings = append(warnings, errors.Wrapf(err, "geometry %d", i))
		}
	}

	return cfg, warnings, nil
}

func positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return errors.Wrapf(leaf.ErrInvalidInput, "%s must be finite and positive, got %v", name, v)
	}
	return nil
}

func (g Geometry) binding(env Environment) (turtle.Binding, error) {
	anchors := make([]geometry.Point, 0, len(g.Anchors))
	for _, a := range g.Anchors {
		p, err := point(a)
		if err != nil {
			return turtle.Binding{}, errors.Wrap(turtle.ErrInvalidBinding, err.Error())
		}
		anchors = append(anchors, p)
	}

	shape, err := g.shape(env, anchors)
	if err != nil {
		return turtle.Binding{}, err
	}
	return turtle.NewBinding(g.Symbol, shape, anchors)
}

// shape builds the template, nil when none is described.
func (g Geometry) shape(env Environment, anchors []geometry.Point) (geometry.Shape, error) {
	switch {
	case len(g.Vertices) > 0:
		mesh := &geometry.Mesh{Kind: geometry.KindMesh}
		for _, v := range g.Vertices {
			p, err := point(v)
			if err != nil {
				return nil, errors.Wrap(turtle.ErrInvalidBinding, err.Error())
			}
			mesh.Vertices = append(mesh.Vertices, p)
		}
		return mesh, nil
	case g.Box != "":
		size, err := g.Box.evaluate(env, 0)
		if err != nil {
			return nil, errors.Wrap(turtle.ErrInvalidBinding, err.Error())
		}
		if len(anchors) != 3 {
			return nil, errors.Wrapf(turtle.ErrInvalidBinding, "need exactly 3 points, got %d", len(anchors))
		}
		plane, err := geometry.PlaneFromPoints(anchors[1], anchors[0], anchors[2])
		if err != nil {
			return nil, errors.Wrap(turtle.ErrInvalidBinding, err.Error())
		}
		return geometry.MeshKernel{}.Box(plane, size), nil
	default:
		return nil, nil
	}
}

func point(coords []float64) (geometry.Point, error) {
	if len(coords) != 3 {
		return geometry.Point{}, errors.Errorf("point needs 3 coordinates, got %d", len(coords))
	}
	return mgl64.Vec3{coords[0], coords[1], coords[2]}, nil
}
