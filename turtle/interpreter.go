package turtle

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sadiwali/Leaf/geometry"
)

// Mode selects what the turtle emits for drawable symbols.
type Mode uint8

const (
	Voxels Mode = iota
	Lines
)

func (m Mode) String() string {
	if m == Lines {
		return "line"
	}
	return "voxel"
}

// Config gathers what's needed to draw a string.
type Config struct {
	Mode          Mode
	VoxelSize     float64
	StepDistance  float64
	Angle         float64
	StackCapacity int

	// Bindings may be nil, they are ignored when drawing lines
	Bindings *Bindings
}

// Start returns the turtle a walk configured by c begins with.
func (c Config) Start() State {
	if c.Mode == Lines {
		return NewLineState(c.StepDistance, c.Angle)
	}
	return NewState(c.VoxelSize, c.StepDistance, c.Angle)
}

// Interpreter walks symbol strings.
type Interpreter struct {
	kernel   geometry.Kernel
	mode     Mode
	bindings *Bindings
	capacity int
}

type Option func(*Interpreter)

func WithMode(m Mode) Option {
	return func(in *Interpreter) { in.mode = m }
}

func WithBindings(b *Bindings) Option {
	return func(in *Interpreter) { in.bindings = b }
}

func WithStackCapacity(capacity int) Option {
	return func(in *Interpreter) { in.capacity = capacity }
}

func NewInterpreter(kernel geometry.Kernel, opts ...Option) *Interpreter {
	in := &Interpreter{
		kernel:   kernel,
		mode:     Voxels,
		capacity: DefaultStackCapacity,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// FromConfig builds the interpreter matching c.
func FromConfig(kernel geometry.Kernel, c Config) *Interpreter {
	return NewInterpreter(kernel,
		WithMode(c.Mode),
		WithBindings(c.Bindings),
		WithStackCapacity(c.StackCapacity),
	)
}

// Result is the outcome of a walk.
type Result struct {
	Shapes []geometry.Shape

	// Final is the turtle once every symbol has been read
	Final State
}

// Interpret walks symbols starting from start. On error no shape is returned.
func (in *Interpreter) Interpret(symbols string, start State) (Result, error) {
	turtle := start
	stack := NewStack(in.capacity)
	shapes := make([]geometry.Shape, 0, len(symbols))

	i := -1
	for _, c := range symbols {
		// Positions are counted in symbols, not bytes
		i++

		switch c {
		case '^':
			turtle.PitchUp()
		case '/':
			turtle.PitchDown()
		case '-':
			turtle.TurnLeft()
		case '+':
			turtle.TurnRight()
		case '_':
			turtle.Move()
		case '[':
			if err := stack.Push(turtle); err != nil {
				return Result{}, errors.Wrapf(err, "at symbol %d", i)
			}
		case ']':
			// Unbalanced closing brackets are tolerated
			if saved, ok := stack.Pop(); ok {
				turtle.Restore(saved)
			}
		default:
			if strings.ContainsRune(RuleOnly, c) {
				return Result{}, errors.Wrapf(ErrReservedSymbol, "%q at symbol %d", c, i)
			}

			// Move the pointer forward, then draw
			turtle.Move()
			shape, err := in.emit(c, turtle)
			if err != nil {
				return Result{}, errors.Wrapf(err, "drawing %q at symbol %d", c, i)
			}
			shapes = append(shapes, shape)
		}
	}

	return Result{Shapes: shapes, Final: turtle}, nil
}

func (in *Interpreter) emit(c rune, s State) (geometry.Shape, error) {
	if in.mode == Lines {
		from, to := s.CurveEnds()
		return valid(in.kernel.Line(from, to))
	}

	if b, ok := in.bindings.Lookup(c); ok {
		shape, err := b.Place(s)
		if err != nil {
			return nil, err
		}
		return valid(shape)
	}

	plane, err := s.VoxelPlane()
	if err != nil {
		return nil, err
	}
	return valid(in.kernel.Box(plane, s.VoxelSize))
}

func valid(shape geometry.Shape) (geometry.Shape, error) {
	if shape == nil || !shape.Valid() {
		return nil, errors.Wrapf(ErrInvalidShape, "%v", shape)
	}
	return shape, nil
}
