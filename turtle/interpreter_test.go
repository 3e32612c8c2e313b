package turtle

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sadiwali/Leaf/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawable(symbols string) int {
	n := 0
	for _, c := range symbols {
		if !strings.ContainsRune(Operators, c) {
			n++
		}
	}
	return n
}

func TestInterpreter_Count(t *testing.T) {
	in := NewInterpreter(geometry.MeshKernel{})
	for _, symbols := range []string{
		"",
		"F",
		"F[+F]F[-F]F",
		"^/-+_[]",
		"AB[^C[/D]E]]]_F",
		"ééé",
	} {
		t.Run(symbols, func(t *testing.T) {
			res, err := in.Interpret(symbols, NewState(1, 1, 90))
			require.NoError(t, err)
			assert.Len(t, res.Shapes, drawable(symbols))
		})
	}
}

func TestInterpreter_BranchBalance(t *testing.T) {
	in := NewInterpreter(geometry.MeshKernel{})
	start := NewState(1, 1, 90)

	res, err := in.Interpret("[_]", start)
	require.NoError(t, err)
	assert.Empty(t, res.Shapes)
	assert.Equal(t, start, res.Final)

	res, err = in.Interpret("[+F[^F]-F]", start)
	require.NoError(t, err)
	assert.Len(t, res.Shapes, 3)
	assert.Equal(t, start, res.Final)
}

func TestInterpreter_UnmatchedClose(t *testing.T) {
	in := NewInterpreter(geometry.MeshKernel{})

	res, err := in.Interpret("]]F", NewState(1, 1, 90))
	require.NoError(t, err)
	require.Len(t, res.Shapes, 1)
	assertPoint(t, mgl64.Vec3{0, 1, 0}, res.Final.Point)
}

func TestInterpreter_StackOverflow(t *testing.T) {
	in := NewInterpreter(geometry.MeshKernel{}, WithStackCapacity(10))

	res, err := in.Interpret("F"+strings.Repeat("[", 10)+"F", NewState(1, 1, 90))
	require.NoError(t, err)
	assert.Len(t, res.Shapes, 2)

	res, err = in.Interpret("F"+strings.Repeat("[", 11)+"F", NewState(1, 1, 90))
	require.ErrorIs(t, err, ErrStackOverflow)
	assert.Empty(t, res.Shapes)

	// Balanced nesting deeper than the capacity in total is fine
	res, err = in.Interpret(strings.Repeat("[F]", 100), NewState(1, 1, 90))
	require.NoError(t, err)
	assert.Len(t, res.Shapes, 100)
}

func TestInterpreter_DefaultCapacity(t *testing.T) {
	in := NewInterpreter(geometry.MeshKernel{})

	_, err := in.Interpret(strings.Repeat("[", DefaultStackCapacity), NewState(1, 1, 90))
	require.NoError(t, err)

	_, err = in.Interpret(strings.Repeat("[", DefaultStackCapacity+1), NewState(1, 1, 90))
	require.ErrorIs(t, err, ErrStackOverflow)
}

func TestInterpreter_ReservedSymbol(t *testing.T) {
	in := NewInterpreter(geometry.MeshKernel{})

	res, err := in.Interpret("FF(F", NewState(1, 1, 90))
	require.ErrorIs(t, err, ErrReservedSymbol)
	assert.Empty(t, res.Shapes)
}

func TestInterpreter_ErrorPosition(t *testing.T) {
	in := NewInterpreter(geometry.MeshKernel{})

	_, err := in.Interpret("ééé(", NewState(1, 1, 90))
	require.ErrorIs(t, err, ErrReservedSymbol)
	assert.Contains(t, err.Error(), "at symbol 3")

	_, err = NewInterpreter(geometry.MeshKernel{}, WithStackCapacity(1)).Interpret("è[[", NewState(1, 1, 90))
	require.ErrorIs(t, err, ErrStackOverflow)
	assert.Contains(t, err.Error(), "at symbol 2")
}

func TestInterpreter_InvalidShape(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"lines without step", Config{Mode: Lines, StepDistance: 0, Angle: 90}},
		{"lines with NaN step", Config{Mode: Lines, StepDistance: math.NaN(), Angle: 90}},
		{"voxels with NaN size", Config{Mode: Voxels, VoxelSize: math.NaN(), StepDistance: 1, Angle: 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := FromConfig(geometry.MeshKernel{}, tt.cfg).Interpret("FF", tt.cfg.Start())
			require.Error(t, err)
			assert.Empty(t, res.Shapes)
		})
	}

	cfg := Config{Mode: Lines, StepDistance: 0, Angle: 90}
	_, err := FromConfig(geometry.MeshKernel{}, cfg).Interpret("F", cfg.Start())
	require.ErrorIs(t, err, ErrInvalidShape)
}

func TestInterpreter_Voxels(t *testing.T) {
	in := NewInterpreter(geometry.MeshKernel{})

	res, err := in.Interpret("F-F", NewState(1, 1, 90))
	require.NoError(t, err)
	require.Len(t, res.Shapes, 2)

	// Every voxel is centred on the turtle after its step
	first := res.Shapes[0].(*geometry.Mesh)
	second := res.Shapes[1].(*geometry.Mesh)
	assert.Equal(t, geometry.KindBox, first.Kind)
	assertPoint(t, mgl64.Vec3{0, 1, 0}, first.Centroid())
	assertPoint(t, mgl64.Vec3{-1, 1, 0}, second.Centroid())
	assertPoint(t, mgl64.Vec3{-1, 1, 0}, res.Final.Point)
}

func TestInterpreter_Lines(t *testing.T) {
	cfg := Config{Mode: Lines, StepDistance: 2, Angle: 90}
	in := FromConfig(geometry.MeshKernel{}, cfg)

	res, err := in.Interpret("F+F_F", cfg.Start())
	require.NoError(t, err)
	require.Len(t, res.Shapes, 3)

	want := [][2]geometry.Point{
		{{0, 0, 0}, {0, 2, 0}},
		{{0, 2, 0}, {2, 2, 0}},
		{{4, 2, 0}, {6, 2, 0}},
	}
	for i, s := range res.Shapes {
		line := s.(*geometry.Mesh)
		assert.Equal(t, geometry.KindLine, line.Kind)
		assertPoint(t, want[i][0], line.Vertices[0])
		assertPoint(t, want[i][1], line.Vertices[1])
	}
}

func TestInterpreter_Bindings(t *testing.T) {
	shape, anchors := template(t, 2)
	b, err := NewBinding("L", shape, anchors)
	require.NoError(t, err)
	bindings := NewBindings(RejectDuplicates)
	require.NoError(t, bindings.Add(b))

	in := NewInterpreter(geometry.MeshKernel{}, WithBindings(bindings))
	res, err := in.Interpret("FL", NewState(1, 1, 90))
	require.NoError(t, err)
	require.Len(t, res.Shapes, 2)

	// The bound template is scaled down to the voxel the turtle would have drawn
	placed := res.Shapes[1].(*geometry.Mesh)
	assertPoint(t, mgl64.Vec3{0, 2, 0}, placed.Centroid())
	assert.InDelta(t, 1, placed.Vertices[1].Sub(placed.Vertices[0]).Len(), tolerance)

	// Lines don't use bindings
	lines := NewInterpreter(geometry.MeshKernel{}, WithBindings(bindings), WithMode(Lines))
	res, err = lines.Interpret("L", NewLineState(1, 90))
	require.NoError(t, err)
	assert.Equal(t, geometry.KindLine, res.Shapes[0].(*geometry.Mesh).Kind)
}

func TestConfig_Start(t *testing.T) {
	voxels := Config{Mode: Voxels, VoxelSize: 2, StepDistance: 3, Angle: 45}
	assert.Equal(t, NewState(2, 3, 45), voxels.Start())

	lines := Config{Mode: Lines, VoxelSize: 2, StepDistance: 3, Angle: 45}
	assert.Equal(t, NewState(3, 3, 45), lines.Start())
}
