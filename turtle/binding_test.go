package turtle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sadiwali/Leaf/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// template returns a box of edge size on the XZ face at the origin, with its
// anchors on that face
func template(t *testing.T, size float64) (geometry.Shape, []geometry.Point) {
	t.Helper()
	anchors := []geometry.Point{{0, 0, 0}, {0, 0, size}, {size, 0, 0}}
	plane, err := geometry.PlaneFromPoints(anchors[1], anchors[0], anchors[2])
	require.NoError(t, err)
	return geometry.MeshKernel{}.Box(plane, size), anchors
}

func TestNewBinding(t *testing.T) {
	shape, anchors := template(t, 2)

	b, err := NewBinding("L", shape, anchors)
	require.NoError(t, err)
	assert.Equal(t, 'L', b.Symbol)
	assert.InDelta(t, 2, b.VoxelSize(), tolerance)

	// Half a voxel behind the middle of the face
	assertPoint(t, mgl64.Vec3{1, -1, 1}, b.Center())
}

func TestNewBinding_Invalid(t *testing.T) {
	shape, anchors := template(t, 1)
	collinear := []geometry.Point{{0, 0, 0}, {0, 0, 1}, {0, 0, 2}}

	tests := []struct {
		name    string
		symbol  string
		shape   geometry.Shape
		anchors []geometry.Point
	}{
		{"no symbol", "", shape, anchors},
		{"two symbols", "ab", shape, anchors},
		{"operator", "+", shape, anchors},
		{"branch", "[", shape, anchors},
		{"rule only", "<", shape, anchors},
		{"no shape", "a", nil, anchors},
		{"invalid shape", "a", &geometry.Mesh{}, anchors},
		{"two anchors", "a", shape, anchors[:2]},
		{"collinear anchors", "a", shape, collinear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBinding(tt.symbol, tt.shape, tt.anchors)
			require.ErrorIs(t, err, ErrInvalidBinding)
		})
	}
}

func TestBindings(t *testing.T) {
	shape, anchors := template(t, 1)
	first, err := NewBinding("a", shape, anchors)
	require.NoError(t, err)
	second, err := NewBinding("a", shape, anchors[:3])
	require.NoError(t, err)
	second.BL = mgl64.Vec3{0, 0, -1}

	rejecting := NewBindings(RejectDuplicates)
	require.NoError(t, rejecting.Add(first))
	require.ErrorIs(t, rejecting.Add(second), ErrDuplicateBinding)
	got, ok := rejecting.Lookup('a')
	require.True(t, ok)
	assert.Equal(t, first.BL, got.BL)

	overwriting := NewBindings(OverwriteDuplicates)
	require.NoError(t, overwriting.Add(first))
	require.NoError(t, overwriting.Add(second))
	got, ok = overwriting.Lookup('a')
	require.True(t, ok)
	assert.Equal(t, second.BL, got.BL)
	assert.Equal(t, 1, overwriting.Len())

	var none *Bindings
	_, ok = none.Lookup('a')
	assert.False(t, ok)
	assert.Equal(t, 0, none.Len())
}

func TestBinding_Place(t *testing.T) {
	for _, sizes := range []struct{ template, turtle float64 }{
		{1, 1},
		{2, 1},
		{1, 3},
		{0.5, 0.25},
	} {
		shape, anchors := template(t, sizes.template)
		b, err := NewBinding("a", shape, anchors)
		require.NoError(t, err)

		s := NewState(sizes.turtle, sizes.turtle, 90)
		s.TurnLeft()
		s.Move()

		placed, err := b.Place(s)
		require.NoError(t, err)
		mesh := placed.(*geometry.Mesh)
		source := shape.(*geometry.Mesh)

		// Every edge is scaled by turtle/template
		factor := sizes.turtle / sizes.template
		for i := 1; i < len(source.Vertices); i++ {
			want := source.Vertices[i].Sub(source.Vertices[0]).Len() * factor
			got := mesh.Vertices[i].Sub(mesh.Vertices[0]).Len()
			assert.InDelta(t, want, got, tolerance)
		}

		// The template's voxel lands on the turtle's voxel
		plane, err := s.VoxelPlane()
		require.NoError(t, err)
		voxel := geometry.MeshKernel{}.Box(plane, s.VoxelSize).(*geometry.Mesh)
		for i := range voxel.Vertices {
			assertPoint(t, voxel.Vertices[i], mesh.Vertices[i])
		}
	}
}
