// Package geometry is the narrow slice of a geometry kernel the turtle relies
// upon: oriented planes, affine transforms, and shapes that can be built and
// transformed.
package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Epsilon is the tolerance under which vectors are considered degenerate
const Epsilon = 1e-9

var ErrDegeneratePlane = errors.New("points do not define a plane")

type (
	Point     = mgl64.Vec3
	Vector    = mgl64.Vec3
	Transform = mgl64.Mat4
)

// Plane is an oriented frame: an origin and three orthonormal axes.
type Plane struct {
	Origin Point
	XAxis  Vector
	YAxis  Vector
	ZAxis  Vector
}

// PlaneFromPoints builds the plane with its origin at origin, its X axis
// towards xPoint and its Y axis in the direction of yPoint.
func PlaneFromPoints(origin, xPoint, yPoint Point) (Plane, error) {
	x := xPoint.Sub(origin)
	if x.Len() < Epsilon {
		return Plane{}, errors.Wrap(ErrDegeneratePlane, "x point coincides with origin")
	}
	x = x.Normalize()

	// Only keep the component of y orthogonal to x
	y := yPoint.Sub(origin)
	y = y.Sub(x.Mul(y.Dot(x)))
	if y.Len() < Epsilon {
		return Plane{}, errors.Wrap(ErrDegeneratePlane, "points are collinear")
	}
	y = y.Normalize()

	return Plane{
		Origin: origin,
		XAxis:  x,
		YAxis:  y,
		ZAxis:  x.Cross(y),
	}, nil
}

// PointAt evaluates the plane at the given local coordinates.
func (p Plane) PointAt(u, v, w float64) Point {
	return p.Origin.Add(p.XAxis.Mul(u)).Add(p.YAxis.Mul(v)).Add(p.ZAxis.Mul(w))
}

// Transform returns the plane moved by t. Axes are renormalised, so uniform
// scaling leaves them unchanged.
func (p Plane) Transform(t Transform) Plane {
	origin := Apply(t, p.Origin)
	axis := func(v Vector) Vector {
		return Apply(t, p.Origin.Add(v)).Sub(origin).Normalize()
	}
	return Plane{
		Origin: origin,
		XAxis:  axis(p.XAxis),
		YAxis:  axis(p.YAxis),
		ZAxis:  axis(p.ZAxis),
	}
}

// frame maps the world frame onto the plane
func (p Plane) frame() Transform {
	return mgl64.Mat4FromCols(
		p.XAxis.Vec4(0),
		p.YAxis.Vec4(0),
		p.ZAxis.Vec4(0),
		p.Origin.Vec4(1),
	)
}

// Apply transforms a point.
func Apply(t Transform, p Point) Point {
	return t.Mul4x1(p.Vec4(1)).Vec3()
}

func Translation(v Vector) Transform {
	return mgl64.Translate3D(v.X(), v.Y(), v.Z())
}

// Rotation rotates by angle radians around axis, through center.
func Rotation(angle float64, axis Vector, center Point) Transform {
	rotation := mgl64.HomogRotate3D(angle, axis.Normalize())
	return Translation(center).Mul4(rotation).Mul4(Translation(center.Mul(-1)))
}

// Scale scales uniformly by factor around anchor.
func Scale(anchor Point, factor float64) Transform {
	scale := mgl64.Scale3D(factor, factor, factor)
	return Translation(anchor).Mul4(scale).Mul4(Translation(anchor.Mul(-1)))
}

// PlaneToPlane maps from onto to, carrying along anything expressed in from.
func PlaneToPlane(from, to Plane) Transform {
	return to.frame().Mul4(from.frame().Inv())
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return mgl64.DegToRad(degrees)
}
