// Package turtle walks L-System strings with a 3D turtle, emitting a voxel,
// a line or a bound template shape for every drawable symbol.
package turtle

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sadiwali/Leaf/geometry"
)

// State is the turtle: a position and the face it looks through, given by
// its bottom-left, top-left and bottom-right corners.
//
// State is a value, copying it snapshots the turtle.
type State struct {
	Point geometry.Point
	BL    geometry.Point
	TL    geometry.Point
	BR    geometry.Point

	VoxelSize    float64
	StepDistance float64

	// Angle of every turn and pitch, in degrees
	Angle float64
}

// NewState places a turtle at the origin, looking down +Y.
func NewState(voxelSize, stepDistance, angle float64) State {
	h := voxelSize / 2
	return State{
		Point:        mgl64.Vec3{0, 0, 0},
		BL:           mgl64.Vec3{-h, h, -h},
		TL:           mgl64.Vec3{-h, h, h},
		BR:           mgl64.Vec3{h, h, -h},
		VoxelSize:    voxelSize,
		StepDistance: stepDistance,
		Angle:        angle,
	}
}

// NewLineState is the turtle used for line drawing, where the step distance
// doubles as the voxel size.
func NewLineState(stepDistance, angle float64) State {
	return NewState(stepDistance, stepDistance, angle)
}

// Normal is the unit direction the turtle moves along.
func (s State) Normal() geometry.Vector {
	a := s.TL.Sub(s.BL).Normalize()
	b := s.BR.Sub(s.BL).Normalize()
	return a.Cross(b).Normalize()
}

// OrientPlane is the turtle's frame as seen by geometry bindings.
func (s State) OrientPlane() (geometry.Plane, error) {
	return geometry.PlaneFromPoints(s.BL, s.TL, s.BR)
}

// VoxelPlane is the frame voxels are built upon.
func (s State) VoxelPlane() (geometry.Plane, error) {
	return geometry.PlaneFromPoints(s.TL, s.BL, s.BR)
}

func (s *State) apply(t geometry.Transform) {
	s.Point = geometry.Apply(t, s.Point)
	s.BL = geometry.Apply(t, s.BL)
	s.TL = geometry.Apply(t, s.TL)
	s.BR = geometry.Apply(t, s.BR)
}

func (s *State) rotate(axis geometry.Vector, degrees float64) {
	s.apply(geometry.Rotation(geometry.Radians(degrees), axis, s.Point))
}

// Move steps forward.
func (s *State) Move() {
	s.apply(geometry.Translation(s.Normal().Mul(s.StepDistance)))
}

func (s *State) TurnLeft() {
	s.rotate(s.TL.Sub(s.BL), s.Angle)
}

func (s *State) TurnRight() {
	s.rotate(s.TL.Sub(s.BL), -s.Angle)
}

func (s *State) PitchUp() {
	s.rotate(s.BR.Sub(s.BL), s.Angle)
}

func (s *State) PitchDown() {
	s.rotate(s.BR.Sub(s.BL), -s.Angle)
}

// Restore puts the turtle back where snapshot was. Sizes and angle are kept.
func (s *State) Restore(snapshot State) {
	s.Point = snapshot.Point
	s.BL = snapshot.BL
	s.TL = snapshot.TL
	s.BR = snapshot.BR
}

// CurveEnds gives the segment of the last step: from one step behind, to the
// current position.
func (s State) CurveEnds() (from, to geometry.Point) {
	return s.Point.Sub(s.Normal().Mul(s.StepDistance)), s.Point
}
