// Package cubemap maps directions on a sphere to the six faces of the unit
// cube and back, and describes how faces are stitched together along their
// edges.
//
// Face coordinates (u, v) span [-1, 1]. The U and V axes of a face are the two
// world axes other than the face normal, in ascending order: X faces use
// (Y, Z), Y faces use (X, Z) and Z faces use (X, Y).
package cubemap

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/geometry"
)

const (
	ErrTypeInvalidFace   = "invalid_face"
	ErrTypeInvalidConfig = "invalid_config"
)

// FaceCount is the number of cube faces.
const FaceCount = 6

// Face is a cube face, identified by the world axis it is orthogonal to and
// the side of the cube it lies on.
type Face uint8

const (
	NegX Face = iota
	PosX
	NegY
	PosY
	NegZ
	PosZ
)

// Faces lists every face in face order.
var Faces = [FaceCount]Face{NegX, PosX, NegY, PosY, NegZ, PosZ}

func (f Face) Valid() bool {
	return f < FaceCount
}

// Axis returns the index of the world axis the face is orthogonal to.
func (f Face) Axis() int {
	return int(f) / 2
}

func (f Face) Positive() bool {
	return f%2 == 1
}

// Sign returns 1 for positive faces and -1 for negative ones.
func (f Face) Sign() float64 {
	if f.Positive() {
		return 1
	}
	return -1
}

// Axes returns the world axes of the face U and V coordinates.
func (f Face) Axes() [2]int {
	return otherAxes(f.Axis())
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() geometry.Vector3 {
	return geometry.Vector3{}.WithComponent(f.Axis(), f.Sign())
}

func (f Face) String() string {
	switch f {
	case NegX:
		return "neg_x"
	case PosX:
		return "pos_x"
	case NegY:
		return "neg_y"
	case PosY:
		return "pos_y"
	case NegZ:
		return "neg_z"
	case PosZ:
		return "pos_z"
	default:
		return "invalid"
	}
}

// CheckFace returns an error when f is not one of the six faces.
func CheckFace(f Face) error {
	if !f.Valid() {
		return errors.New("invalid cube face").
			WithType(ErrTypeInvalidFace).
			WithTag("face", int(f))
	}
	return nil
}

func faceOf(axis int, positive bool) Face {
	f := Face(axis * 2)
	if positive {
		f++
	}
	return f
}

func otherAxes(axis int) [2]int {
	switch axis {
	case 0:
		return [2]int{1, 2}
	case 1:
		return [2]int{0, 2}
	default:
		return [2]int{0, 1}
	}
}

// DirectionToFace returns the face hit by the ray from the cube center along
// v, and the face coordinates of the hit point. The dominant axis is the one
// with the largest magnitude, ties resolving to X, then Y, then Z. A zero
// vector maps to the center of PosX.
func DirectionToFace(v geometry.Vector3) (Face, geometry.Vector2) {
	axis := 0
	largest := math.Abs(v.X)
	if y := math.Abs(v.Y); y > largest {
		axis, largest = 1, y
	}
	if z := math.Abs(v.Z); z > largest {
		axis, largest = 2, z
	}

	if largest == 0 {
		return PosX, geometry.Vector2{}
	}

	face := faceOf(axis, v.Component(axis) > 0)
	axes := otherAxes(axis)
	return face, geometry.Vector2{
		X: v.Component(axes[0]) / largest,
		Y: v.Component(axes[1]) / largest,
	}
}

// FaceToDirection returns the unit direction through the face point uv. It is
// the inverse of DirectionToFace.
func FaceToDirection(f Face, uv geometry.Vector2) geometry.Vector3 {
	return cubePoint(f, uv).Normalized()
}

// cubePoint returns the point of the face f on the cube of half extent 1.
func cubePoint(f Face, uv geometry.Vector2) geometry.Vector3 {
	axes := f.Axes()
	return geometry.Vector3{}.
		WithComponent(f.Axis(), f.Sign()).
		WithComponent(axes[0], uv.X).
		WithComponent(axes[1], uv.Y)
}
