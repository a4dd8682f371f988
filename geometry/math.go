package geometry

import (
	"math"
)

func EqualWithEpsilon(a float64, b float64, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

func InRangeWithEpsilon(value float64, min float64, max float64, epsilon float64) bool {
	return value+epsilon >= min && value-epsilon <= max
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type Vector2 struct {
	X float64
	Y float64
}

func NewVector2(x, y float64) Vector2 {
	return Vector2{x, y}
}

// Component returns the coordinate along axis i (0 = X, 1 = Y).
func (v Vector2) Component(i int) float64 {
	if i == 0 {
		return v.X
	}
	return v.Y
}

// WithComponent returns a copy of v with the coordinate along axis i set to c.
func (v Vector2) WithComponent(i int, c float64) Vector2 {
	if i == 0 {
		v.X = c
	} else {
		v.Y = c
	}
	return v
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

func (v Vector2) Mul(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

func (v Vector2) EqualWithEpsilon(o Vector2, epsilon float64) bool {
	return EqualWithEpsilon(v.X, o.X, epsilon) &&
		EqualWithEpsilon(v.Y, o.Y, epsilon)
}

func (v Vector2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

type Vector3 struct {
	X float64
	Y float64
	Z float64
}

func NewVector3(x, y, z float64) Vector3 {
	return Vector3{x, y, z}
}

// Component returns the coordinate along axis i (0 = X, 1 = Y, 2 = Z).
func (v Vector3) Component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns a copy of v with the coordinate along axis i set to c.
func (v Vector3) WithComponent(i int, c float64) Vector3 {
	switch i {
	case 0:
		v.X = c
	case 1:
		v.Y = c
	default:
		v.Z = c
	}
	return v
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Mul(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func Cross(a Vector3, b Vector3) Vector3 {
	return Vector3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vector3) Normalized() Vector3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return v.Mul(1 / length)
}

func (v Vector3) EqualWithEpsilon(o Vector3, epsilon float64) bool {
	return EqualWithEpsilon(v.X, o.X, epsilon) &&
		EqualWithEpsilon(v.Y, o.Y, epsilon) &&
		EqualWithEpsilon(v.Z, o.Z, epsilon)
}

func (v Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Angle returns the angle in radians between a and b.
func Angle(a Vector3, b Vector3) float64 {
	return math.Atan2(Cross(a, b).Length(), a.Dot(b))
}
