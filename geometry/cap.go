package geometry

import "math"

// Cap is the set of unit directions within Radius radians of Center.
type Cap struct {
	Center Vector3
	Radius float64
}

// NewCap returns a cap around the normalized center direction.
func NewCap(center Vector3, radius float64) Cap {
	return Cap{
		Center: center.Normalized(),
		Radius: radius,
	}
}

// BoundingCap makes Cap usable wherever a spherical region is expected.
func (c Cap) BoundingCap() Cap {
	return c
}

func (c Cap) ContainsDirection(d Vector3) bool {
	return Angle(c.Center, d) <= c.Radius
}

// IntersectsCap reports whether c and o share at least one direction.
func (c Cap) IntersectsCap(o Cap) bool {
	return Angle(c.Center, o.Center) <= c.Radius+o.Radius
}

// Full reports whether the cap covers the whole sphere.
func (c Cap) Full() bool {
	return c.Radius >= math.Pi
}
