package cubemap

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/geometry"
)

// Mapper converts face coordinates into world positions for a cube, and the
// sphere it projects onto, centered on the origin.
type Mapper struct {
	// HalfExtent is the half side length of the cube and the radius of the
	// sphere.
	HalfExtent float64
}

func NewMapper(halfExtent float64) (Mapper, error) {
	if math.IsNaN(halfExtent) || math.IsInf(halfExtent, 0) || halfExtent <= 0 {
		return Mapper{}, errors.New("half extent must be a positive finite number").
			WithType(ErrTypeInvalidConfig).
			WithTag("half_extent", halfExtent)
	}
	return Mapper{HalfExtent: halfExtent}, nil
}

// CubePoint returns the world position of uv on the face f of the cube.
func (m Mapper) CubePoint(f Face, uv geometry.Vector2) geometry.Vector3 {
	return cubePoint(f, uv).Mul(m.HalfExtent)
}

// SpherePoint returns the world position of uv projected onto the sphere.
func (m Mapper) SpherePoint(f Face, uv geometry.Vector2) geometry.Vector3 {
	return FaceToDirection(f, uv).Mul(m.HalfExtent)
}

// PointToFace returns the face and face coordinates seen from the center in
// the direction of p.
func (m Mapper) PointToFace(p geometry.Vector3) (Face, geometry.Vector2) {
	return DirectionToFace(p)
}
