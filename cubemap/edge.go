package cubemap

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/geometry"
)

// Edge is a side of a face, numbered like the 2D tree directions.
type Edge uint8

const (
	NegU Edge = iota
	PosU
	NegV
	PosV
)

// Edges lists the four edges of a face.
var Edges = [4]Edge{NegU, PosU, NegV, PosV}

// Axis returns 0 for U edges and 1 for V edges.
func (e Edge) Axis() int {
	return int(e) / 2
}

func (e Edge) Positive() bool {
	return e%2 == 1
}

func (e Edge) Sign() float64 {
	if e.Positive() {
		return 1
	}
	return -1
}

func (e Edge) Opposite() Edge {
	return e ^ 1
}

func (e Edge) Valid() bool {
	return e < 4
}

func (e Edge) String() string {
	switch e {
	case NegU:
		return "neg_u"
	case PosU:
		return "pos_u"
	case NegV:
		return "neg_v"
	case PosV:
		return "pos_v"
	default:
		return "invalid"
	}
}

// Remap converts face coordinates across a seam: coordinates of the source
// face, extended past the shared edge, become coordinates of the adjacent
// face. The coordinate parallel to the edge is carried over and the
// perpendicular one is reflected about the seam.
type Remap struct {
	// Edge is the shared edge as seen from the adjacent face.
	Edge Edge

	src    [2]int
	sign   [2]float64
	offset [2]float64
}

func (r Remap) Apply(uv geometry.Vector2) geometry.Vector2 {
	in := [2]float64{uv.X, uv.Y}
	return geometry.Vector2{
		X: r.sign[0]*in[r.src[0]] + r.offset[0],
		Y: r.sign[1]*in[r.src[1]] + r.offset[1],
	}
}

type adjacency struct {
	face  Face
	remap Remap
}

var adjacencies = buildAdjacencies()

// buildAdjacencies computes the 24 seams of the cube. Crossing edge (k, σ) of
// the face with axis a and sign s leads to the face with axis axes(a)[k] and
// sign σ, where the a coordinate becomes 2s - sσ·uv[k].
func buildAdjacencies() [FaceCount][4]adjacency {
	var table [FaceCount][4]adjacency

	for _, f := range Faces {
		axis, s := f.Axis(), f.Sign()
		axes := otherAxes(axis)

		for _, e := range Edges {
			k, sigma := e.Axis(), e.Sign()
			to := faceOf(axes[k], e.Positive())
			toAxes := to.Axes()

			var ja, jc int
			for j, world := range toAxes {
				if world == axis {
					ja = j
				} else {
					jc = j
				}
			}

			var r Remap
			r.src[jc], r.sign[jc] = 1-k, 1
			r.src[ja], r.sign[ja], r.offset[ja] = k, -s*sigma, 2*s
			r.Edge = Edge(ja * 2)
			if f.Positive() {
				r.Edge++
			}

			table[f][e] = adjacency{face: to, remap: r}
		}
	}
	return table
}

// EdgeAdjacency returns the face sharing edge e of face f, and the remap of
// f coordinates into that face.
func EdgeAdjacency(f Face, e Edge) (Face, Remap, error) {
	if err := CheckFace(f); err != nil {
		return 0, Remap{}, err
	}

	if !e.Valid() {
		return 0, Remap{}, errors.New("invalid face edge").
			WithType(ErrTypeInvalidFace).
			WithTag("face", f.String()).
			WithTag("edge", int(e))
	}

	a := adjacencies[f][e]
	return a.face, a.remap, nil
}
