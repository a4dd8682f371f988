package planet

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/cubemap"
	"github.com/aukilabs/spatialtrees/geometry"
	"github.com/aukilabs/spatialtrees/ntree"
	"github.com/aukilabs/spatialtrees/quadtree"
)

// Neighbor returns the node adjacent to h across its side in direction dir,
// crossing to the adjacent face when h touches a face edge. As within a
// single quadtree, the result has the depth of h or is a larger leaf. The
// boolean is always true for a valid node since the sphere has no boundary.
func (t *Tree) Neighbor(h FaceHandle, dir ntree.Direction) (FaceHandle, bool, error) {
	neighbor, _, err := t.neighbor(h, dir)
	if err != nil {
		return FaceHandle{}, false, err
	}
	return neighbor, true, nil
}

// Neighbors returns every leaf bordering h on its side in direction dir.
func (t *Tree) Neighbors(h FaceHandle, dir ntree.Direction) ([]FaceHandle, error) {
	neighbor, side, err := t.neighbor(h, dir)
	if err != nil {
		return nil, err
	}

	leaves, err := t.faces[neighbor.Face].BorderingLeaves(neighbor.Handle, side)
	if err != nil {
		return nil, err
	}
	return tag(neighbor.Face, leaves), nil
}

// NeighborDepths returns, for each of the four quadtree directions in
// quadtree.Directions order, how many levels shallower the neighbor of h is.
// 0 means a neighbor of the same depth. A positive value is a larger leaf,
// which is where level of detail seams have to be stitched.
func (t *Tree) NeighborDepths(h FaceHandle) ([4]int, error) {
	var depths [4]int

	node, err := t.Node(h)
	if err != nil {
		return depths, err
	}

	for i, dir := range quadtree.Directions {
		neighbor, _, err := t.neighbor(h, dir)
		if err != nil {
			return depths, err
		}

		n, err := t.Node(neighbor)
		if err != nil {
			return depths, err
		}
		depths[i] = node.Depth - n.Depth
	}
	return depths, nil
}

// neighbor returns the neighbor of h in direction dir and the side of the
// neighbor facing h.
func (t *Tree) neighbor(h FaceHandle, dir ntree.Direction) (FaceHandle, ntree.Direction, error) {
	face, err := t.Face(h.Face)
	if err != nil {
		return FaceHandle{}, 0, err
	}

	neighbor, ok, err := face.Neighbor(h.Handle, dir)
	if err != nil {
		return FaceHandle{}, 0, err
	}
	if ok {
		return FaceHandle{Face: h.Face, Handle: neighbor}, dir.Opposite(), nil
	}

	n, err := face.Node(h.Handle)
	if err != nil {
		return FaceHandle{}, 0, err
	}

	edge := cubemap.Edge(dir)
	to, remap, err := cubemap.EdgeAdjacency(h.Face, edge)
	if err != nil {
		return FaceHandle{}, 0, err
	}

	// Midpoint of the crossed edge, moved half a cell into the adjacent face.
	p := n.Bounds.Center().WithComponent(edge.Axis(), edge.Sign())
	p = remap.Apply(p)
	axis := remap.Edge.Axis()
	p = p.WithComponent(axis, p.Component(axis)-remap.Edge.Sign()*n.Bounds.Size()/2)

	found, err := t.faces[to].LocateDepth(p, n.Depth)
	if err != nil {
		return FaceHandle{}, 0, errors.New("locating neighbor across face edge failed").
			WithType(ntree.ErrTypeInvariantViolation).
			WithTag("from", h.String()).
			WithTag("to_face", to.String()).
			Wrap(err)
	}
	return FaceHandle{Face: to, Handle: found}, ntree.Direction(remap.Edge), nil
}

// NeighborDiagonal returns the node touching the corner of h in direction
// (du, dv), where du and dv are -1, 0 or 1 and not both 0. Around a cube
// corner only three cells meet: the U edge is crossed first and the result is
// the cell of the first adjacent face that touches the corner.
func (t *Tree) NeighborDiagonal(h FaceHandle, du, dv int) (FaceHandle, error) {
	if du < -1 || du > 1 || dv < -1 || dv > 1 || (du == 0 && dv == 0) {
		return FaceHandle{}, errors.New("invalid diagonal direction").
			WithType(ntree.ErrTypeInvalidDirection).
			WithTag("du", du).
			WithTag("dv", dv)
	}

	face, err := t.Face(h.Face)
	if err != nil {
		return FaceHandle{}, err
	}

	neighbor, ok, err := face.NeighborAt(h.Handle, ntree.Offset{du, dv, 0})
	if err != nil {
		return FaceHandle{}, err
	}
	if ok {
		return FaceHandle{Face: h.Face, Handle: neighbor}, nil
	}

	n, err := face.Node(h.Handle)
	if err != nil {
		return FaceHandle{}, err
	}

	size := n.Bounds.Size()
	c := n.Bounds.Center()
	p := geometry.Vector2{
		X: c.X + float64(du)*size,
		Y: c.Y + float64(dv)*size,
	}

	if math.Abs(p.X) > 1 && math.Abs(p.Y) > 1 {
		p.Y = math.Copysign(1-size/2, p.Y)
	}

	to := h.Face
	for axis := 0; axis < 2; axis++ {
		coord := p.Component(axis)
		if math.Abs(coord) <= 1 {
			continue
		}

		edge := cubemap.Edge(axis * 2)
		if coord > 0 {
			edge++
		}

		adjacent, remap, err := cubemap.EdgeAdjacency(to, edge)
		if err != nil {
			return FaceHandle{}, err
		}
		p = remap.Apply(p)
		to = adjacent
	}

	found, err := t.faces[to].LocateDepth(p, n.Depth)
	if err != nil {
		return FaceHandle{}, err
	}
	return FaceHandle{Face: to, Handle: found}, nil
}
