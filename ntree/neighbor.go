package ntree

import (
	"fmt"
	"slices"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/arena"
)

// Direction is an axis-aligned step. Quadtrees only accept the X and Y
// directions.
type Direction uint8

const (
	NegX Direction = iota
	PosX
	NegY
	PosY
	NegZ
	PosZ
)

// Axis returns the index of the axis the direction moves along.
func (d Direction) Axis() int {
	return int(d) / 2
}

func (d Direction) Positive() bool {
	return d%2 == 1
}

func (d Direction) Opposite() Direction {
	return d ^ 1
}

func (d Direction) String() string {
	switch d {
	case NegX:
		return "-x"
	case PosX:
		return "+x"
	case NegY:
		return "-y"
	case PosY:
		return "+y"
	case NegZ:
		return "-z"
	case PosZ:
		return "+z"
	default:
		return "invalid"
	}
}

// Offset is a step of -1, 0 or 1 cell along each axis. A single nonzero
// component crosses a face or an edge, several cross an edge or a corner.
type Offset [3]int

// Offset returns the single axis step of d.
func (d Direction) Offset() Offset {
	var o Offset
	o[d.Axis()] = -1
	if d.Positive() {
		o[d.Axis()] = 1
	}
	return o
}

// Opposite returns the offset pointing the other way.
func (o Offset) Opposite() Offset {
	return Offset{-o[0], -o[1], -o[2]}
}

func (o Offset) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o[0], o[1], o[2])
}

// NoNeighbor is the neighbor depth difference reported for sides touching the
// root boundary.
const NoNeighbor = -1

// Neighbor returns the node adjacent to h across its side in direction dir.
// The result has the depth of h when such a node exists, or is the larger
// leaf covering that side otherwise. The boolean is false when h touches the
// root boundary in that direction.
func (t *Tree[B, P]) Neighbor(h arena.Handle, dir Direction) (arena.Handle, bool, error) {
	if err := t.checkDirection(dir); err != nil {
		return arena.Nil, false, t.fail("neighbor", err)
	}
	return t.NeighborAt(h, dir.Offset())
}

// NeighborAt returns the node adjacent to h in the direction of off, which
// may be diagonal. Like Neighbor, the result has the depth of h or is a larger
// leaf, and the boolean is false when the step leaves the root bounds.
func (t *Tree[B, P]) NeighborAt(h arena.Handle, off Offset) (arena.Handle, bool, error) {
	if err := t.checkOffset(off); err != nil {
		return arena.Nil, false, t.fail("neighbor", err)
	}

	n, err := t.get(h)
	if err != nil {
		return arena.Nil, false, t.fail("neighbor", err)
	}

	// path[i] is the child position of the ancestor i levels above n.
	path := make([]int, 0, n.Depth)
	for c := n; !c.Parent.IsNil(); c = t.mustGet(c.Parent) {
		path = append(path, int(c.position))
	}

	// Each nonzero axis flips its bit upwards until the step stays inside a
	// parent, like a carry in binary addition.
	target := slices.Clone(path)
	top := -1
	for axis, step := range off {
		if step == 0 {
			continue
		}

		bit := 1 << axis
		upper := step > 0
		level := 0
		for ; level < len(path); level++ {
			target[level] ^= bit
			if (path[level]&bit != 0) != upper {
				break
			}
		}
		if level == len(path) {
			return arena.Nil, false, nil
		}
		top = max(top, level)
	}

	ancestor := n
	for i := 0; i <= top; i++ {
		ancestor = t.mustGet(ancestor.Parent)
	}

	found := ancestor.Handle
	for i := top; i >= 0; i-- {
		fn := t.mustGet(found)
		if fn.Status == Leaf {
			break
		}
		found = fn.children[target[i]]
	}
	return found, true, nil
}

// Neighbors returns all the leaves adjacent to h across its side in
// direction dir. The result is empty when h touches the root boundary.
func (t *Tree[B, P]) Neighbors(h arena.Handle, dir Direction) ([]arena.Handle, error) {
	if err := t.checkDirection(dir); err != nil {
		return nil, t.fail("neighbors", err)
	}
	return t.NeighborsAt(h, dir.Offset())
}

// NeighborsAt returns all the leaves adjacent to h in the direction of off:
// the leaves of its neighbor that touch h across a side, an edge or a corner.
func (t *Tree[B, P]) NeighborsAt(h arena.Handle, off Offset) ([]arena.Handle, error) {
	neighbor, ok, err := t.NeighborAt(h, off)
	if err != nil || !ok {
		return nil, err
	}

	mask, want := sideBits(off.Opposite())
	return t.bordering(neighbor, mask, want, nil), nil
}

// NeighborDepths returns, for each direction the tree supports in Direction
// order, how many levels shallower the neighbor of h is. 0 means a neighbor
// of the same depth, NoNeighbor a side on the root boundary.
func (t *Tree[B, P]) NeighborDepths(h arena.Handle) ([]int, error) {
	n, err := t.get(h)
	if err != nil {
		return nil, t.fail("neighbor_depths", err)
	}
	depth := n.Depth

	depths := make([]int, 2*t.bounds.Dimensions())
	for i := range depths {
		neighbor, ok, err := t.Neighbor(h, Direction(i))
		if err != nil {
			return nil, err
		}
		if !ok {
			depths[i] = NoNeighbor
			continue
		}
		depths[i] = depth - t.mustGet(neighbor).Depth
	}
	return depths, nil
}

// BorderingLeaves returns the leaves of the subtree of h that touch its side
// in direction side, in depth-first child order.
func (t *Tree[B, P]) BorderingLeaves(h arena.Handle, side Direction) ([]arena.Handle, error) {
	if err := t.checkDirection(side); err != nil {
		return nil, t.fail("bordering_leaves", err)
	}

	if _, err := t.get(h); err != nil {
		return nil, t.fail("bordering_leaves", err)
	}

	mask, want := sideBits(side.Offset())
	return t.bordering(h, mask, want, nil), nil
}

// bordering collects the leaves below h whose child positions match want on
// the bits of mask at every level.
func (t *Tree[B, P]) bordering(h arena.Handle, mask, want int, leaves []arena.Handle) []arena.Handle {
	n := t.mustGet(h)
	if n.Status == Leaf {
		return append(leaves, h)
	}

	children := n.children
	for i := 0; i < t.fanout; i++ {
		if i&mask == want {
			leaves = t.bordering(children[i], mask, want, leaves)
		}
	}
	return leaves
}

// sideBits returns the child position bits selecting the children that touch
// the side, edge or corner off points to.
func sideBits(off Offset) (mask, want int) {
	for axis, step := range off {
		if step == 0 {
			continue
		}
		mask |= 1 << axis
		if step > 0 {
			want |= 1 << axis
		}
	}
	return mask, want
}

func (t *Tree[B, P]) checkOffset(off Offset) error {
	zero := true
	for axis, step := range off {
		if step < -1 || step > 1 || (step != 0 && axis >= t.bounds.Dimensions()) {
			return errors.New("offset is not supported by the tree dimensions").
				WithType(ErrTypeInvalidDirection).
				WithTag("tree", t.kind).
				WithTag("offset", off.String())
		}
		if step != 0 {
			zero = false
		}
	}

	if zero {
		return errors.New("offset does not move").
			WithType(ErrTypeInvalidDirection).
			WithTag("tree", t.kind).
			WithTag("offset", off.String())
	}
	return nil
}

func (t *Tree[B, P]) checkDirection(dir Direction) error {
	if dir.Axis() >= t.bounds.Dimensions() {
		return errors.New("direction is not supported by the tree dimensions").
			WithType(ErrTypeInvalidDirection).
			WithTag("tree", t.kind).
			WithTag("direction", dir.String())
	}
	return nil
}
