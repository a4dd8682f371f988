package ntree

import (
	"fmt"
	"iter"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/arena"
)

// Locate returns the deepest node containing p. Points lying on a split
// boundary resolve to the lower child.
func (t *Tree[B, P]) Locate(p P) (arena.Handle, error) {
	return t.LocateDepth(p, math.MaxInt)
}

// LocateDepth returns the node containing p, descending no deeper than depth.
// The result is a leaf when the branch ends before depth.
func (t *Tree[B, P]) LocateDepth(p P, depth int) (arena.Handle, error) {
	n, err := t.get(t.root)
	if err != nil {
		return arena.Nil, t.fail("locate", err)
	}

	if !n.Bounds.Contains(p) {
		return arena.Nil, t.fail("locate", errors.New("point is outside of the tree bounds").
			WithType(ErrTypeOutOfBounds).
			WithTag("tree", t.kind).
			WithTag("point", fmt.Sprint(p)))
	}

	h := t.root
	for n.Status == Internal && n.Depth < depth {
		h = n.children[n.Bounds.ChildIndex(p)]
		n = t.mustGet(h)
	}
	return h, nil
}

// Query iterates over the leaves whose bounds intersect region, in
// depth-first child order. The tree must not be mutated during iteration.
func (t *Tree[B, P]) Query(region B) iter.Seq[arena.Handle] {
	return t.QueryFunc(region.Intersects)
}

// QueryFunc iterates over the leaves for which intersects returns true.
// Subtrees are skipped as soon as intersects rejects their root, so the
// predicate must be conservative: a region rejected for a node must be
// rejected for all its descendants.
func (t *Tree[B, P]) QueryFunc(intersects func(bounds B) bool) iter.Seq[arena.Handle] {
	return func(yield func(arena.Handle) bool) {
		if t.root.IsNil() {
			return
		}
		t.walk(t.root, intersects, yield)
	}
}

// Leaves iterates over every leaf in depth-first child order.
func (t *Tree[B, P]) Leaves() iter.Seq[arena.Handle] {
	return t.QueryFunc(func(B) bool { return true })
}

func (t *Tree[B, P]) walk(h arena.Handle, intersects func(B) bool, yield func(arena.Handle) bool) bool {
	n := t.mustGet(h)
	if !intersects(n.Bounds) {
		return true
	}

	if n.Status == Leaf {
		return yield(h)
	}

	children := n.children
	for i := 0; i < t.fanout; i++ {
		if !t.walk(children[i], intersects, yield) {
			return false
		}
	}
	return true
}
