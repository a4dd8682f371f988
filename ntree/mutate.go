package ntree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/spatialtrees/arena"
)

// Subdivide turns the leaf h into an internal node with 2^d leaf children
// covering the equal sub-regions of its bounds. The children are returned in
// child index order.
func (t *Tree[B, P]) Subdivide(h arena.Handle) ([]arena.Handle, error) {
	n, err := t.get(h)
	if err != nil {
		return nil, t.fail("subdivide", err)
	}

	if n.Status == Internal {
		return nil, t.fail("subdivide", errors.New("node is already subdivided").
			WithType(ErrTypeAlreadyInternal).
			WithTag("tree", t.kind).
			WithTag("handle", h.String()))
	}

	if n.Depth >= t.maxDepth {
		return nil, t.fail("subdivide", errors.New("node is at max depth").
			WithType(ErrTypeDepthLimitExceeded).
			WithTag("tree", t.kind).
			WithTag("handle", h.String()).
			WithTag("depth", n.Depth).
			WithTag("max_depth", t.maxDepth))
	}

	bounds := n.Bounds
	depth := n.Depth + 1

	var children [MaxChildren]arena.Handle
	for i := 0; i < t.fanout; i++ {
		c := t.nodes.Allocate(Node[B]{
			Parent:   h,
			Bounds:   bounds.Split(i),
			Depth:    depth,
			Status:   Leaf,
			position: uint8(i),
			fanout:   uint8(t.fanout),
		})
		t.mustGet(c).Handle = c
		children[i] = c
	}

	// The arena may have grown: n is stale.
	n = t.mustGet(h)
	n.children = children
	n.Status = Internal
	t.metrics.instrumentSubdivide(t.fanout)

	created := make([]arena.Handle, t.fanout)
	copy(created, children[:t.fanout])
	return created, nil
}

// Collapse turns the internal node h back into a leaf by destroying its
// children. All the children must be leaves; the tree is left untouched
// otherwise. The destroyed handles are returned in child index order.
func (t *Tree[B, P]) Collapse(h arena.Handle) ([]arena.Handle, error) {
	n, err := t.get(h)
	if err != nil {
		return nil, t.fail("collapse", err)
	}

	if n.Status == Leaf {
		return nil, t.fail("collapse", errors.New("node is already a leaf").
			WithType(ErrTypeAlreadyLeaf).
			WithTag("tree", t.kind).
			WithTag("handle", h.String()))
	}

	for i := 0; i < t.fanout; i++ {
		if c := t.mustGet(n.children[i]); c.Status == Internal {
			return nil, t.fail("collapse", errors.New("node has internal children").
				WithType(ErrTypeNotAllChildrenLeaf).
				WithTag("tree", t.kind).
				WithTag("handle", h.String()).
				WithTag("child", c.Handle.String()))
		}
	}

	removed := make([]arena.Handle, 0, t.fanout)
	for i := 0; i < t.fanout; i++ {
		t.free(n.children[i])
		removed = append(removed, n.children[i])
	}

	n.children = [MaxChildren]arena.Handle{}
	n.Status = Leaf
	t.metrics.instrumentCollapse(len(removed))
	return removed, nil
}

// Prune turns the internal node h into a leaf by destroying its whole
// subtree. The destroyed handles are returned in depth-first pre-order.
func (t *Tree[B, P]) Prune(h arena.Handle) ([]arena.Handle, error) {
	n, err := t.get(h)
	if err != nil {
		return nil, t.fail("prune", err)
	}

	if n.Status == Leaf {
		return nil, t.fail("prune", errors.New("node is already a leaf").
			WithType(ErrTypeAlreadyLeaf).
			WithTag("tree", t.kind).
			WithTag("handle", h.String()))
	}

	removed := t.prune(n, nil)
	t.metrics.instrumentCollapse(len(removed))
	return removed, nil
}

// prune destroys the descendants of n, appends their handles to removed and
// makes n a leaf.
func (t *Tree[B, P]) prune(n *Node[B], removed []arena.Handle) []arena.Handle {
	if n.Status == Leaf {
		return removed
	}

	children := n.children
	n.children = [MaxChildren]arena.Handle{}
	n.Status = Leaf

	for i := 0; i < t.fanout; i++ {
		removed = append(removed, children[i])
		removed = t.prune(t.mustGet(children[i]), removed)
		t.free(children[i])
	}
	return removed
}

// Teardown destroys every node, root included, and returns the destroyed
// handles in depth-first pre-order. The tree is unusable afterwards: Root
// returns arena.Nil and every former handle is invalid.
func (t *Tree[B, P]) Teardown() []arena.Handle {
	if t.root.IsNil() {
		return nil
	}

	removed := []arena.Handle{t.root}
	removed = t.prune(t.mustGet(t.root), removed)
	t.free(t.root)
	t.root = arena.Nil
	t.metrics.instrumentRemove(len(removed))

	logs.WithTag("tree", t.kind).
		WithTag("removed", len(removed)).
		Debug("tree torn down")
	return removed
}

func (t *Tree[B, P]) free(h arena.Handle) {
	if _, err := t.nodes.Free(h); err != nil {
		panic(errors.New("freeing a dead node").
			WithType(ErrTypeInvariantViolation).
			WithTag("tree", t.kind).
			Wrap(err))
	}
}
