package ntree

import (
	"fmt"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/arena"
)

// Validate walks the whole tree and checks its structural invariants: parent
// and child links agree, depths and bounds follow the subdivision rules,
// leaves have no children and every live node is reachable from the root.
func (t *Tree[B, P]) Validate() error {
	if t.root.IsNil() {
		if n := t.nodes.Len(); n != 0 {
			return t.invalid("torn down tree has live nodes", arena.Nil, nil, "nodes", n)
		}
		return nil
	}

	reached, err := t.validate(t.root, arena.Nil, 0, t.bounds, 0)
	if err != nil {
		return err
	}

	if n := t.nodes.Len(); reached != n {
		return t.invalid("live nodes are unreachable from the root", t.root, nil,
			"reached", reached,
			"nodes", n)
	}

	for h, n := range t.nodes.All() {
		steps := 0
		for p := n.Parent; !p.IsNil(); steps++ {
			if steps > t.maxDepth {
				return t.invalid("parent chain does not end at the root", h, nil)
			}
			pn, err := t.get(p)
			if err != nil {
				return t.invalid("parent is not a live node", h, err)
			}
			p = pn.Parent
		}
		if steps != n.Depth {
			return t.invalid("depth does not match the parent chain", h, nil,
				"depth", n.Depth,
				"chain", steps)
		}
	}
	return nil
}

func (t *Tree[B, P]) validate(h, parent arena.Handle, depth int, bounds B, position int) (int, error) {
	n, err := t.get(h)
	if err != nil {
		return 0, t.invalid("linked node is not live", h, err)
	}

	switch {
	case n.Handle != h:
		return 0, t.invalid("node handle does not match its slot", h, nil)

	case n.Parent != parent:
		return 0, t.invalid("node parent does not match its linking parent", h, nil,
			"parent", n.Parent.String(),
			"expected_parent", parent.String())

	case n.Depth != depth:
		return 0, t.invalid("node depth is inconsistent", h, nil,
			"depth", n.Depth,
			"expected_depth", depth)

	case n.Depth > t.maxDepth:
		return 0, t.invalid("node is deeper than max depth", h, nil,
			"depth", n.Depth)

	case n.Bounds != bounds:
		return 0, t.invalid("node bounds do not match the parent split", h, nil,
			"bounds", fmt.Sprint(n.Bounds),
			"expected_bounds", fmt.Sprint(bounds))

	case int(n.position) != position:
		return 0, t.invalid("node position does not match its parent slot", h, nil)
	}

	for i := t.fanout; i < MaxChildren; i++ {
		if !n.children[i].IsNil() {
			return 0, t.invalid("node links more children than the fanout", h, nil)
		}
	}

	if n.Status == Leaf {
		for i := 0; i < t.fanout; i++ {
			if !n.children[i].IsNil() {
				return 0, t.invalid("leaf has children", h, nil)
			}
		}
		return 1, nil
	}

	reached := 1
	children := n.children
	for i := 0; i < t.fanout; i++ {
		if children[i].IsNil() {
			return 0, t.invalid("internal node misses a child", h, nil,
				"child_index", i)
		}

		count, err := t.validate(children[i], h, depth+1, bounds.Split(i), i)
		if err != nil {
			return 0, err
		}
		reached += count
	}
	return reached, nil
}

// invalid builds an invariant violation error. Tags are given as key/value
// pairs.
func (t *Tree[B, P]) invalid(msg string, h arena.Handle, cause error, tags ...any) error {
	err := errors.New(msg).
		WithType(ErrTypeInvariantViolation).
		WithTag("tree", t.kind).
		WithTag("handle", h.String())

	for i := 0; i+1 < len(tags); i += 2 {
		err = err.WithTag(fmt.Sprint(tags[i]), tags[i+1])
	}

	if cause != nil {
		return err.Wrap(cause)
	}
	return err
}
