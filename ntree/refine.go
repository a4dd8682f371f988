package ntree

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/spatialtrees/arena"
)

type EventKind uint8

const (
	// Grown reports a subdivision: Node is the subdivided node and Created
	// holds its new children.
	Grown EventKind = iota + 1

	// Shrunk reports a prune: Node is the node that became a leaf and Removed
	// holds every destroyed descendant.
	Shrunk
)

func (k EventKind) String() string {
	switch k {
	case Grown:
		return "grown"
	case Shrunk:
		return "shrunk"
	default:
		return "unknown"
	}
}

// Event describes a structural change made by Refine. Callers use events to
// keep their payload stores in sync with the tree.
type Event struct {
	Kind    EventKind
	Node    arena.Handle
	Created []arena.Handle
	Removed []arena.Handle
}

// Refine reshapes the tree top-down according to split. Nodes for which split
// returns true are subdivided, up to the max depth, and visited further.
// Internal nodes for which split returns false are pruned back into leaves.
// Events are returned in the order the changes were made.
func (t *Tree[B, P]) Refine(split func(n Node[B]) bool) []Event {
	if t.root.IsNil() {
		return nil
	}

	var events []Event
	stack := []arena.Handle{t.root}

	for len(stack) != 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := *t.mustGet(h)

		switch {
		case split(n):
			if n.Status == Leaf {
				if n.Depth >= t.maxDepth {
					continue
				}

				children, err := t.Subdivide(h)
				if err != nil {
					logs.Warn(err)
					continue
				}
				events = append(events, Event{
					Kind:    Grown,
					Node:    h,
					Created: children,
				})
				n = *t.mustGet(h)
			}

			for i := t.fanout - 1; i >= 0; i-- {
				stack = append(stack, n.children[i])
			}

		case n.Status == Internal:
			removed := t.prune(t.mustGet(h), nil)
			t.metrics.instrumentCollapse(len(removed))
			events = append(events, Event{
				Kind:    Shrunk,
				Node:    h,
				Removed: removed,
			})
		}
	}

	if len(events) != 0 {
		logs.WithTag("tree", t.kind).
			WithTag("events", len(events)).
			WithTag("nodes", t.nodes.Len()).
			Debug("tree refined")
	}
	return events
}
