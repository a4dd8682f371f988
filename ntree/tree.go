// Package ntree implements the region subdivision algorithms shared by the
// quadtree and the octree.
//
// A tree partitions the region of its root into nested sub-regions. Nodes hold
// no payload: every node is identified by an arena.Handle that callers use as
// the key of their own stores. Trees are not safe for concurrent mutation;
// concurrent reads are fine as long as no mutation is in flight.
package ntree

import (
	"fmt"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/arena"
)

// MaxChildren is the largest supported branching factor (octree).
const MaxChildren = 8

// Bounds is the region geometry a tree is parameterized by. P is the point
// type of the region.
//
// Split(i) must return the i-th of the 2^Dimensions() equal sub-regions, bit
// k of i selecting the upper half along axis k. ChildIndex must return the
// index of the sub-region containing a point, assigning points on a split
// boundary to the lower side.
type Bounds[B any, P any] interface {
	comparable

	Dimensions() int
	Contains(p P) bool
	Intersects(o B) bool
	Split(child int) B
	ChildIndex(p P) int
	Valid() bool
}

type Status uint8

const (
	Leaf Status = iota
	Internal
)

func (s Status) String() string {
	if s == Internal {
		return "internal"
	}
	return "leaf"
}

// Node is one partition region. Values returned by Tree.Node are copies.
type Node[B any] struct {
	Handle arena.Handle
	Parent arena.Handle
	Bounds B
	Depth  int
	Status Status

	position uint8
	fanout   uint8
	children [MaxChildren]arena.Handle
}

// Children returns the child handles in child index order. All of them are
// arena.Nil on a leaf.
func (n Node[B]) Children() []arena.Handle {
	children := make([]arena.Handle, n.fanout)
	copy(children, n.children[:n.fanout])
	return children
}

func (n Node[B]) Child(i int) arena.Handle {
	if i < 0 || i >= int(n.fanout) {
		return arena.Nil
	}
	return n.children[i]
}

// Position returns the index of the node in its parent's children.
func (n Node[B]) Position() int {
	return int(n.position)
}

func (n Node[B]) IsLeaf() bool {
	return n.Status == Leaf
}

func (n Node[B]) IsRoot() bool {
	return n.Parent.IsNil()
}

// Tree is a 2^d-ary region tree stored in an arena.
type Tree[B Bounds[B, P], P any] struct {
	kind     string
	nodes    *arena.Arena[Node[B]]
	root     arena.Handle
	bounds   B
	maxDepth int
	fanout   int
	metrics  treeMetrics
}

// New creates a tree made of a single leaf root covering bounds. Kind names
// the tree in logs and metrics.
func New[B Bounds[B, P], P any](kind string, bounds B, maxDepth int) (*Tree[B, P], error) {
	if !bounds.Valid() {
		return nil, errors.New("root bounds must be finite and non-degenerate").
			WithType(ErrTypeInvalidConfig).
			WithTag("tree", kind).
			WithTag("bounds", fmt.Sprint(bounds))
	}

	if maxDepth < 0 {
		return nil, errors.New("max depth must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("tree", kind).
			WithTag("max_depth", maxDepth)
	}

	dims := bounds.Dimensions()
	if dims < 1 || 1<<dims > MaxChildren {
		return nil, errors.New("unsupported bounds dimensions").
			WithType(ErrTypeInvalidConfig).
			WithTag("tree", kind).
			WithTag("dimensions", dims)
	}

	t := &Tree[B, P]{
		kind:     kind,
		nodes:    arena.New[Node[B]](1 << dims),
		bounds:   bounds,
		maxDepth: maxDepth,
		fanout:   1 << dims,
		metrics:  newTreeMetrics(kind),
	}

	t.root = t.nodes.Allocate(Node[B]{
		Bounds: bounds,
		Status: Leaf,
		fanout: uint8(t.fanout),
	})
	t.mustGet(t.root).Handle = t.root
	t.metrics.nodes.Inc()

	return t, nil
}

func (t *Tree[B, P]) Kind() string {
	return t.kind
}

// Root returns the root handle, or arena.Nil once the tree is torn down.
func (t *Tree[B, P]) Root() arena.Handle {
	return t.root
}

func (t *Tree[B, P]) Bounds() B {
	return t.bounds
}

func (t *Tree[B, P]) MaxDepth() int {
	return t.maxDepth
}

// Fanout returns the branching factor: 4 for a quadtree, 8 for an octree.
func (t *Tree[B, P]) Fanout() int {
	return t.fanout
}

// Len returns the number of live nodes.
func (t *Tree[B, P]) Len() int {
	return t.nodes.Len()
}

func (t *Tree[B, P]) Contains(h arena.Handle) bool {
	return t.nodes.Contains(h)
}

// Node returns a copy of the node identified by h.
func (t *Tree[B, P]) Node(h arena.Handle) (Node[B], error) {
	n, err := t.nodes.Get(h)
	if err != nil {
		return Node[B]{}, err
	}
	return *n, nil
}

func (t *Tree[B, P]) get(h arena.Handle) (*Node[B], error) {
	return t.nodes.Get(h)
}

// mustGet is used on handles read from live nodes, which are valid as long as
// the tree invariants hold.
func (t *Tree[B, P]) mustGet(h arena.Handle) *Node[B] {
	n, err := t.nodes.Get(h)
	if err != nil {
		panic(errors.New("tree links a dead node").
			WithType(ErrTypeInvariantViolation).
			WithTag("tree", t.kind).
			Wrap(err))
	}
	return n
}

func (t *Tree[B, P]) fail(op string, err error) error {
	instrumentOperationError(t.kind, op, err)
	return err
}
