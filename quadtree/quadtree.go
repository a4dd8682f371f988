// Package quadtree provides region quadtrees over axis-aligned rectangles.
package quadtree

import (
	"github.com/aukilabs/spatialtrees/geometry"
	"github.com/aukilabs/spatialtrees/ntree"
)

// Kind is the tree kind reported in logs and metrics.
const Kind = "quadtree"

type (
	Tree  = ntree.Tree[geometry.Rect, geometry.Vector2]
	Node  = ntree.Node[geometry.Rect]
	Event = ntree.Event
)

// Quadtree directions. Children are indexed so that bit 0 selects the right
// half and bit 1 the upper half: 0 is bottom-left, 1 bottom-right, 2 top-left
// and 3 top-right.
const (
	Left  = ntree.NegX
	Right = ntree.PosX
	Down  = ntree.NegY
	Up    = ntree.PosY
)

// Directions lists the four directions a quadtree accepts.
var Directions = [4]ntree.Direction{Left, Right, Down, Up}

// New creates a quadtree made of a single leaf covering bounds.
func New(bounds geometry.Rect, maxDepth int) (*Tree, error) {
	return NewWithKind(Kind, bounds, maxDepth)
}

// NewWithKind creates a quadtree reported under the given kind.
func NewWithKind(kind string, bounds geometry.Rect, maxDepth int) (*Tree, error) {
	return ntree.New[geometry.Rect, geometry.Vector2](kind, bounds, maxDepth)
}
