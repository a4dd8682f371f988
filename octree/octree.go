// Package octree provides region octrees over axis-aligned boxes.
package octree

import (
	"github.com/aukilabs/spatialtrees/geometry"
	"github.com/aukilabs/spatialtrees/ntree"
)

const Kind = "octree"

type (
	Tree  = ntree.Tree[geometry.Box, geometry.Vector3]
	Node  = ntree.Node[geometry.Box]
	Event = ntree.Event
)

// Octree directions. Bit k of a child index selects the upper half along
// axis k.
const (
	Left     = ntree.NegX
	Right    = ntree.PosX
	Down     = ntree.NegY
	Up       = ntree.PosY
	Backward = ntree.NegZ
	Forward  = ntree.PosZ
)

var Directions = [6]ntree.Direction{Left, Right, Down, Up, Backward, Forward}

// New creates an octree made of a single leaf covering bounds.
func New(bounds geometry.Box, maxDepth int) (*Tree, error) {
	return ntree.New[geometry.Box, geometry.Vector3](Kind, bounds, maxDepth)
}
