package planet

import (
	"github.com/aukilabs/spatialtrees/cubemap"
	"github.com/aukilabs/spatialtrees/geometry"
	"github.com/aukilabs/spatialtrees/ntree"
	"github.com/aukilabs/spatialtrees/quadtree"
)

// Event is a structural change of one face made by Refine.
type Event struct {
	Face cubemap.Face
	ntree.Event
}

// Subject returns the subdivided or retained node.
func (e Event) Subject() FaceHandle {
	return FaceHandle{Face: e.Face, Handle: e.Node}
}

// CreatedNodes returns the nodes created by a Grown event.
func (e Event) CreatedNodes() []FaceHandle {
	return tag(e.Face, e.Created)
}

// RemovedNodes returns the nodes destroyed by a Shrunk event.
func (e Event) RemovedNodes() []FaceHandle {
	return tag(e.Face, e.Removed)
}

// Refine reshapes every face with split, in face order. See
// ntree.Tree.Refine.
func (t *Tree) Refine(split func(f cubemap.Face, n quadtree.Node) bool) []Event {
	var events []Event

	for _, f := range cubemap.Faces {
		for _, e := range t.faces[f].Refine(func(n quadtree.Node) bool {
			return split(f, n)
		}) {
			events = append(events, Event{Face: f, Event: e})
		}
	}
	return events
}

// RefineAround subdivides the nodes closer to the world position viewer than
// lodFactor times their size on the sphere, and prunes the others.
func (t *Tree) RefineAround(viewer geometry.Vector3, lodFactor float64) []Event {
	return t.Refine(func(f cubemap.Face, n quadtree.Node) bool {
		c := CellCap(f, n.Bounds)
		center := c.Center.Mul(t.mapper.HalfExtent)
		size := 2 * c.Radius * t.mapper.HalfExtent
		return viewer.Sub(center).Length() < lodFactor*size
	})
}
