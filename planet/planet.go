// Package planet covers the surface of a sphere with six quadtrees, one per
// face of the enclosing cube, and stitches them into a single structure.
//
// Each face quadtree spans the face coordinates [-1, 1]². Nodes are
// identified by a FaceHandle since every face owns its own arena.
package planet

import (
	"fmt"
	"iter"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/spatialtrees/arena"
	"github.com/aukilabs/spatialtrees/cubemap"
	"github.com/aukilabs/spatialtrees/geometry"
	"github.com/aukilabs/spatialtrees/ntree"
	"github.com/aukilabs/spatialtrees/quadtree"
)

// KindPrefix prefixes the tree kind of every face in logs and metrics.
const KindPrefix = "planet_"

// FaceBounds is the root region of every face quadtree.
var FaceBounds = geometry.NewRect(geometry.Vector2{X: -1, Y: -1}, geometry.Vector2{X: 1, Y: 1})

// FaceHandle identifies a node of a planet tree.
type FaceHandle struct {
	Face   cubemap.Face
	Handle arena.Handle
}

func (h FaceHandle) String() string {
	return h.Face.String() + "/" + h.Handle.String()
}

// SphericalRegion is a region of the sphere surface.
type SphericalRegion interface {
	// BoundingCap returns a cap containing the whole region.
	BoundingCap() geometry.Cap
}

// Tree is a sphere-covering tree made of six face quadtrees.
type Tree struct {
	faces    [cubemap.FaceCount]*quadtree.Tree
	mapper   cubemap.Mapper
	maxDepth int
}

// New creates a planet tree of the given radius. All faces share maxDepth.
func New(halfExtent float64, maxDepth int) (*Tree, error) {
	mapper, err := cubemap.NewMapper(halfExtent)
	if err != nil {
		return nil, errors.New("creating planet tree failed").
			WithType(ntree.ErrTypeInvalidConfig).
			Wrap(err)
	}

	t := &Tree{
		mapper:   mapper,
		maxDepth: maxDepth,
	}

	for _, f := range cubemap.Faces {
		face, err := quadtree.NewWithKind(KindPrefix+f.String(), FaceBounds, maxDepth)
		if err != nil {
			return nil, errors.New("creating planet face failed").
				WithType(errors.Type(err)).
				WithTag("face", f.String()).
				Wrap(err)
		}
		t.faces[f] = face
	}

	logs.WithTag("half_extent", halfExtent).
		WithTag("max_depth", maxDepth).
		Debug("planet tree created")
	return t, nil
}

// Face returns the quadtree of the face f.
func (t *Tree) Face(f cubemap.Face) (*quadtree.Tree, error) {
	if err := cubemap.CheckFace(f); err != nil {
		return nil, err
	}
	return t.faces[f], nil
}

func (t *Tree) Mapper() cubemap.Mapper {
	return t.mapper
}

func (t *Tree) MaxDepth() int {
	return t.maxDepth
}

// Roots returns the root of every face, in face order.
func (t *Tree) Roots() [cubemap.FaceCount]FaceHandle {
	var roots [cubemap.FaceCount]FaceHandle
	for _, f := range cubemap.Faces {
		roots[f] = FaceHandle{Face: f, Handle: t.faces[f].Root()}
	}
	return roots
}

// Len returns the number of live nodes over all faces.
func (t *Tree) Len() int {
	n := 0
	for _, face := range t.faces {
		n += face.Len()
	}
	return n
}

func (t *Tree) Contains(h FaceHandle) bool {
	return h.Face.Valid() && t.faces[h.Face].Contains(h.Handle)
}

func (t *Tree) Node(h FaceHandle) (quadtree.Node, error) {
	face, err := t.Face(h.Face)
	if err != nil {
		return quadtree.Node{}, err
	}
	return face.Node(h.Handle)
}

// Locate returns the deepest node crossed by the ray from the planet center
// along dir.
func (t *Tree) Locate(dir geometry.Vector3) (FaceHandle, error) {
	return t.LocateDepth(dir, t.maxDepth)
}

// LocateDepth is Locate descending no deeper than depth.
func (t *Tree) LocateDepth(dir geometry.Vector3, depth int) (FaceHandle, error) {
	if !dir.IsFinite() || dir == (geometry.Vector3{}) {
		return FaceHandle{}, errors.New("direction must be finite and non-zero").
			WithType(ntree.ErrTypeOutOfBounds).
			WithTag("direction", fmt.Sprint(dir))
	}

	f, uv := cubemap.DirectionToFace(dir)
	h, err := t.faces[f].LocateDepth(uv, depth)
	if err != nil {
		return FaceHandle{}, err
	}
	return FaceHandle{Face: f, Handle: h}, nil
}

func (t *Tree) Subdivide(h FaceHandle) ([]FaceHandle, error) {
	face, err := t.Face(h.Face)
	if err != nil {
		return nil, err
	}

	children, err := face.Subdivide(h.Handle)
	if err != nil {
		return nil, err
	}
	return tag(h.Face, children), nil
}

func (t *Tree) Collapse(h FaceHandle) ([]FaceHandle, error) {
	face, err := t.Face(h.Face)
	if err != nil {
		return nil, err
	}

	removed, err := face.Collapse(h.Handle)
	if err != nil {
		return nil, err
	}
	return tag(h.Face, removed), nil
}

func (t *Tree) Prune(h FaceHandle) ([]FaceHandle, error) {
	face, err := t.Face(h.Face)
	if err != nil {
		return nil, err
	}

	removed, err := face.Prune(h.Handle)
	if err != nil {
		return nil, err
	}
	return tag(h.Face, removed), nil
}

// Leaves iterates over the leaves of every face, in face order.
func (t *Tree) Leaves() iter.Seq[FaceHandle] {
	return func(yield func(FaceHandle) bool) {
		for _, f := range cubemap.Faces {
			for h := range t.faces[f].Leaves() {
				if !yield(FaceHandle{Face: f, Handle: h}) {
					return
				}
			}
		}
	}
}

// Query iterates over the leaves that may intersect region, face by face.
// The region is reduced to its bounding cap and every cell to the cap around
// its center direction reaching its corners, so leaves close to the region
// can be reported.
func (t *Tree) Query(region SphericalRegion) iter.Seq[FaceHandle] {
	bounding := region.BoundingCap()

	return func(yield func(FaceHandle) bool) {
		for _, f := range cubemap.Faces {
			intersects := func(b geometry.Rect) bool {
				return bounding.Full() || bounding.IntersectsCap(CellCap(f, b))
			}

			for h := range t.faces[f].QueryFunc(intersects) {
				if !yield(FaceHandle{Face: f, Handle: h}) {
					return
				}
			}
		}
	}
}

// CellCap returns the smallest cap centered on the direction of the center of
// b that contains the whole cell.
func CellCap(f cubemap.Face, b geometry.Rect) geometry.Cap {
	center := cubemap.FaceToDirection(f, b.Center())

	var radius float64
	for _, corner := range b.Corners() {
		radius = max(radius, geometry.Angle(center, cubemap.FaceToDirection(f, corner)))
	}
	return geometry.Cap{Center: center, Radius: radius}
}

// CenterDirection returns the unit direction through the center of h.
func (t *Tree) CenterDirection(h FaceHandle) (geometry.Vector3, error) {
	n, err := t.Node(h)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return cubemap.FaceToDirection(h.Face, n.Bounds.Center()), nil
}

// Center returns the world position of the center of h on the sphere.
func (t *Tree) Center(h FaceHandle) (geometry.Vector3, error) {
	n, err := t.Node(h)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return t.mapper.SpherePoint(h.Face, n.Bounds.Center()), nil
}

// Teardown destroys every node of every face.
func (t *Tree) Teardown() []FaceHandle {
	var removed []FaceHandle
	for _, f := range cubemap.Faces {
		removed = append(removed, tag(f, t.faces[f].Teardown())...)
	}
	return removed
}

// Validate checks the invariants of every face. The faces must either all be
// live or all be torn down.
func (t *Tree) Validate() error {
	live := 0
	for _, f := range cubemap.Faces {
		if !t.faces[f].Root().IsNil() {
			live++
		}
	}
	if live != 0 && live != cubemap.FaceCount {
		return errors.New("planet faces are partially torn down").
			WithType(ntree.ErrTypeInvariantViolation).
			WithTag("live_faces", live)
	}

	for _, f := range cubemap.Faces {
		if err := t.faces[f].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Print renders every face tree.
func (t *Tree) Print() string {
	var b strings.Builder
	for _, f := range cubemap.Faces {
		b.WriteString(t.faces[f].Print(func(n quadtree.Node) string {
			if n.IsRoot() {
				return fmt.Sprintf("%s %s", f, n.Handle)
			}
			return fmt.Sprintf("%s depth=%d", n.Handle, n.Depth)
		}))
	}
	return b.String()
}

func tag(f cubemap.Face, handles []arena.Handle) []FaceHandle {
	if handles == nil {
		return nil
	}

	tagged := make([]FaceHandle, len(handles))
	for i, h := range handles {
		tagged[i] = FaceHandle{Face: f, Handle: h}
	}
	return tagged
}
