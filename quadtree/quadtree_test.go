package quadtree

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/arena"
	"github.com/aukilabs/spatialtrees/geometry"
	"github.com/aukilabs/spatialtrees/ntree"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T) *Tree {
	tree, err := New(geometry.NewRect(geometry.Vector2{X: 0, Y: 0}, geometry.Vector2{X: 100, Y: 100}), 4)
	require.NoError(t, err)
	return tree
}

func TestQuadtreeSubdivision(t *testing.T) {
	tree := newTestTree(t)

	children, err := tree.Subdivide(tree.Root())
	require.NoError(t, err)
	grandChildren, err := tree.Subdivide(children[0])
	require.NoError(t, err)

	n, err := tree.Node(grandChildren[0])
	require.NoError(t, err)
	require.Equal(t, geometry.NewRect(geometry.Vector2{X: 0, Y: 0}, geometry.Vector2{X: 25, Y: 25}), n.Bounds)
}

func TestQuadtreeLocate(t *testing.T) {
	tree := newTestTree(t)
	p := geometry.Vector2{X: 10, Y: 10}

	h, err := tree.Locate(p)
	require.NoError(t, err)
	require.Equal(t, tree.Root(), h)

	children, err := tree.Subdivide(tree.Root())
	require.NoError(t, err)
	_, err = tree.Subdivide(children[0])
	require.NoError(t, err)

	h, err = tree.Locate(p)
	require.NoError(t, err)

	n, err := tree.Node(h)
	require.NoError(t, err)
	require.Equal(t, geometry.NewRect(geometry.Vector2{X: 0, Y: 0}, geometry.Vector2{X: 25, Y: 25}), n.Bounds)
}

func TestQuadtreeCollapseInternalChild(t *testing.T) {
	tree := newTestTree(t)

	children, err := tree.Subdivide(tree.Root())
	require.NoError(t, err)
	_, err = tree.Subdivide(children[0])
	require.NoError(t, err)

	leaves := slices.Collect(tree.Leaves())

	_, err = tree.Collapse(tree.Root())
	require.Error(t, err)
	require.True(t, errors.IsType(err, ntree.ErrTypeNotAllChildrenLeaf))
	require.Equal(t, 9, tree.Len())
	require.Equal(t, leaves, slices.Collect(tree.Leaves()))
	require.NoError(t, tree.Validate())
}

func TestQuadtreeDirections(t *testing.T) {
	tree := newTestTree(t)
	children, err := tree.Subdivide(tree.Root())
	require.NoError(t, err)

	tests := []struct {
		child    int
		dir      ntree.Direction
		expected int
	}{
		{child: 0, dir: Right, expected: 1},
		{child: 0, dir: Up, expected: 2},
		{child: 3, dir: Left, expected: 2},
		{child: 3, dir: Down, expected: 1},
	}

	for _, test := range tests {
		t.Run(test.dir.String(), func(t *testing.T) {
			h, ok, err := tree.Neighbor(children[test.child], test.dir)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, children[test.expected], h)
		})
	}
}

func TestQuadtreeRandomOperations(t *testing.T) {
	tree := newTestTree(t)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		leaves := slices.Collect(tree.Leaves())
		leaf := leaves[rng.Intn(len(leaves))]

		n, err := tree.Node(leaf)
		require.NoError(t, err)

		if rng.Intn(3) != 0 || n.IsRoot() {
			_, err := tree.Subdivide(leaf)
			if err != nil {
				require.True(t, errors.IsType(err, ntree.ErrTypeDepthLimitExceeded))
			}
			continue
		}

		removed, err := tree.Prune(n.Parent)
		require.NoError(t, err)
		for _, h := range removed {
			require.False(t, tree.Contains(h))
		}
	}
	require.NoError(t, tree.Validate())

	var area float64
	for leaf := range tree.Leaves() {
		n, err := tree.Node(leaf)
		require.NoError(t, err)
		size := n.Bounds.Max.Sub(n.Bounds.Min)
		area += size.X * size.Y
	}
	require.InDelta(t, 100*100, area, 1e-6)

	for i := 0; i < 200; i++ {
		p := geometry.Vector2{X: rng.Float64() * 100, Y: rng.Float64() * 100}

		h, err := tree.Locate(p)
		require.NoError(t, err)

		n, err := tree.Node(h)
		require.NoError(t, err)
		require.True(t, n.IsLeaf())
		require.True(t, n.Bounds.Contains(p))
	}
}

func TestQuadtreeStaleHandles(t *testing.T) {
	tree := newTestTree(t)
	children, err := tree.Subdivide(tree.Root())
	require.NoError(t, err)
	_, err = tree.Collapse(tree.Root())
	require.NoError(t, err)

	for _, c := range children {
		_, err := tree.Node(c)
		require.True(t, errors.IsType(err, arena.ErrTypeInvalidHandle))
	}
}

func TestQuadtreeQueryNestedRegions(t *testing.T) {
	tree := newTestTree(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 120; i++ {
		leaves := slices.Collect(tree.Leaves())
		if _, err := tree.Subdivide(leaves[rng.Intn(len(leaves))]); err != nil {
			require.True(t, errors.IsType(err, ntree.ErrTypeDepthLimitExceeded))
		}
	}
	require.NoError(t, tree.Validate())

	rect := func(x0, y0, x1, y1 float64) geometry.Rect {
		return geometry.NewRect(geometry.Vector2{X: x0, Y: y0}, geometry.Vector2{X: x1, Y: y1})
	}

	type nested struct {
		name  string
		inner geometry.Rect
		outer geometry.Rect
	}

	tests := []nested{
		{name: "touching the root split", inner: rect(40, 10, 50, 20), outer: rect(30, 0, 60, 30)},
		{name: "on the root split line", inner: rect(50, 10, 50, 20), outer: rect(45, 5, 55, 25)},
		{name: "on a deeper split line", inner: rect(25, 25, 25, 25), outer: rect(20, 20, 30, 30)},
		{name: "whole tree", inner: rect(10, 10, 90, 90), outer: rect(-10, -10, 110, 110)},
	}

	for i := 0; i < 50; i++ {
		x0, y0 := rng.Float64()*120-10, rng.Float64()*120-10
		x1, y1 := x0+rng.Float64()*60, y0+rng.Float64()*60
		ix0, iy0 := x0+rng.Float64()*(x1-x0), y0+rng.Float64()*(y1-y0)
		ix1, iy1 := ix0+rng.Float64()*(x1-ix0), iy0+rng.Float64()*(y1-iy0)

		tests = append(tests, nested{
			name:  "random",
			inner: rect(ix0, iy0, ix1, iy1),
			outer: rect(x0, y0, x1, y1),
		})
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			inner := slices.Collect(tree.Query(test.inner))
			outer := slices.Collect(tree.Query(test.outer))
			require.Subset(t, outer, inner)

			for _, h := range inner {
				n, err := tree.Node(h)
				require.NoError(t, err)
				require.True(t, n.Bounds.Intersects(test.inner))
			}
		})
	}
}
