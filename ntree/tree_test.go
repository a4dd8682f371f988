package ntree

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialtrees/arena"
	"github.com/aukilabs/spatialtrees/geometry"
	"github.com/stretchr/testify/require"
)

type quadTree = Tree[geometry.Rect, geometry.Vector2]

func newQuadTree(t *testing.T, maxDepth int) *quadTree {
	tree, err := New[geometry.Rect, geometry.Vector2](
		"test_quadtree",
		geometry.NewRect(geometry.Vector2{X: 0, Y: 0}, geometry.Vector2{X: 100, Y: 100}),
		maxDepth,
	)
	require.NoError(t, err)
	return tree
}

func subdivideUniform(t *testing.T, tree *quadTree, depth int) {
	for d := 0; d < depth; d++ {
		for _, leaf := range slices.Collect(tree.Leaves()) {
			_, err := tree.Subdivide(leaf)
			require.NoError(t, err)
		}
	}
}

func locate(t *testing.T, tree *quadTree, x, y float64) arena.Handle {
	h, err := tree.Locate(geometry.Vector2{X: x, Y: y})
	require.NoError(t, err)
	return h
}

func TestNew(t *testing.T) {
	t.Run("single leaf root", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		require.Equal(t, 1, tree.Len())
		require.Equal(t, 4, tree.Fanout())
		require.Equal(t, 4, tree.MaxDepth())

		root, err := tree.Node(tree.Root())
		require.NoError(t, err)
		require.True(t, root.IsLeaf())
		require.True(t, root.IsRoot())
		require.Equal(t, 0, root.Depth)
		require.Equal(t, tree.Bounds(), root.Bounds)
		require.NoError(t, tree.Validate())
	})

	t.Run("degenerate bounds", func(t *testing.T) {
		_, err := New[geometry.Rect, geometry.Vector2](
			"test_quadtree",
			geometry.NewRect(geometry.Vector2{X: 0, Y: 0}, geometry.Vector2{X: 0, Y: 10}),
			4,
		)
		require.Error(t, err)
		require.True(t, errors.IsType(err, ErrTypeInvalidConfig))
	})

	t.Run("negative max depth", func(t *testing.T) {
		_, err := New[geometry.Rect, geometry.Vector2](
			"test_quadtree",
			geometry.Square(geometry.Vector2{}, 10),
			-1,
		)
		require.True(t, errors.IsType(err, ErrTypeInvalidConfig))
	})
}

func TestSubdivide(t *testing.T) {
	t.Run("children cover the parent quadrants", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		root := tree.Root()

		children, err := tree.Subdivide(root)
		require.NoError(t, err)
		require.Len(t, children, 4)
		require.Equal(t, 5, tree.Len())

		rootNode, err := tree.Node(root)
		require.NoError(t, err)
		require.Equal(t, Internal, rootNode.Status)
		require.Equal(t, children, rootNode.Children())

		for i, c := range children {
			n, err := tree.Node(c)
			require.NoError(t, err)
			require.Equal(t, c, n.Handle)
			require.Equal(t, root, n.Parent)
			require.Equal(t, 1, n.Depth)
			require.Equal(t, i, n.Position())
			require.Equal(t, tree.Bounds().Split(i), n.Bounds)
			require.True(t, n.IsLeaf())
		}
		require.NoError(t, tree.Validate())
	})

	t.Run("nested subdivision", func(t *testing.T) {
		tree := newQuadTree(t, 4)

		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)

		grandChildren, err := tree.Subdivide(children[0])
		require.NoError(t, err)

		n, err := tree.Node(grandChildren[0])
		require.NoError(t, err)
		require.Equal(t, geometry.NewRect(geometry.Vector2{X: 0, Y: 0}, geometry.Vector2{X: 25, Y: 25}), n.Bounds)
		require.Equal(t, 2, n.Depth)
	})

	t.Run("internal node", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		_, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)

		_, err = tree.Subdivide(tree.Root())
		require.True(t, errors.IsType(err, ErrTypeAlreadyInternal))
		require.Equal(t, 5, tree.Len())
	})

	t.Run("max depth", func(t *testing.T) {
		tree := newQuadTree(t, 1)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)

		_, err = tree.Subdivide(children[2])
		require.True(t, errors.IsType(err, ErrTypeDepthLimitExceeded))
		require.Equal(t, 5, tree.Len())
	})

	t.Run("zero max depth", func(t *testing.T) {
		tree := newQuadTree(t, 0)
		_, err := tree.Subdivide(tree.Root())
		require.True(t, errors.IsType(err, ErrTypeDepthLimitExceeded))
	})

	t.Run("stale handle", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)
		_, err = tree.Collapse(tree.Root())
		require.NoError(t, err)

		_, err = tree.Subdivide(children[1])
		require.True(t, errors.IsType(err, arena.ErrTypeInvalidHandle))
	})
}

func TestCollapse(t *testing.T) {
	t.Run("leaf children", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)

		removed, err := tree.Collapse(tree.Root())
		require.NoError(t, err)
		require.Equal(t, children, removed)
		require.Equal(t, 1, tree.Len())

		for _, c := range children {
			require.False(t, tree.Contains(c))
		}

		root, err := tree.Node(tree.Root())
		require.NoError(t, err)
		require.True(t, root.IsLeaf())
		require.NoError(t, tree.Validate())
	})

	t.Run("internal child leaves the tree unchanged", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)
		_, err = tree.Subdivide(children[3])
		require.NoError(t, err)

		before := tree.Print(nil)

		_, err = tree.Collapse(tree.Root())
		require.True(t, errors.IsType(err, ErrTypeNotAllChildrenLeaf))
		require.Equal(t, 9, tree.Len())
		require.Equal(t, before, tree.Print(nil))
		require.NoError(t, tree.Validate())
	})

	t.Run("leaf", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		_, err := tree.Collapse(tree.Root())
		require.True(t, errors.IsType(err, ErrTypeAlreadyLeaf))
	})

	t.Run("freed handles do not come back", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)
		_, err = tree.Collapse(tree.Root())
		require.NoError(t, err)

		again, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)
		for i := range again {
			require.Equal(t, children[3-i].Index(), again[i].Index())
			require.NotEqual(t, children[3-i], again[i])
		}
	})
}

func TestPrune(t *testing.T) {
	tree := newQuadTree(t, 4)
	children, err := tree.Subdivide(tree.Root())
	require.NoError(t, err)
	grandChildren, err := tree.Subdivide(children[1])
	require.NoError(t, err)

	removed, err := tree.Prune(tree.Root())
	require.NoError(t, err)
	require.Equal(t, []arena.Handle{
		children[0],
		children[1],
		grandChildren[0],
		grandChildren[1],
		grandChildren[2],
		grandChildren[3],
		children[2],
		children[3],
	}, removed)
	require.Equal(t, 1, tree.Len())
	require.NoError(t, tree.Validate())

	_, err = tree.Prune(tree.Root())
	require.True(t, errors.IsType(err, ErrTypeAlreadyLeaf))
}

func TestLocate(t *testing.T) {
	t.Run("root before subdividing", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		require.Equal(t, tree.Root(), locate(t, tree, 10, 10))
	})

	t.Run("deepest node after subdividing", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)
		grandChildren, err := tree.Subdivide(children[0])
		require.NoError(t, err)

		require.Equal(t, grandChildren[0], locate(t, tree, 10, 10))
		require.Equal(t, children[3], locate(t, tree, 90, 90))
	})

	t.Run("boundaries", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)

		require.Equal(t, children[0], locate(t, tree, 50, 50))
		require.Equal(t, children[0], locate(t, tree, 0, 0))
		require.Equal(t, children[3], locate(t, tree, 100, 100))
		require.Equal(t, children[1], locate(t, tree, 100, 0))
	})

	t.Run("outside of the bounds", func(t *testing.T) {
		tree := newQuadTree(t, 4)

		_, err := tree.Locate(geometry.Vector2{X: 101, Y: 10})
		require.True(t, errors.IsType(err, ErrTypeOutOfBounds))

		_, err = tree.Locate(geometry.Vector2{X: math.NaN(), Y: 10})
		require.True(t, errors.IsType(err, ErrTypeOutOfBounds))
	})

	t.Run("limited depth", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		subdivideUniform(t, tree, 3)

		h, err := tree.LocateDepth(geometry.Vector2{X: 10, Y: 10}, 1)
		require.NoError(t, err)

		n, err := tree.Node(h)
		require.NoError(t, err)
		require.Equal(t, 1, n.Depth)
		require.Equal(t, tree.Bounds().Split(0), n.Bounds)

		h, err = tree.LocateDepth(geometry.Vector2{X: 10, Y: 10}, 10)
		require.NoError(t, err)
		require.Equal(t, locate(t, tree, 10, 10), h)
	})
}

func TestQuery(t *testing.T) {
	tree := newQuadTree(t, 4)
	subdivideUniform(t, tree, 2)
	require.Equal(t, 21, tree.Len())
	require.Len(t, slices.Collect(tree.Leaves()), 16)

	t.Run("region inside one leaf", func(t *testing.T) {
		region := geometry.NewRect(geometry.Vector2{X: 5, Y: 5}, geometry.Vector2{X: 10, Y: 10})
		require.Equal(t, []arena.Handle{locate(t, tree, 5, 5)}, slices.Collect(tree.Query(region)))
	})

	t.Run("region spanning leaves", func(t *testing.T) {
		region := geometry.NewRect(geometry.Vector2{X: 20, Y: 20}, geometry.Vector2{X: 30, Y: 30})
		leaves := slices.Collect(tree.Query(region))
		require.ElementsMatch(t, []arena.Handle{
			locate(t, tree, 10, 10),
			locate(t, tree, 30, 10),
			locate(t, tree, 10, 30),
			locate(t, tree, 30, 30),
		}, leaves)
	})

	t.Run("region outside of the tree", func(t *testing.T) {
		region := geometry.NewRect(geometry.Vector2{X: 200, Y: 200}, geometry.Vector2{X: 300, Y: 300})
		require.Empty(t, slices.Collect(tree.Query(region)))
	})

	t.Run("early stop", func(t *testing.T) {
		count := 0
		for range tree.Leaves() {
			count++
			if count == 3 {
				break
			}
		}
		require.Equal(t, 3, count)
	})

	t.Run("only leaves are yielded", func(t *testing.T) {
		for h := range tree.Query(tree.Bounds()) {
			n, err := tree.Node(h)
			require.NoError(t, err)
			require.True(t, n.IsLeaf())
		}
	})
}

func TestNeighbor(t *testing.T) {
	t.Run("same depth", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		subdivideUniform(t, tree, 2)
		h := locate(t, tree, 30, 10)

		neighbor, ok, err := tree.Neighbor(h, PosX)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, locate(t, tree, 60, 10), neighbor)

		neighbor, ok, err = tree.Neighbor(h, NegX)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, locate(t, tree, 10, 10), neighbor)

		neighbor, ok, err = tree.Neighbor(h, PosY)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, locate(t, tree, 30, 30), neighbor)

		_, ok, err = tree.Neighbor(h, NegY)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("neighbors share a side", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		subdivideUniform(t, tree, 3)

		for leaf := range tree.Leaves() {
			n, err := tree.Node(leaf)
			require.NoError(t, err)

			for dir := NegX; dir <= PosY; dir++ {
				neighbor, ok, err := tree.Neighbor(leaf, dir)
				require.NoError(t, err)
				if !ok {
					continue
				}

				nn, err := tree.Node(neighbor)
				require.NoError(t, err)
				require.Equal(t, n.Depth, nn.Depth)

				axis := dir.Axis()
				if dir.Positive() {
					require.Equal(t, n.Bounds.Max.Component(axis), nn.Bounds.Min.Component(axis))
				} else {
					require.Equal(t, n.Bounds.Min.Component(axis), nn.Bounds.Max.Component(axis))
				}

				back, ok, err := tree.Neighbor(neighbor, dir.Opposite())
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, leaf, back)
			}
		}
	})

	t.Run("larger leaf", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)
		grandChildren, err := tree.Subdivide(children[0])
		require.NoError(t, err)

		neighbor, ok, err := tree.Neighbor(grandChildren[1], PosX)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, children[1], neighbor)

		leaves, err := tree.Neighbors(children[1], NegX)
		require.NoError(t, err)
		require.Equal(t, []arena.Handle{grandChildren[1], grandChildren[3]}, leaves)
	})

	t.Run("root has no neighbor", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		_, ok, err := tree.Neighbor(tree.Root(), PosX)
		require.NoError(t, err)
		require.False(t, ok)

		leaves, err := tree.Neighbors(tree.Root(), PosX)
		require.NoError(t, err)
		require.Empty(t, leaves)
	})

	t.Run("invalid direction", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		_, _, err := tree.Neighbor(tree.Root(), PosZ)
		require.True(t, errors.IsType(err, ErrTypeInvalidDirection))

		_, err = tree.BorderingLeaves(tree.Root(), Direction(42))
		require.True(t, errors.IsType(err, ErrTypeInvalidDirection))
	})

	t.Run("octree", func(t *testing.T) {
		tree, err := New[geometry.Box, geometry.Vector3]("test_octree", geometry.Cube(geometry.Vector3{}, 100), 3)
		require.NoError(t, err)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)

		neighbor, ok, err := tree.Neighbor(children[0], PosZ)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, children[4], neighbor)

		_, ok, err = tree.Neighbor(children[4], PosZ)
		require.NoError(t, err)
		require.False(t, ok)

		leaves, err := tree.BorderingLeaves(tree.Root(), NegY)
		require.NoError(t, err)
		require.Equal(t, []arena.Handle{children[0], children[1], children[4], children[5]}, leaves)
	})
}

func TestNeighborAt(t *testing.T) {
	t.Run("diagonal", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		subdivideUniform(t, tree, 2)

		tests := []struct {
			name     string
			from     [2]float64
			off      Offset
			expected [2]float64
			ok       bool
		}{
			{name: "within the parent", from: [2]float64{10, 10}, off: Offset{1, 1, 0}, expected: [2]float64{30, 30}, ok: true},
			{name: "across both parent sides", from: [2]float64{30, 30}, off: Offset{1, 1, 0}, expected: [2]float64{60, 60}, ok: true},
			{name: "across one parent side", from: [2]float64{30, 10}, off: Offset{1, 1, 0}, expected: [2]float64{60, 30}, ok: true},
			{name: "up left", from: [2]float64{60, 60}, off: Offset{-1, 1, 0}, expected: [2]float64{30, 80}, ok: true},
			{name: "leaves the root", from: [2]float64{30, 10}, off: Offset{1, -1, 0}},
			{name: "corner of the root", from: [2]float64{90, 90}, off: Offset{1, 1, 0}},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				h := locate(t, tree, test.from[0], test.from[1])
				neighbor, ok, err := tree.NeighborAt(h, test.off)
				require.NoError(t, err)
				require.Equal(t, test.ok, ok)
				if test.ok {
					require.Equal(t, locate(t, tree, test.expected[0], test.expected[1]), neighbor)
				}
			})
		}
	})

	t.Run("every offset of a uniform tree", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		subdivideUniform(t, tree, 3)

		for leaf := range tree.Leaves() {
			n, err := tree.Node(leaf)
			require.NoError(t, err)
			size := n.Bounds.Size()

			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					if dx == 0 && dy == 0 {
						continue
					}

					expected := n.Bounds.Center().Add(geometry.Vector2{X: float64(dx) * size, Y: float64(dy) * size})
					neighbor, ok, err := tree.NeighborAt(leaf, Offset{dx, dy, 0})
					require.NoError(t, err)
					require.Equal(t, tree.Bounds().Contains(expected), ok)
					if !ok {
						continue
					}

					nn, err := tree.Node(neighbor)
					require.NoError(t, err)
					require.Equal(t, n.Depth, nn.Depth)
					require.True(t, nn.Bounds.Center().EqualWithEpsilon(expected, 1e-9))
				}
			}
		}
	})

	t.Run("larger leaf", func(t *testing.T) {
		tree := newQuadTree(t, 4)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)
		grandChildren, err := tree.Subdivide(children[0])
		require.NoError(t, err)

		neighbor, ok, err := tree.NeighborAt(grandChildren[3], Offset{1, 1, 0})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, children[3], neighbor)

		leaves, err := tree.NeighborsAt(children[3], Offset{-1, -1, 0})
		require.NoError(t, err)
		require.Equal(t, []arena.Handle{grandChildren[3]}, leaves)

		leaves, err = tree.NeighborsAt(children[1], Offset{-1, 0, 0})
		require.NoError(t, err)
		require.Equal(t, []arena.Handle{grandChildren[1], grandChildren[3]}, leaves)
	})

	t.Run("octree corner", func(t *testing.T) {
		tree, err := New[geometry.Box, geometry.Vector3]("test_octree", geometry.Cube(geometry.Vector3{}, 100), 3)
		require.NoError(t, err)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)

		neighbor, ok, err := tree.NeighborAt(children[0], Offset{1, 1, 1})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, children[7], neighbor)

		neighbor, ok, err = tree.NeighborAt(children[1], Offset{-1, 0, 1})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, children[4], neighbor)

		_, ok, err = tree.NeighborAt(children[7], Offset{1, 1, 1})
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("invalid offsets", func(t *testing.T) {
		tree := newQuadTree(t, 4)

		for _, off := range []Offset{{}, {0, 0, 1}, {2, 0, 0}, {0, -3, 0}} {
			_, _, err := tree.NeighborAt(tree.Root(), off)
			require.True(t, errors.IsType(err, ErrTypeInvalidDirection), off.String())

			_, err = tree.NeighborsAt(tree.Root(), off)
			require.True(t, errors.IsType(err, ErrTypeInvalidDirection), off.String())
		}
	})
}

func TestNeighborDepths(t *testing.T) {
	tree := newQuadTree(t, 4)
	children, err := tree.Subdivide(tree.Root())
	require.NoError(t, err)
	grandChildren, err := tree.Subdivide(children[0])
	require.NoError(t, err)

	t.Run("coarser neighbor", func(t *testing.T) {
		depths, err := tree.NeighborDepths(grandChildren[1])
		require.NoError(t, err)
		require.Equal(t, []int{0, 1, NoNeighbor, 0}, depths)
	})

	t.Run("same depth everywhere", func(t *testing.T) {
		depths, err := tree.NeighborDepths(children[3])
		require.NoError(t, err)
		require.Equal(t, []int{0, NoNeighbor, 0, NoNeighbor}, depths)
	})

	t.Run("root", func(t *testing.T) {
		depths, err := tree.NeighborDepths(tree.Root())
		require.NoError(t, err)
		require.Equal(t, []int{NoNeighbor, NoNeighbor, NoNeighbor, NoNeighbor}, depths)
	})

	t.Run("octree reports six sides", func(t *testing.T) {
		octree, err := New[geometry.Box, geometry.Vector3]("test_octree", geometry.Cube(geometry.Vector3{}, 100), 3)
		require.NoError(t, err)
		children, err := octree.Subdivide(octree.Root())
		require.NoError(t, err)

		depths, err := octree.NeighborDepths(children[0])
		require.NoError(t, err)
		require.Equal(t, []int{NoNeighbor, 0, NoNeighbor, 0, NoNeighbor, 0}, depths)
	})

	t.Run("stale handle", func(t *testing.T) {
		removed, err := tree.Collapse(children[0])
		require.NoError(t, err)

		_, err = tree.NeighborDepths(removed[0])
		require.True(t, errors.IsType(err, arena.ErrTypeInvalidHandle))
	})
}

func TestRefine(t *testing.T) {
	tree := newQuadTree(t, 3)

	viewer := geometry.Vector2{X: 10, Y: 10}
	split := func(n Node[geometry.Rect]) bool {
		return n.Bounds.Contains(viewer)
	}

	events := tree.Refine(split)
	require.Len(t, events, 3)
	require.Equal(t, Grown, events[0].Kind)
	require.Equal(t, tree.Root(), events[0].Node)
	require.Len(t, events[0].Created, 4)
	require.Equal(t, events[0].Created[0], events[1].Node)
	require.Equal(t, events[1].Created[0], events[2].Node)
	require.Equal(t, 13, tree.Len())
	require.NoError(t, tree.Validate())

	require.Empty(t, tree.Refine(split))

	viewer = geometry.Vector2{X: 90, Y: 90}
	events = tree.Refine(split)
	require.Len(t, events, 3)
	require.Equal(t, Shrunk, events[0].Kind)
	require.Len(t, events[0].Removed, 8)
	require.Equal(t, Grown, events[1].Kind)
	require.Equal(t, Grown, events[2].Kind)
	require.Equal(t, 13, tree.Len())
	require.NoError(t, tree.Validate())

	for _, h := range events[0].Removed {
		require.False(t, tree.Contains(h))
	}

	deepest, err := tree.Node(locate(t, tree, 90, 90))
	require.NoError(t, err)
	require.Equal(t, 3, deepest.Depth)
}

func TestTeardown(t *testing.T) {
	tree := newQuadTree(t, 3)
	subdivideUniform(t, tree, 2)
	root := tree.Root()

	removed := tree.Teardown()
	require.Len(t, removed, 21)
	require.Equal(t, root, removed[0])
	require.Equal(t, 0, tree.Len())
	require.True(t, tree.Root().IsNil())
	require.NoError(t, tree.Validate())
	require.Empty(t, slices.Collect(tree.Leaves()))
	require.Nil(t, tree.Teardown())

	_, err := tree.Locate(geometry.Vector2{X: 10, Y: 10})
	require.True(t, errors.IsType(err, arena.ErrTypeInvalidHandle))
	require.Empty(t, tree.Refine(func(Node[geometry.Rect]) bool { return true }))
}

func TestValidateDetectsCorruption(t *testing.T) {
	t.Run("depth", func(t *testing.T) {
		tree := newQuadTree(t, 3)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)

		tree.mustGet(children[2]).Depth = 3
		require.True(t, errors.IsType(tree.Validate(), ErrTypeInvariantViolation))
	})

	t.Run("leaf with children", func(t *testing.T) {
		tree := newQuadTree(t, 3)
		children, err := tree.Subdivide(tree.Root())
		require.NoError(t, err)

		tree.mustGet(children[0]).children[0] = children[1]
		require.True(t, errors.IsType(tree.Validate(), ErrTypeInvariantViolation))
	})

	t.Run("unreachable node", func(t *testing.T) {
		tree := newQuadTree(t, 3)
		tree.nodes.Allocate(Node[geometry.Rect]{fanout: 4})
		require.True(t, errors.IsType(tree.Validate(), ErrTypeInvariantViolation))
	})
}

func TestPrint(t *testing.T) {
	tree := newQuadTree(t, 3)
	children, err := tree.Subdivide(tree.Root())
	require.NoError(t, err)
	_, err = tree.Subdivide(children[0])
	require.NoError(t, err)

	out := tree.Print(nil)
	require.Equal(t, 9, strings.Count(out, "depth="))
	require.Contains(t, out, "depth=0")
	require.Contains(t, out, "depth=2")

	out = tree.Print(func(n Node[geometry.Rect]) string {
		return n.Status.String()
	})
	require.Equal(t, 2, strings.Count(out, "internal"))
	require.Equal(t, 7, strings.Count(out, "leaf"))

	tree.Teardown()
	require.Contains(t, tree.Print(nil), "torn down")
}

func TestDirection(t *testing.T) {
	require.Equal(t, 0, PosX.Axis())
	require.Equal(t, 2, NegZ.Axis())
	require.True(t, PosY.Positive())
	require.False(t, NegY.Positive())
	require.Equal(t, NegY, PosY.Opposite())
	require.Equal(t, PosZ, NegZ.Opposite())
	require.Equal(t, "+x", PosX.String())
}
