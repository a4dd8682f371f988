package ntree

import (
	"fmt"

	"github.com/aukilabs/spatialtrees/arena"
	"github.com/xlab/treeprint"
)

// Print renders the tree structure as text, one line per node. A nil label
// prints the node handle, depth and bounds.
func (t *Tree[B, P]) Print(label func(n Node[B]) string) string {
	if label == nil {
		label = defaultLabel[B]
	}

	if t.root.IsNil() {
		return treeprint.NewWithRoot(t.kind + " (torn down)").String()
	}

	root := t.mustGet(t.root)
	tree := treeprint.NewWithRoot(label(*root))
	t.print(tree, root.children, label)
	return tree.String()
}

func (t *Tree[B, P]) print(branch treeprint.Tree, children [MaxChildren]arena.Handle, label func(Node[B]) string) {
	for i := 0; i < t.fanout; i++ {
		if children[i].IsNil() {
			return
		}

		n := *t.mustGet(children[i])
		if n.Status == Leaf {
			branch.AddNode(label(n))
			continue
		}
		t.print(branch.AddBranch(label(n)), n.children, label)
	}
}

func defaultLabel[B any](n Node[B]) string {
	return fmt.Sprintf("%s depth=%d %v", n.Handle, n.Depth, n.Bounds)
}
