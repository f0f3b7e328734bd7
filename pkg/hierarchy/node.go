package hierarchy

import (
	"errors"
	"slices"
)

// Depth constants for the fixed three-level model.
const (
	DepthRoot      = 0
	DepthPrimary   = 1
	DepthSecondary = 2

	// MaxDepth is the deepest level a tree may contain.
	MaxDepth = DepthSecondary
)

// ErrUnknownNode is returned when a lookup names a node that is not in the tree.
var ErrUnknownNode = errors.New("unknown node")

// Node is a vertex of the radial hierarchy.
//
// Angle and Radius are written by the layout engine. Angle is in [0, 2π) and
// is meaningless for the root, which always sits at the center with Radius 0.
type Node struct {
	ID       string
	Name     string
	Depth    int
	Children []*Node
	Meta     map[string]any

	Angle  float64
	Radius float64

	parent *Node
	index  int
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Index returns the node's position among its siblings.
func (n *Node) Index() int { return n.index }

// IsRoot reports whether n is the central node.
func (n *Node) IsRoot() bool { return n.Depth == DepthRoot }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Label returns the display name, falling back to the id.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// SharesParent reports whether n and m are distinct nodes with the same parent.
func (n *Node) SharesParent(m *Node) bool {
	return n != nil && m != nil && n != m && n.parent != nil && n.parent == m.parent
}

// Link is a parent → child edge. Links are derived from the tree on demand
// and never stored.
type Link struct {
	Source *Node
	Target *Node
}

// ID returns a stable identifier for the link.
func (l Link) ID() string { return l.Source.ID + "->" + l.Target.ID }

// Outer reports whether the link connects the primary and secondary rings.
func (l Link) Outer() bool { return l.Source.Depth == DepthPrimary }

// Tree is a validated three-level hierarchy.
type Tree struct {
	Root *Node

	byID      map[string]*Node
	primary   []*Node
	secondary []*Node
}

// Node returns the node with the given id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.byID) }

// Primary returns the depth-1 nodes in document order.
func (t *Tree) Primary() []*Node { return slices.Clone(t.primary) }

// Secondary returns the depth-2 nodes grouped by parent, parents in the
// order they appear under the root. This is the order the layout engine
// uses to assign angles.
func (t *Tree) Secondary() []*Node { return slices.Clone(t.secondary) }

// Nodes returns every node, root first, then the primary and secondary rings.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, 0, t.Len())
	out = append(out, t.Root)
	out = append(out, t.primary...)
	return append(out, t.secondary...)
}

// Links returns every parent → child edge: root links first, then outer
// links grouped by primary parent.
func (t *Tree) Links() []Link {
	out := make([]Link, 0, t.Len()-1)
	for _, p := range t.primary {
		out = append(out, Link{Source: t.Root, Target: p})
	}
	for _, s := range t.secondary {
		out = append(out, Link{Source: s.parent, Target: s})
	}
	return out
}

// Path returns the chain of nodes from the root to id, inclusive.
func (t *Tree) Path(id string) ([]*Node, error) {
	n, ok := t.byID[id]
	if !ok {
		return nil, ErrUnknownNode
	}
	var path []*Node
	for ; n != nil; n = n.parent {
		path = append(path, n)
	}
	slices.Reverse(path)
	return path, nil
}

// Siblings returns the nodes sharing n's parent, excluding n.
func (t *Tree) Siblings(n *Node) []*Node {
	if n == nil || n.parent == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.parent.Children)-1)
	for _, c := range n.parent.Children {
		if c != n {
			out = append(out, c)
		}
	}
	return out
}
