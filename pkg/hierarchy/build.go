package hierarchy

import (
	"fmt"
	"maps"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
)

// Build validates doc and converts it into a Tree.
//
// The document root becomes the depth-0 node, its children the primary ring
// and their children the secondary ring. Ids must be non-empty and unique
// across the whole document; nesting below depth 2 is rejected with an
// INVALID_HIERARCHY error.
func Build(doc Document) (*Tree, error) {
	t := &Tree{byID: make(map[string]*Node)}

	root, err := t.add(doc, nil, DepthRoot, 0)
	if err != nil {
		return nil, err
	}
	t.Root = root

	for _, p := range root.Children {
		t.primary = append(t.primary, p)
		t.secondary = append(t.secondary, p.Children...)
	}
	return t, nil
}

func (t *Tree) add(doc Document, parent *Node, depth, index int) (*Node, error) {
	if depth > MaxDepth {
		return nil, rerrors.New(rerrors.ErrCodeInvalidHierarchy,
			"node %q is nested deeper than %d levels", doc.ID, MaxDepth)
	}
	if err := rerrors.ValidateNodeID(doc.ID); err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidHierarchy, err, "invalid node at depth %d", depth)
	}
	if _, dup := t.byID[doc.ID]; dup {
		return nil, rerrors.New(rerrors.ErrCodeInvalidHierarchy, "duplicate node id %q", doc.ID)
	}

	n := &Node{
		ID:     doc.ID,
		Name:   doc.Name,
		Depth:  depth,
		Meta:   maps.Clone(doc.Meta),
		parent: parent,
		index:  index,
	}
	t.byID[n.ID] = n

	if len(doc.Children) > 0 {
		n.Children = make([]*Node, 0, len(doc.Children))
	}
	for i, cd := range doc.Children {
		c, err := t.add(cd, n, depth+1, i)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// Document converts the tree back to its wire form.
func (t *Tree) Document() Document {
	return toDocument(t.Root)
}

func toDocument(n *Node) Document {
	d := Document{ID: n.ID, Name: n.Name, Meta: maps.Clone(n.Meta)}
	for _, c := range n.Children {
		d.Children = append(d.Children, toDocument(c))
	}
	return d
}

// MustBuild is like Build but panics on error. It is intended for tests and
// examples with literal documents.
func MustBuild(doc Document) *Tree {
	t, err := Build(doc)
	if err != nil {
		panic(fmt.Sprintf("hierarchy: %v", err))
	}
	return t
}
