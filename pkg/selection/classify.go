package selection

import "github.com/matzehuels/radiant/pkg/hierarchy"

// NodeState is the classification of one node.
type NodeState struct {
	Active  bool `json:"active"`
	Sibling bool `json:"sibling"`
	Faded   bool `json:"faded"`
	Pulsing bool `json:"pulsing"`
}

// LinkState is the classification of one link.
type LinkState struct {
	Active  bool `json:"active"`
	Sibling bool `json:"sibling"`
	Visible bool `json:"visible"`
}

// Opacity maps visibility to the opacity handed to the renderer.
func (s LinkState) Opacity() float64 {
	if s.Visible {
		return 1
	}
	return 0
}

// Classification holds the state of every node and link for one selection.
// Links are keyed by [hierarchy.Link.ID].
type Classification struct {
	Selected string               `json:"selected"`
	Nodes    map[string]NodeState `json:"nodes"`
	Links    map[string]LinkState `json:"links"`
}

// Classify derives the classification of every node and link in t for the
// selected node s. A nil s is treated as the root.
func Classify(t *hierarchy.Tree, s *hierarchy.Node) Classification {
	if s == nil {
		s = t.Root
	}
	c := Classification{
		Selected: s.ID,
		Nodes:    make(map[string]NodeState, t.Len()),
		Links:    make(map[string]LinkState, t.Len()-1),
	}
	for _, n := range t.Nodes() {
		c.Nodes[n.ID] = ClassifyNode(n, s)
	}
	for _, l := range t.Links() {
		c.Links[l.ID()] = ClassifyLink(l, s)
	}
	return c
}

// ClassifyNode classifies n relative to the selected node s.
func ClassifyNode(n, s *hierarchy.Node) NodeState {
	return NodeState{
		Active:  n == s || (s.Depth == hierarchy.DepthPrimary && n.IsRoot()),
		Sibling: !n.IsRoot() && n.SharesParent(s),
		Faded:   faded(n, s),
		Pulsing: n == s && s.Depth == hierarchy.DepthSecondary,
	}
}

func faded(n, s *hierarchy.Node) bool {
	if n.Depth != hierarchy.DepthSecondary || n == s {
		return false
	}
	switch s.Depth {
	case hierarchy.DepthPrimary:
		return n.Parent() != s
	case hierarchy.DepthSecondary:
		return n.Parent() != s.Parent()
	default:
		return false
	}
}

// ClassifyLink classifies l relative to the selected node s.
func ClassifyLink(l hierarchy.Link, s *hierarchy.Node) LinkState {
	var st LinkState
	switch s.Depth {
	case hierarchy.DepthRoot:
		st.Active = true
	case hierarchy.DepthPrimary:
		st.Active = l.Target == s || l.Source == s
	case hierarchy.DepthSecondary:
		p := s.Parent()
		st.Active = l.Target == s || (l.Source.IsRoot() && l.Target == p)
	}
	st.Sibling = s.Parent() != nil && l.Source == s.Parent() && l.Target != s

	if !l.Outer() {
		st.Visible = true
		return st
	}
	switch s.Depth {
	case hierarchy.DepthRoot:
		st.Visible = true
	case hierarchy.DepthPrimary:
		st.Visible = l.Source == s
	case hierarchy.DepthSecondary:
		st.Visible = l.Source == s.Parent()
	}
	return st
}

// ActiveNodes returns the ids of active nodes in tree order.
func (c Classification) ActiveNodes(t *hierarchy.Tree) []string {
	var ids []string
	for _, n := range t.Nodes() {
		if c.Nodes[n.ID].Active {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Changed returns the ids of nodes and links whose state differs between
// prev and next, nodes first, in no particular order within each group.
func Changed(prev, next Classification) (nodes, links []string) {
	for id, st := range next.Nodes {
		if prev.Nodes[id] != st {
			nodes = append(nodes, id)
		}
	}
	for id, st := range next.Links {
		if prev.Links[id] != st {
			links = append(links, id)
		}
	}
	return nodes, links
}
