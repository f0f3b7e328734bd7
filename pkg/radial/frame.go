package radial

import (
	"github.com/matzehuels/radiant/pkg/geom"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/layout"
	"github.com/matzehuels/radiant/pkg/selection"
	"github.com/matzehuels/radiant/pkg/viewport"
)

// FadedOpacity is the opacity of faded nodes and labels.
const FadedOpacity = 0.25

// Frame is everything a renderer needs to draw one state of the navigator.
// Coordinates are relative to the drawing center.
type Frame struct {
	Dimensions viewport.Dimensions `json:"dimensions"`
	Selected   string              `json:"selected"`
	Previous   string              `json:"previous,omitempty"`
	Nodes      []NodeFrame         `json:"nodes"`
	Links      []LinkFrame         `json:"links"`
}

// NodeFrame is one node as drawn.
type NodeFrame struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Depth    int     `json:"depth"`
	Angle    float64 `json:"angle"`
	Radius   float64 `json:"radius"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	FontSize float64 `json:"font_size"`
	Scale    float64 `json:"scale"`
	Opacity  float64 `json:"opacity"`

	selection.NodeState
	Label layout.Label `json:"label"`
}

// LinkFrame is one link as drawn.
type LinkFrame struct {
	ID      string          `json:"id"`
	Source  string          `json:"source"`
	Target  string          `json:"target"`
	Kind    layout.LinkKind `json:"kind"`
	Path    string          `json:"path"`
	Opacity float64         `json:"opacity"`

	selection.LinkState
}

// Node returns the node with the given id.
func (f Frame) Node(id string) (NodeFrame, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeFrame{}, false
}

// Link returns the link with the given id.
func (f Frame) Link(id string) (LinkFrame, bool) {
	for _, l := range f.Links {
		if l.ID == id {
			return l, true
		}
	}
	return LinkFrame{}, false
}

// Clone returns a deep copy of the node and link slices.
func (f Frame) Clone() Frame {
	out := f
	out.Nodes = append([]NodeFrame(nil), f.Nodes...)
	out.Links = append([]LinkFrame(nil), f.Links...)
	return out
}

// WithScale returns a copy of f with node id drawn at scale.
func (f Frame) WithScale(id string, scale float64) Frame {
	out := f.Clone()
	for i := range out.Nodes {
		if out.Nodes[i].ID == id {
			out.Nodes[i].Scale = scale
		}
	}
	return out
}

// BuildFrame combines a layout result with a classification. Node and link
// order follows the layout result.
func BuildFrame(t *hierarchy.Tree, res *layout.Result, c selection.Classification, previous string) Frame {
	d := res.Dimensions
	f := Frame{
		Dimensions: d,
		Selected:   c.Selected,
		Previous:   previous,
		Nodes:      make([]NodeFrame, 0, len(res.Nodes)),
		Links:      make([]LinkFrame, 0, len(res.Links)),
	}
	for _, p := range res.Nodes {
		n, _ := t.Node(p.ID)
		st := c.Nodes[p.ID]
		opacity := 1.0
		if st.Faded {
			opacity = FadedOpacity
		}
		f.Nodes = append(f.Nodes, NodeFrame{
			ID:        p.ID,
			Name:      n.Label(),
			Depth:     p.Depth,
			Angle:     p.Angle,
			Radius:    p.Radius,
			X:         p.Point.X,
			Y:         p.Point.Y,
			Size:      d.NodeSize(p.Depth),
			FontSize:  d.FontSize(p.Depth),
			Scale:     1,
			Opacity:   opacity,
			NodeState: st,
			Label:     p.Label,
		})
	}
	for _, p := range res.Links {
		id := p.Source + "->" + p.Target
		st := c.Links[id]
		f.Links = append(f.Links, LinkFrame{
			ID:        id,
			Source:    p.Source,
			Target:    p.Target,
			Kind:      p.Kind,
			Path:      p.D,
			Opacity:   st.Opacity(),
			LinkState: st,
		})
	}
	return f
}

// Interpolate blends from toward to at progress t in [0, 1]. Positions
// move along the shorter arc, sizes and opacities blend linearly, and
// classification flags switch to the target state immediately. Nodes and
// links missing from from appear at their target values.
func Interpolate(from, to Frame, t float64) Frame {
	if t >= 1 {
		return to.Clone()
	}
	out := to.Clone()

	prevNodes := make(map[string]NodeFrame, len(from.Nodes))
	for _, n := range from.Nodes {
		prevNodes[n.ID] = n
	}
	for i, n := range out.Nodes {
		p, ok := prevNodes[n.ID]
		if !ok {
			continue
		}
		n.Angle = geom.LerpAngle(p.Angle, n.Angle, t)
		n.Radius = geom.Lerp(p.Radius, n.Radius, t)
		pt := geom.ProjectPoint(n.Angle, n.Radius)
		if n.Depth == hierarchy.DepthRoot {
			pt = geom.Point{}
		}
		n.X, n.Y = pt.X, pt.Y
		n.Size = geom.Lerp(p.Size, n.Size, t)
		n.Scale = geom.Lerp(p.Scale, n.Scale, t)
		n.Opacity = geom.Lerp(p.Opacity, n.Opacity, t)
		out.Nodes[i] = n
	}

	prevLinks := make(map[string]LinkFrame, len(from.Links))
	for _, l := range from.Links {
		prevLinks[l.ID] = l
	}
	for i, l := range out.Links {
		if p, ok := prevLinks[l.ID]; ok {
			out.Links[i].Opacity = geom.Lerp(p.Opacity, l.Opacity, t)
		}
	}
	return out
}
