package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/radiant/pkg/geom"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/viewport"
)

// DefaultCurveFactor leaves the control point on the straight midpoint.
const DefaultCurveFactor = 1.0

// Options configures [Compute].
type Options struct {
	// CurveFactor scales the midpoint used as the control point of outer
	// links. Values below 1 bend links toward the center.
	CurveFactor float64

	// LabelWidth is the wrap width for root and primary labels as a
	// fraction of the inner radius. Zero uses 0.8.
	LabelWidth float64
}

// WithDefaults fills zero fields.
func (o Options) WithDefaults() Options {
	if o.CurveFactor == 0 {
		o.CurveFactor = DefaultCurveFactor
	}
	if o.LabelWidth == 0 {
		o.LabelWidth = 0.8
	}
	return o
}

// LinkKind distinguishes straight root links from curved outer links.
type LinkKind string

const (
	Straight LinkKind = "straight"
	Curve    LinkKind = "curve"
)

// Position is the computed placement of one node.
type Position struct {
	ID     string     `json:"id"`
	Depth  int        `json:"depth"`
	Angle  float64    `json:"angle"`
	Radius float64    `json:"radius"`
	Point  geom.Point `json:"point"`
	Label  Label      `json:"label"`
}

// Label is where and how a node's name is drawn.
type Label struct {
	Point geom.Point `json:"point"`
	// Rotate is the text rotation in degrees. Secondary labels run along
	// their ray and are flipped on the left half so they stay readable.
	Rotate float64  `json:"rotate"`
	Anchor string   `json:"anchor"`
	Lines  []string `json:"lines"`
}

// Path is the computed shape of one link.
type Path struct {
	Source  string     `json:"source"`
	Target  string     `json:"target"`
	Kind    LinkKind   `json:"kind"`
	From    geom.Point `json:"from"`
	To      geom.Point `json:"to"`
	Control geom.Point `json:"control"`
	D       string     `json:"d"`
}

// At samples the link at t in [0, 1].
func (p Path) At(t float64) geom.Point {
	if p.Kind == Straight {
		return geom.LerpPoint(p.From, p.To, t)
	}
	return geom.Quadratic(p.From, p.Control, p.To, t)
}

// Result holds everything one layout pass produced.
type Result struct {
	Dimensions viewport.Dimensions `json:"dimensions"`
	Nodes      []Position          `json:"nodes"`
	Links      []Path              `json:"links"`

	index map[string]int
}

// Node returns the position of the node with the given id.
func (r *Result) Node(id string) (Position, bool) {
	i, ok := r.index[id]
	if !ok {
		return Position{}, false
	}
	return r.Nodes[i], true
}

// Compute lays out t for the dimensions d. It writes Angle and Radius on
// every node of t and returns the positions and link paths in tree order
// (see [hierarchy.Tree.Nodes] and [hierarchy.Tree.Links]).
func Compute(t *hierarchy.Tree, d viewport.Dimensions, opts Options) *Result {
	opts = opts.WithDefaults()

	assignAngles(t)
	for _, n := range t.Nodes() {
		n.Radius = d.RadiusFor(n.Depth)
	}

	res := &Result{
		Dimensions: d,
		Nodes:      make([]Position, 0, t.Len()),
		index:      make(map[string]int, t.Len()),
	}
	for _, n := range t.Nodes() {
		res.index[n.ID] = len(res.Nodes)
		res.Nodes = append(res.Nodes, Position{
			ID:     n.ID,
			Depth:  n.Depth,
			Angle:  n.Angle,
			Radius: n.Radius,
			Point:  geom.ProjectPoint(n.Angle, n.Radius),
			Label:  placeLabel(n, d, opts),
		})
	}
	for _, l := range t.Links() {
		res.Links = append(res.Links, LinkPath(l, opts.CurveFactor))
	}
	return res
}

func assignAngles(t *hierarchy.Tree) {
	t.Root.Angle = 0

	secondary := t.Secondary()
	angles := geom.UniformAngles(len(secondary))
	for i, n := range secondary {
		n.Angle = angles[i]
	}

	primary := t.Primary()
	slots := geom.UniformAngles(len(primary))
	for i, p := range primary {
		if p.IsLeaf() {
			p.Angle = slots[i]
			continue
		}
		childAngles := make([]float64, len(p.Children))
		for j, c := range p.Children {
			childAngles[j] = c.Angle
		}
		p.Angle = geom.AverageAngle(childAngles)
	}
}

// LinkPath computes the path for a single link from the node coordinates
// already stored on the tree.
func LinkPath(l hierarchy.Link, curveFactor float64) Path {
	from := geom.ProjectPoint(l.Source.Angle, l.Source.Radius)
	to := geom.ProjectPoint(l.Target.Angle, l.Target.Radius)
	p := Path{Source: l.Source.ID, Target: l.Target.ID, From: from, To: to}

	if l.Source.IsRoot() {
		p.Kind = Straight
		p.Control = geom.Midpoint(from, to)
		p.D = "M" + pt(from) + " L" + pt(to)
		return p
	}
	p.Kind = Curve
	p.Control = geom.CurveControl(from, to, curveFactor)
	p.D = "M" + pt(from) + " Q" + pt(p.Control) + " " + pt(to)
	return p
}

func placeLabel(n *hierarchy.Node, d viewport.Dimensions, opts Options) Label {
	name := n.Label()
	switch n.Depth {
	case hierarchy.DepthRoot:
		return Label{
			Anchor: "middle",
			Lines:  geom.WrapText(name, d.CentralFontSize, 2*d.CentralNodeSize),
		}
	case hierarchy.DepthPrimary:
		at := geom.ProjectPoint(n.Angle, n.Radius+d.PrimaryNodeSize+d.Spacing)
		return Label{
			Point:  at,
			Anchor: "middle",
			Lines:  geom.WrapText(name, d.PrimaryFontSize, d.InnerRadius*opts.LabelWidth),
		}
	default:
		at := geom.ProjectPoint(n.Angle, n.Radius+d.SecondaryNodeSize+d.Spacing)
		rotate, anchor := radialText(n.Angle)
		return Label{Point: at, Rotate: rotate, Anchor: anchor, Lines: []string{name}}
	}
}

// radialText returns the rotation and text anchor for a label running
// outward along the ray at angle.
func radialText(angle float64) (float64, string) {
	deg := angle*180/math.Pi - 90
	if angle > math.Pi {
		return deg + 180, "end"
	}
	return deg, "start"
}

func pt(p geom.Point) string {
	var b strings.Builder
	b.WriteString(num(p.X))
	b.WriteByte(' ')
	b.WriteString(num(p.Y))
	return b.String()
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
