// Package svg draws navigator frames as standalone SVG documents.
//
// Every node and link carries its classification as CSS classes
// (active, sibling, faded, pulsing, hidden) and its id as a data-id
// attribute, so a host page can restyle or script the drawing.
package svg

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/matzehuels/radiant/pkg/config"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/radial"
)

const interactionCSS = `
    .node, .link, .label { transition: opacity 0.3s ease; }
    .node { cursor: pointer; }
    .node.active { stroke-width: 3; }
    .node.pulsing { animation: pulse 1.5s ease-in-out infinite; transform-box: fill-box; transform-origin: center; }
    @keyframes pulse { 50% { transform: scale(1.3); } }`

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	colors      config.Colors
	interactive bool
}

// WithColors sets the palette. The default is config.Default().Colors.
func WithColors(c config.Colors) Option { return func(r *renderer) { r.colors = c } }

// WithInteraction adds CSS transitions and the pulse animation.
func WithInteraction() Option { return func(r *renderer) { r.interactive = true } }

// Render draws f. The drawing is centered in a Width×Height view box taken
// from the frame's dimensions.
func Render(f radial.Frame, opts ...Option) []byte {
	r := renderer{colors: config.Default().Colors}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := f.Dimensions.Width, f.Dimensions.Height
	c := f.Dimensions.Center()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.colors.Background)
	fmt.Fprintf(&buf, `  <g transform="translate(%.2f %.2f)">`+"\n", c.X, c.Y)

	for _, l := range f.Links {
		r.link(&buf, l)
	}
	for _, n := range f.Nodes {
		r.node(&buf, n)
	}
	for _, n := range f.Nodes {
		r.label(&buf, n)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r renderer) link(buf *bytes.Buffer, l radial.LinkFrame) {
	stroke := r.colors.Link
	if l.Active {
		stroke = r.colors.Active
	}
	fmt.Fprintf(buf, `    <path class="%s" data-id="%s" d="%s" fill="none" stroke="%s" stroke-width="1.5" opacity="%.2f"/>`+"\n",
		classes("link", l.Active, l.Sibling, false, false, !l.Visible), html.EscapeString(l.ID), l.Path, stroke, l.Opacity)
}

func (r renderer) node(buf *bytes.Buffer, n radial.NodeFrame) {
	fill := r.fill(n)
	stroke := fill
	if n.Active {
		stroke = r.colors.Active
	}
	radius := n.Size * n.Scale
	fmt.Fprintf(buf, `    <circle class="%s" data-id="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" opacity="%.2f"/>`+"\n",
		classes("node", n.Active, n.Sibling, n.Faded, n.Pulsing, false), html.EscapeString(n.ID), n.X, n.Y, radius, fill, stroke, n.Opacity)
}

func (r renderer) fill(n radial.NodeFrame) string {
	switch {
	case n.Faded:
		return r.colors.Faded
	case n.Depth == hierarchy.DepthRoot:
		return r.colors.Root
	case n.Depth == hierarchy.DepthPrimary:
		return r.colors.Primary
	default:
		return r.colors.Secondary
	}
}

func (r renderer) label(buf *bytes.Buffer, n radial.NodeFrame) {
	lb := n.Label
	if len(lb.Lines) == 0 {
		return
	}
	fill := r.colors.Text
	if n.Depth == hierarchy.DepthRoot {
		fill = r.colors.Background
	}
	transform := ""
	if lb.Rotate != 0 {
		transform = fmt.Sprintf(` transform="rotate(%.2f %.2f %.2f)"`, lb.Rotate, lb.Point.X, lb.Point.Y)
	}
	// Multi-line labels are centered vertically on the anchor point.
	lineHeight := n.FontSize * 1.2
	y := lb.Point.Y - lineHeight*float64(len(lb.Lines)-1)/2

	fmt.Fprintf(buf, `    <text class="%s" data-id="%s" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="%s" dominant-baseline="middle" fill="%s" opacity="%.2f"%s>`,
		classes("label", n.Active, n.Sibling, n.Faded, false, false), html.EscapeString(n.ID), lb.Point.X, y, n.FontSize, lb.Anchor, fill, n.Opacity, transform)
	for i, line := range lb.Lines {
		dy := 0.0
		if i > 0 {
			dy = lineHeight
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%.2f">%s</tspan>`, lb.Point.X, dy, html.EscapeString(line))
	}
	buf.WriteString("</text>\n")
}

func classes(base string, active, sibling, faded, pulsing, hidden bool) string {
	parts := []string{base}
	for _, c := range []struct {
		on   bool
		name string
	}{
		{active, "active"},
		{sibling, "sibling"},
		{faded, "faded"},
		{pulsing, "pulsing"},
		{hidden, "hidden"},
	} {
		if c.on {
			parts = append(parts, c.name)
		}
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// Renderer
// =============================================================================

// Sink is a [radial.Renderer] that keeps the latest frame as SVG and
// optionally copies it to a writer.
type Sink struct {
	opts []Option
	w    io.Writer

	mu   sync.Mutex
	last []byte
}

// NewSink returns a Sink. w may be nil.
func NewSink(w io.Writer, opts ...Option) *Sink {
	return &Sink{w: w, opts: opts}
}

// Render implements radial.Renderer.
func (s *Sink) Render(_ context.Context, f radial.Frame) error {
	out := Render(f, s.opts...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = out
	if s.w != nil {
		if _, err := s.w.Write(out); err != nil {
			return err
		}
	}
	return nil
}

// Last returns the most recent SVG, or nil.
func (s *Sink) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
