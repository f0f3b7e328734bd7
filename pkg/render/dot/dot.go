// Package dot exports navigator frames as Graphviz DOT and renders them
// through Graphviz.
//
// Node positions are pinned to the radial layout (pos="x,y!") and the
// graph uses the neato engine, so Graphviz draws the hierarchy exactly
// where the layout engine placed it and only routes the edges.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/radiant/pkg/config"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/radial"
)

// Options configures DOT export.
type Options struct {
	// Colors is the palette. The zero value uses config.Default().Colors.
	Colors config.Colors

	// HideInvisible drops links whose classification makes them invisible.
	HideInvisible bool
}

// ToDOT converts a frame to DOT. Layout coordinates grow downward; DOT's
// grow upward, so y is negated.
func ToDOT(f radial.Frame, opts Options) string {
	if opts.Colors == (config.Colors{}) {
		opts.Colors = config.Default().Colors
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", opts.Colors.Background)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Colors), ", "))
	}

	buf.WriteString("\n")
	for _, l := range f.Links {
		if opts.HideInvisible && !l.Visible {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", l.Source, l.Target, strings.Join(linkAttrs(l, opts.Colors), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n radial.NodeFrame, c config.Colors) []string {
	fill := c.Secondary
	switch {
	case n.Faded:
		fill = c.Faded
	case n.Depth == hierarchy.DepthRoot:
		fill = c.Root
	case n.Depth == hierarchy.DepthPrimary:
		fill = c.Primary
	}
	// Sizes are radii in points; DOT widths are diameters in inches.
	width := 2 * n.Size * n.Scale / 72
	attrs := []string{
		fmt.Sprintf("pos=\"%s,%s!\"", num(n.X), num(-n.Y)),
		fmt.Sprintf("width=%s", num(width)),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("fontsize=%s", num(n.FontSize)),
	}
	if n.Depth == hierarchy.DepthSecondary {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", n.Name), `label=""`)
	} else {
		attrs = append(attrs, fmt.Sprintf("label=%q", n.Name), fmt.Sprintf("fontcolor=%q", c.Background))
	}
	if n.Active {
		attrs = append(attrs, fmt.Sprintf("color=%q", c.Active), "penwidth=3")
	}
	return attrs
}

func linkAttrs(l radial.LinkFrame, c config.Colors) []string {
	color := c.Link
	if l.Active {
		color = c.Active
	}
	attrs := []string{fmt.Sprintf("color=%q", color)}
	if !l.Visible {
		attrs = append(attrs, "style=invis")
	}
	return attrs
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// RenderSVG renders DOT to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one whose
// width and height match the view box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
