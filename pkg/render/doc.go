// Package render turns navigator frames into files.
//
// Frames come from [radial.Controller] or [radial.BuildFrame]. This package
// holds the format conversion shared by the renderers:
//
//   - [svg]: draws a frame directly as SVG, with classification classes
//   - [dot]: emits Graphviz DOT with pinned node positions and renders it
//     through Graphviz
//
// [Convert] turns any SVG into PDF or PNG using the external rsvg-convert
// tool from librsvg:
//
//	out := svg.Render(frame)
//	png, err := render.Convert(ctx, out, render.Options{Format: render.PNG, Scale: 2})
//
// [radial.Controller]: github.com/matzehuels/radiant/pkg/radial#Controller
// [radial.BuildFrame]: github.com/matzehuels/radiant/pkg/radial#BuildFrame
// [svg]: github.com/matzehuels/radiant/pkg/render/svg
// [dot]: github.com/matzehuels/radiant/pkg/render/dot
package render
