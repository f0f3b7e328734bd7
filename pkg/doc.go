// Package pkg provides the core libraries for Radiant radial hierarchy
// navigation.
//
// # Overview
//
// Radiant draws a three-level hierarchy as a radial diagram: the root sits
// in the center, primary topics on an inner ring and secondary topics on an
// outer ring. Selecting a node re-classifies every node and link (active,
// sibling, faded, visible) and animates the diagram to the new state. The
// pkg directory is organized into four areas:
//
//  1. Model and geometry: [hierarchy], [geom], [viewport], [layout]
//  2. Interaction: [selection], [transition], [events], [radial]
//  3. Data: [source] for hierarchy documents, [content] for node payloads,
//     [cache] for rendered artifacts
//  4. Output and support: [render], [config], [errors], [observability],
//     [httputil], [buildinfo]
//
// # Architecture
//
// The data flow of one selection:
//
//	DataSource (file, HTTP, MongoDB)
//	         ↓
//	    [hierarchy] Build (normalize, validate, link)
//	         ↓
//	    [viewport] Resolve (breakpoint, sizes, radii)
//	         ↓
//	    [layout] Compute (angles, positions, link paths, labels)
//	         ↓
//	    [selection] Classify (active, sibling, faded, visible)
//	         ↓
//	    [transition] Run (eased frames to a Renderer)
//	         ↓
//	    SVG / DOT / JSON / terminal
//
// [radial.Controller] ties these together and is what most callers use.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/radiant/pkg/radial"
//	    "github.com/matzehuels/radiant/pkg/source"
//	)
//
//	ctrl, err := radial.New(radial.Options{
//	    Data:     source.FileSource{Dir: "hierarchies"},
//	    Renderer: myRenderer,
//	})
//	if err != nil {
//	    return err
//	}
//	defer ctrl.Destroy()
//
//	if err := ctrl.Init(ctx, "oceans"); err != nil {
//	    return err
//	}
//	err = ctrl.Select(ctx, "tides") // animates, then returns
//
// Static output without a controller:
//
//	tree, _ := hierarchy.Build(doc)
//	dims := viewport.Resolve(cfg.Viewport(), viewport.Size{Width: 1024, Height: 768}, viewport.Size{})
//	res := layout.Compute(tree, dims, cfg.LayoutOptions())
//	frame := radial.BuildFrame(tree, res, selection.Classify(tree, nil), "")
//	out := svg.Render(frame)
//
// # Concurrency
//
// A [radial.Controller] is safe for concurrent use. Selections are
// serialized by the [selection] coordinator: a select during a running
// transition fails with selection.ErrTransitioning. Resizes are debounced
// and content fetches are deduplicated and batched.
//
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/hierarchy
// [geom]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/geom
// [viewport]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/viewport
// [layout]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/layout
// [selection]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/selection
// [transition]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/transition
// [events]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/events
// [radial]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/radial
// [radial.Controller]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/radial#Controller
// [source]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/source
// [content]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/content
// [cache]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/radiant/pkg/buildinfo
package pkg
