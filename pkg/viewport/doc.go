// Package viewport resolves container sizes into the dimension profile used
// by the radial layout.
//
// # Breakpoints
//
// The container width selects one of three named profiles:
//
//	width < 768    mobile
//	width < 1024   tablet
//	otherwise      desktop
//
// Each [Profile] carries the minimum node sizes, font sizes and label
// spacing for its breakpoint. The desktop profile doubles as the global
// maximum: sizes grow linearly from the active profile's value towards the
// desktop value as the width moves from the small to the large breakpoint
// (see [Fluid]).
//
// # Dimensions
//
// [Resolve] produces a [Dimensions] value. It is always computed as a whole
// and replaced as a whole; nothing in this module edits a Dimensions in
// place.
//
//	width   clamp(container width,  MinWidth,  90% of viewport width)
//	height  clamp(container height, MinHeight, 70% of viewport height)
//	radius  35% of min(width, height), at least 1.5× the central node size,
//	        at most 40% of width
//
// # Resize Handling
//
// [ShouldRelayout] ignores changes of 1% or less. [Watcher] adds a quiet
// period on top (250ms by default) using github.com/bep/debounce so a
// burst of resize notifications results in at most one relayout.
package viewport
