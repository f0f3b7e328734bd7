// Package layout assigns polar coordinates to a three-level hierarchy and
// describes the paths of its links.
//
// # Algorithm
//
// [Compute] runs four steps over a [hierarchy.Tree]:
//
//  1. Secondary nodes are taken grouped by parent, parents in root order,
//     and spaced uniformly around the full circle: node i of N gets angle
//     i·2π/N regardless of which primary node owns it.
//  2. Each primary node takes the wrap-aware average of its children's
//     angles ([geom.AverageAngle]). A primary node with no children keeps
//     the default slot i·2π/M among its M primary siblings.
//  3. The root stays at the center with angle 0 and radius 0.
//  4. Radii come from the depth alone, read from [viewport.Dimensions].
//
// Angles follow the screen convention of [geom.Project]: 0 points up and
// angles grow clockwise.
//
// # Links
//
// Root links are straight segments from the origin. Outer links are
// quadratic curves whose control point is the straight midpoint between
// the endpoints scaled by [Options.CurveFactor]. Paths are SVG path data
// relative to the layout center.
//
// # Determinism
//
// Compute is a pure function of the tree structure, the dimensions and the
// options. Running it twice on the same input writes bit-identical angles
// and radii and returns equal results.
package layout
