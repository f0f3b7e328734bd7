// Package geom provides the pure geometry helpers used by the radial layout.
//
// Angles are radians measured clockwise from "up": [Project] applies a −90°
// rotation so that angle 0 lands at the top of the circle and π/2 at the
// right, matching screen coordinates where y grows downward.
//
// # Angles
//
//	geom.NormalizeAngle(-0.5)              // 2π − 0.5
//	geom.AverageAngle([]float64{0.1, 6.2}) // ≈ 0, not π: the pair straddles the wrap point
//
// # Points and Curves
//
// [Point] carries cartesian coordinates. [CurveControl] returns the control
// point of a quadratic link between two projected points and [Quadratic]
// samples such a curve.
//
// # Text
//
// [TextWidth] estimates rendered width from the display cell count of a
// string and [WrapText] packs words greedily into lines no wider than a
// maximum width.
package geom
