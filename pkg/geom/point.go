package geom

import "math"

// Point is a cartesian coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// LerpPoint interpolates linearly between a and b.
func LerpPoint(a, b Point, t float64) Point {
	return Point{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// CurveControl returns the control point of a quadratic curve from a to b.
// The control point is the straight-line midpoint, pulled toward the origin
// (factor < 1) or pushed outward (factor > 1). A factor of 1 leaves the
// midpoint untouched, which makes the curve a straight segment.
func CurveControl(a, b Point, factor float64) Point {
	return Midpoint(a, b).Scale(factor)
}

// Quadratic samples the quadratic Bézier curve p0 → p2 with control c at t.
func Quadratic(p0, c, p2 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p2.Y,
	}
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 { return max(lo, min(hi, v)) }

// EaseInOutCubic is the cubic ease-in-out curve on [0, 1].
func EaseInOutCubic(t float64) float64 {
	t = Clamp(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}
