package geom

import "math"

// TwoPi is a full revolution in radians.
const TwoPi = 2 * math.Pi

// wrapEpsilon snaps angles that round to just below 2π back to 0.
const wrapEpsilon = 1e-12

// Project converts polar coordinates to cartesian ones with angle 0 pointing up.
func Project(angle, radius float64) (x, y float64) {
	a := angle - math.Pi/2
	return radius * math.Cos(a), radius * math.Sin(a)
}

// ProjectPoint is [Project] returning a [Point].
func ProjectPoint(angle, radius float64) Point {
	x, y := Project(angle, radius)
	return Point{X: x, Y: y}
}

// NormalizeAngle reduces angle to [0, 2π).
func NormalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	for angle < 0 {
		angle += TwoPi
	}
	for angle >= TwoPi {
		angle -= TwoPi
	}
	if TwoPi-angle < wrapEpsilon {
		return 0
	}
	return angle
}

// AverageAngle returns the mean of angles. When the spread between the
// smallest and largest angle exceeds π the set is treated as wrapping around
// zero and the result is (min + max + 2π)/2 reduced to [0, 2π).
// An empty input yields 0.
func AverageAngle(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}
	lo, hi := angles[0], angles[0]
	var sum float64
	for _, a := range angles {
		lo = min(lo, a)
		hi = max(hi, a)
		sum += a
	}
	if hi-lo > math.Pi {
		return NormalizeAngle((lo + hi + TwoPi) / 2)
	}
	return sum / float64(len(angles))
}

// AngleDelta returns the signed shortest rotation from a to b, in (−π, π].
func AngleDelta(a, b float64) float64 {
	d := NormalizeAngle(b - a)
	if d > math.Pi {
		d -= TwoPi
	}
	return d
}

// LerpAngle interpolates from a to b along the shorter arc.
func LerpAngle(a, b, t float64) float64 {
	return NormalizeAngle(a + AngleDelta(a, b)*t)
}

// UniformAngles returns n angles spaced 2π/n apart starting at 0.
func UniformAngles(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	step := TwoPi / float64(n)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}
