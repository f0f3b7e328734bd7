package geom

import (
	"math"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestProject(t *testing.T) {
	tests := []struct {
		name         string
		angle, r     float64
		wantX, wantY float64
	}{
		{"up", 0, 10, 0, -10},
		{"right", math.Pi / 2, 10, 10, 0},
		{"down", math.Pi, 10, 0, 10},
		{"left", 3 * math.Pi / 2, 10, -10, 0},
		{"origin", 1.234, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Project(tt.angle, tt.r)
			if !approx(x, tt.wantX) || !approx(y, tt.wantY) {
				t.Errorf("Project(%v, %v) = (%v, %v), want (%v, %v)", tt.angle, tt.r, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{TwoPi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
		{-4 * math.Pi, 0},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); !approx(got, tt.want) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAngleRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(-100, 100).Draw(t, "angle")
		got := NormalizeAngle(a)
		if got < 0 || got >= TwoPi {
			t.Fatalf("NormalizeAngle(%v) = %v, outside [0, 2π)", a, got)
		}
		if d := math.Abs(AngleDelta(a, got)); d > 1e-6 {
			t.Fatalf("NormalizeAngle(%v) = %v changes direction by %v", a, got, d)
		}
	})
}

func TestAverageAngle(t *testing.T) {
	tests := []struct {
		name   string
		angles []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{1.5}, 1.5},
		{"plain mean", []float64{0, math.Pi / 2, math.Pi}, math.Pi / 2},
		{"wraps across zero", []float64{0.1, TwoPi - 0.1}, 0},
		{"adjacent across wrap", []float64{0.1, 6.2}, NormalizeAngle((0.1 + 6.2 + TwoPi) / 2)},
		{"exactly pi spread is not wrapped", []float64{0, math.Pi}, math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageAngle(tt.angles)
			if d := math.Abs(AngleDelta(got, tt.want)); d > eps {
				t.Errorf("AverageAngle(%v) = %v, want %v", tt.angles, got, tt.want)
			}
		})
	}
}

func TestAverageAngleNotMidCircle(t *testing.T) {
	got := AverageAngle([]float64{0.1, TwoPi - 0.1})
	if math.Abs(AngleDelta(got, math.Pi)) < 1 {
		t.Errorf("AverageAngle across wrap = %v, landed near π", got)
	}
}

func TestUniformAngles(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 500).Draw(t, "n")
		angles := UniformAngles(n)
		if len(angles) != n {
			t.Fatalf("len = %d, want %d", len(angles), n)
		}
		step := TwoPi / float64(n)
		for i, a := range angles {
			if a != float64(i)*step {
				t.Fatalf("angle[%d] = %v, want %v", i, a, float64(i)*step)
			}
		}
		// The last gap closes the circle.
		if gap := TwoPi - angles[n-1]; !approx(gap, step) {
			t.Fatalf("closing gap = %v, want %v", gap, step)
		}
	})
}

func TestLerpAngleShortestArc(t *testing.T) {
	got := LerpAngle(TwoPi-0.2, 0.2, 0.5)
	if math.Abs(AngleDelta(got, 0)) > eps {
		t.Errorf("LerpAngle across wrap = %v, want 0", got)
	}
	if got := LerpAngle(0, math.Pi/2, 0.5); !approx(got, math.Pi/4) {
		t.Errorf("LerpAngle = %v, want π/4", got)
	}
}

func TestCurveControl(t *testing.T) {
	a := Point{X: 0, Y: -10}
	b := Point{X: 10, Y: 0}

	mid := CurveControl(a, b, 1)
	if !approx(mid.X, 5) || !approx(mid.Y, -5) {
		t.Errorf("CurveControl factor 1 = %+v, want midpoint", mid)
	}

	pulled := CurveControl(a, b, 0.5)
	if !approx(pulled.X, 2.5) || !approx(pulled.Y, -2.5) {
		t.Errorf("CurveControl factor 0.5 = %+v", pulled)
	}

	// Endpoints are preserved regardless of the control point.
	if p := Quadratic(a, pulled, b, 0); p != a {
		t.Errorf("Quadratic(t=0) = %+v, want %+v", p, a)
	}
	if p := Quadratic(a, pulled, b, 1); !approx(p.X, b.X) || !approx(p.Y, b.Y) {
		t.Errorf("Quadratic(t=1) = %+v, want %+v", p, b)
	}
}

func TestEaseInOutCubic(t *testing.T) {
	if EaseInOutCubic(0) != 0 || EaseInOutCubic(1) != 1 {
		t.Error("easing must fix the endpoints")
	}
	if !approx(EaseInOutCubic(0.5), 0.5) {
		t.Errorf("EaseInOutCubic(0.5) = %v", EaseInOutCubic(0.5))
	}
	if EaseInOutCubic(-1) != 0 || EaseInOutCubic(2) != 1 {
		t.Error("easing must clamp its input")
	}
}

func TestTextWidth(t *testing.T) {
	if got := TextWidth("", 12); got != 0 {
		t.Errorf("TextWidth(empty) = %v", got)
	}
	narrow := TextWidth("ab", 10)
	if !approx(narrow, 2*10*charWidthRatio) {
		t.Errorf("TextWidth(ab) = %v", narrow)
	}
	if wide := TextWidth("日本", 10); !approx(wide, 2*narrow) {
		t.Errorf("TextWidth(日本) = %v, want %v", wide, 2*narrow)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{"empty", "   ", 100, nil},
		{"no limit", "ocean heat content", 0, []string{"ocean heat content"}},
		{"fits", "ocean heat", 1000, []string{"ocean heat"}},
		// 10px font: each char is 5.5px, "ocean heat" is 55px.
		{"wraps", "ocean heat content", 56, []string{"ocean heat", "content"}},
		{"long word alone", "a extraordinarily b", 20, []string{"a", "extraordinarily", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, 10, tt.maxWidth)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("WrapText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestWrapTextRespectsWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 1, 20).Draw(t, "words")
		maxWidth := rapid.Float64Range(30, 300).Draw(t, "max")
		lines := WrapText(strings.Join(words, " "), 10, maxWidth)
		for _, l := range lines {
			if TextWidth(l, 10) > maxWidth && strings.Contains(l, " ") {
				t.Fatalf("line %q exceeds %v", l, maxWidth)
			}
		}
		if strings.Join(lines, " ") != strings.Join(words, " ") {
			t.Fatalf("wrap lost words: %q", lines)
		}
	})
}
