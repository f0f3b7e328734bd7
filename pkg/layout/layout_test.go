package layout

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/radiant/pkg/geom"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/viewport"
)

const eps = 1e-9

func dims() viewport.Dimensions {
	return viewport.Resolve(viewport.DefaultSettings(), viewport.Size{Width: 1200, Height: 900}, viewport.Size{})
}

func scenarioTree() *hierarchy.Tree {
	return hierarchy.MustBuild(hierarchy.Document{
		ID: "root",
		Children: []hierarchy.Document{
			{ID: "A", Children: []hierarchy.Document{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}}},
			{ID: "B", Children: []hierarchy.Document{{ID: "b1"}}},
		},
	})
}

func TestComputeScenario(t *testing.T) {
	tree := scenarioTree()
	res := Compute(tree, dims(), Options{})

	want := map[string]float64{
		"a1": 0,
		"a2": math.Pi / 2,
		"a3": math.Pi,
		"b1": 3 * math.Pi / 2,
		"A":  geom.AverageAngle([]float64{0, math.Pi / 2, math.Pi}),
		"B":  3 * math.Pi / 2,
	}
	for id, angle := range want {
		n, _ := tree.Node(id)
		if math.Abs(n.Angle-angle) > eps {
			t.Errorf("%s angle = %g, want %g", id, n.Angle, angle)
		}
		p, ok := res.Node(id)
		if !ok || p.Angle != n.Angle {
			t.Errorf("%s: result position %+v does not match node", id, p)
		}
	}

	if tree.Root.Radius != 0 {
		t.Errorf("root radius = %g", tree.Root.Radius)
	}
	d := dims()
	for _, n := range tree.Primary() {
		if n.Radius != d.InnerRadius {
			t.Errorf("%s radius = %g, want %g", n.ID, n.Radius, d.InnerRadius)
		}
	}
	for _, n := range tree.Secondary() {
		if n.Radius != d.OuterRadius {
			t.Errorf("%s radius = %g, want %g", n.ID, n.Radius, d.OuterRadius)
		}
	}
}

func TestChildlessPrimaryKeepsSlot(t *testing.T) {
	tree := hierarchy.MustBuild(hierarchy.Document{
		ID: "root",
		Children: []hierarchy.Document{
			{ID: "p0", Children: []hierarchy.Document{{ID: "s0"}}},
			{ID: "p1"},
			{ID: "p2"},
			{ID: "p3", Children: []hierarchy.Document{{ID: "s1"}}},
		},
	})
	Compute(tree, dims(), Options{})

	p1, _ := tree.Node("p1")
	p2, _ := tree.Node("p2")
	if math.Abs(p1.Angle-math.Pi/2) > eps {
		t.Errorf("p1 angle = %g, want π/2", p1.Angle)
	}
	if math.Abs(p2.Angle-math.Pi) > eps {
		t.Errorf("p2 angle = %g, want π", p2.Angle)
	}
	p3, _ := tree.Node("p3")
	if math.Abs(p3.Angle-math.Pi) > eps {
		t.Errorf("p3 angle = %g, want π", p3.Angle)
	}
}

func TestPrimaryAverageWraps(t *testing.T) {
	// The first parent's children always start at 0, so the wrap rule
	// kicks in once they span more than half the circle.
	tree := hierarchy.MustBuild(hierarchy.Document{
		ID: "root",
		Children: []hierarchy.Document{
			{ID: "p", Children: []hierarchy.Document{{ID: "s0"}, {ID: "s1"}, {ID: "s2"}}},
			{ID: "q", Children: []hierarchy.Document{{ID: "s3"}}},
		},
	})
	Compute(tree, dims(), Options{})
	p, _ := tree.Node("p")
	// children at 0, π/2, π: spread is exactly π, plain mean
	if math.Abs(p.Angle-math.Pi/2) > eps {
		t.Errorf("p angle = %g, want π/2", p.Angle)
	}

	tree = hierarchy.MustBuild(hierarchy.Document{
		ID: "root",
		Children: []hierarchy.Document{
			{ID: "p", Children: []hierarchy.Document{{ID: "s0"}, {ID: "s1"}, {ID: "s2"}, {ID: "s3"}}},
			{ID: "q", Children: []hierarchy.Document{{ID: "s4"}}},
		},
	})
	Compute(tree, dims(), Options{})
	p, _ = tree.Node("p")
	// children at 0 .. 6π/5: spread > π, wrap rule (0 + 6π/5 + 2π)/2 mod 2π
	want := geom.NormalizeAngle((0 + 6*math.Pi/5 + geom.TwoPi) / 2)
	if math.Abs(p.Angle-want) > eps {
		t.Errorf("p angle = %g, want %g", p.Angle, want)
	}
}

func TestLinkPaths(t *testing.T) {
	tree := scenarioTree()
	res := Compute(tree, dims(), Options{})

	if len(res.Links) != 6 {
		t.Fatalf("len(Links) = %d, want 6", len(res.Links))
	}
	for _, l := range res.Links {
		switch {
		case l.Source == "root":
			if l.Kind != Straight || !strings.HasPrefix(l.D, "M0.00 0.00 L") {
				t.Errorf("root link %s->%s: kind=%s d=%q", l.Source, l.Target, l.Kind, l.D)
			}
		default:
			if l.Kind != Curve || !strings.Contains(l.D, " Q") {
				t.Errorf("outer link %s->%s: kind=%s d=%q", l.Source, l.Target, l.Kind, l.D)
			}
			mid := geom.Midpoint(l.From, l.To)
			if l.Control.Dist(mid) > eps {
				t.Errorf("control %v != midpoint %v with factor 1", l.Control, mid)
			}
		}
		if l.At(0).Dist(l.From) > eps || l.At(1).Dist(l.To) > eps {
			t.Errorf("%s->%s: endpoints do not match samples", l.Source, l.Target)
		}
	}

	bent := Compute(scenarioTree(), dims(), Options{CurveFactor: 0.5})
	for _, l := range bent.Links {
		if l.Kind != Curve {
			continue
		}
		want := geom.Midpoint(l.From, l.To).Scale(0.5)
		if l.Control.Dist(want) > eps {
			t.Errorf("control %v, want %v", l.Control, want)
		}
	}
}

func TestLabels(t *testing.T) {
	res := Compute(scenarioTree(), dims(), Options{})
	for _, id := range []string{"a1", "a2"} {
		p, _ := res.Node(id)
		if p.Label.Anchor != "start" {
			t.Errorf("%s anchor = %s, want start", id, p.Label.Anchor)
		}
	}
	b1, _ := res.Node("b1")
	if b1.Label.Anchor != "end" {
		t.Errorf("b1 anchor = %s, want end", b1.Label.Anchor)
	}
	if r := b1.Label.Point.Dist(geom.Point{}); r <= b1.Radius {
		t.Errorf("label radius %g should be outside node radius %g", r, b1.Radius)
	}
	root, _ := res.Node("root")
	if len(root.Label.Lines) == 0 || root.Label.Anchor != "middle" {
		t.Errorf("root label = %+v", root.Label)
	}
}

func TestComputeIdempotent(t *testing.T) {
	tree := scenarioTree()
	a := Compute(tree, dims(), Options{})
	b := Compute(tree, dims(), Options{})
	if !reflect.DeepEqual(a, b) {
		t.Error("Compute is not idempotent")
	}
}

// genTree draws a random valid three-level document.
func genTree(t *rapid.T) *hierarchy.Tree {
	primaries := rapid.IntRange(1, 8).Draw(t, "primaries")
	doc := hierarchy.Document{ID: "root"}
	for i := range primaries {
		p := hierarchy.Document{ID: fmt.Sprintf("p%d", i)}
		kids := rapid.IntRange(0, 6).Draw(t, fmt.Sprintf("kids%d", i))
		for j := range kids {
			p.Children = append(p.Children, hierarchy.Document{ID: fmt.Sprintf("p%d-s%d", i, j)})
		}
		doc.Children = append(doc.Children, p)
	}
	return hierarchy.MustBuild(doc)
}

func TestSecondaryAnglesUniform(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t)
		Compute(tree, dims(), Options{})

		sec := tree.Secondary()
		n := len(sec)
		for i, s := range sec {
			want := float64(i) * (2 * math.Pi / float64(n))
			if s.Angle != want {
				t.Fatalf("secondary %d angle = %v, want %v", i, s.Angle, want)
			}
		}
		for _, p := range tree.Primary() {
			if p.Angle < 0 || p.Angle >= geom.TwoPi {
				t.Fatalf("primary %s angle %v out of range", p.ID, p.Angle)
			}
		}
	})
}

func TestComputeIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t)
		w := rapid.Float64Range(300, 2500).Draw(t, "w")
		h := rapid.Float64Range(300, 2000).Draw(t, "h")
		d := viewport.Resolve(viewport.DefaultSettings(), viewport.Size{Width: w, Height: h}, viewport.Size{})

		a := Compute(tree, d, Options{})
		angles := make([]float64, 0, tree.Len())
		for _, n := range tree.Nodes() {
			angles = append(angles, n.Angle, n.Radius)
		}
		b := Compute(tree, d, Options{})
		for i, n := range tree.Nodes() {
			if n.Angle != angles[2*i] || n.Radius != angles[2*i+1] {
				t.Fatalf("node %s changed on recompute", n.ID)
			}
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatal("results differ")
		}
	})
}

func ExampleCompute() {
	tree := hierarchy.MustBuild(hierarchy.Document{
		ID: "root",
		Children: []hierarchy.Document{
			{ID: "A", Children: []hierarchy.Document{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}}},
			{ID: "B", Children: []hierarchy.Document{{ID: "b1"}}},
		},
	})
	d := viewport.Resolve(viewport.DefaultSettings(), viewport.Size{Width: 1200, Height: 900}, viewport.Size{})
	Compute(tree, d, Options{})

	for _, n := range tree.Nodes() {
		fmt.Printf("%s %.4f\n", n.ID, n.Angle/math.Pi)
	}
	// Output:
	// root 0.0000
	// A 0.5000
	// B 1.5000
	// a1 0.0000
	// a2 0.5000
	// a3 1.0000
	// b1 1.5000
}
