package selection

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/radiant/pkg/events"
	"github.com/matzehuels/radiant/pkg/hierarchy"
)

func tree() *hierarchy.Tree {
	return hierarchy.MustBuild(hierarchy.Document{
		ID: "root",
		Children: []hierarchy.Document{
			{ID: "A", Children: []hierarchy.Document{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}}},
			{ID: "B", Children: []hierarchy.Document{{ID: "b1"}}},
			{ID: "C"},
		},
	})
}

func node(t *hierarchy.Tree, id string) *hierarchy.Node {
	n, ok := t.Node(id)
	if !ok {
		panic("no node " + id)
	}
	return n
}

func ids(c Classification, pick func(NodeState) bool) string {
	var out []string
	for id, st := range c.Nodes {
		if pick(st) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

func links(c Classification, pick func(LinkState) bool) string {
	var out []string
	for id, st := range c.Links {
		if pick(st) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

var (
	active    = func(s NodeState) bool { return s.Active }
	sibling   = func(s NodeState) bool { return s.Sibling }
	fadedNode = func(s NodeState) bool { return s.Faded }
	pulsing   = func(s NodeState) bool { return s.Pulsing }

	activeLink  = func(s LinkState) bool { return s.Active }
	siblingLink = func(s LinkState) bool { return s.Sibling }
	hiddenLink  = func(s LinkState) bool { return !s.Visible }
)

func TestClassify(t *testing.T) {
	tr := tree()

	tests := []struct {
		name     string
		selected string

		active, sibling, faded, pulsing string

		activeLinks, siblingLinks, hiddenLinks string
	}{
		{
			name:     "no selection",
			selected: "",
			active:   "root",
			activeLinks: "A->a1,A->a2,A->a3,B->b1," +
				"root->A,root->B,root->C",
		},
		{
			name:     "root",
			selected: "root",
			active:   "root",
			activeLinks: "A->a1,A->a2,A->a3,B->b1," +
				"root->A,root->B,root->C",
		},
		{
			name:         "primary",
			selected:     "A",
			active:       "A,root",
			sibling:      "B,C",
			faded:        "b1",
			activeLinks:  "A->a1,A->a2,A->a3,root->A",
			siblingLinks: "root->B,root->C",
			hiddenLinks:  "B->b1",
		},
		{
			name:         "secondary",
			selected:     "a2",
			active:       "a2",
			sibling:      "a1,a3",
			faded:        "b1",
			pulsing:      "a2",
			activeLinks:  "A->a2,root->A",
			siblingLinks: "A->a1,A->a3",
			hiddenLinks:  "B->b1",
		},
		{
			name:        "lone secondary",
			selected:    "b1",
			active:      "b1",
			faded:       "a1,a2,a3",
			pulsing:     "b1",
			activeLinks: "B->b1,root->B",
			hiddenLinks: "A->a1,A->a2,A->a3",
		},
		{
			name:         "childless primary",
			selected:     "C",
			active:       "C,root",
			sibling:      "A,B",
			faded:        "a1,a2,a3,b1",
			activeLinks:  "root->C",
			siblingLinks: "root->A,root->B",
			hiddenLinks:  "A->a1,A->a2,A->a3,B->b1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s *hierarchy.Node
			if tt.selected != "" {
				s = node(tr, tt.selected)
			}
			c := Classify(tr, s)

			checks := []struct{ what, got, want string }{
				{"active", ids(c, active), tt.active},
				{"sibling", ids(c, sibling), tt.sibling},
				{"faded", ids(c, fadedNode), tt.faded},
				{"pulsing", ids(c, pulsing), tt.pulsing},
				{"active links", links(c, activeLink), tt.activeLinks},
				{"sibling links", links(c, siblingLink), tt.siblingLinks},
				{"hidden links", links(c, hiddenLink), tt.hiddenLinks},
			}
			for _, ck := range checks {
				if ck.got != ck.want {
					t.Errorf("%s = %q, want %q", ck.what, ck.got, ck.want)
				}
			}
		})
	}
}

func TestClassificationConsistent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := hierarchy.Document{ID: "root"}
		for i := range rapid.IntRange(1, 6).Draw(t, "primaries") {
			p := hierarchy.Document{ID: fmt.Sprintf("p%d", i)}
			for j := range rapid.IntRange(0, 5).Draw(t, fmt.Sprintf("kids%d", i)) {
				p.Children = append(p.Children, hierarchy.Document{ID: fmt.Sprintf("p%d-s%d", i, j)})
			}
			doc.Children = append(doc.Children, p)
		}
		tr := hierarchy.MustBuild(doc)
		nodes := tr.Nodes()
		s := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "selected")]

		c := Classify(tr, s)
		if len(c.Nodes) != tr.Len() || len(c.Links) != tr.Len()-1 {
			t.Fatalf("classification incomplete: %d nodes, %d links", len(c.Nodes), len(c.Links))
		}
		if !c.Nodes[s.ID].Active {
			t.Fatalf("selected node %s not active", s.ID)
		}

		pulsing := 0
		for id, st := range c.Nodes {
			if st.Active && st.Sibling {
				t.Fatalf("%s both active and sibling", id)
			}
			if st.Faded && (st.Active || st.Sibling) && s.Depth != hierarchy.DepthSecondary {
				t.Fatalf("%s faded and highlighted", id)
			}
			if st.Pulsing {
				pulsing++
			}
		}
		want := 0
		if s.Depth == hierarchy.DepthSecondary {
			want = 1
		}
		if pulsing != want {
			t.Fatalf("pulsing = %d, want %d", pulsing, want)
		}
		if got := c.Nodes[tr.Root.ID]; got.Sibling {
			t.Fatal("root classified as sibling")
		}
		for id, st := range c.Links {
			if st.Active && st.Sibling {
				t.Fatalf("link %s both active and sibling", id)
			}
		}
	})
}

func TestChanged(t *testing.T) {
	tr := tree()
	before := Classify(tr, nil)
	after := Classify(tr, node(tr, "B"))

	nodes, lks := Changed(before, after)
	sort.Strings(nodes)
	if got := strings.Join(nodes, ","); got != "A,B,C,a1,a2,a3" {
		t.Errorf("changed nodes = %s", got)
	}
	if !slices.Contains(lks, "A->a1") || slices.Contains(lks, "B->b1") {
		t.Errorf("changed links = %v", lks)
	}

	if n, l := Changed(after, after); len(n) != 0 || len(l) != 0 {
		t.Errorf("Changed(same) = %v %v", n, l)
	}
}

type selectionRecorder struct {
	events.NopListener
	got []events.SelectionChange
}

func (r *selectionRecorder) OnSelectionChanged(e events.SelectionChange) {
	r.got = append(r.got, e)
}

func TestCoordinator(t *testing.T) {
	tr := tree()
	rec := &selectionRecorder{}
	c := NewCoordinator(rec)

	if snap := c.Snapshot(); snap.Current != nil || snap.State != Idle {
		t.Fatalf("initial snapshot = %+v", snap)
	}

	snap, err := c.Begin(node(tr, "A"))
	if err != nil {
		t.Fatal(err)
	}
	if snap.CurrentID() != "A" || snap.PreviousID() != "" || !snap.Transitioning() {
		t.Errorf("after Begin(A): %+v", snap)
	}

	// Rejected while transitioning; selection unchanged.
	if _, err := c.Begin(node(tr, "a1")); !errors.Is(err, ErrTransitioning) {
		t.Fatalf("Begin while transitioning err = %v", err)
	}
	if got := c.Snapshot().CurrentID(); got != "A" {
		t.Errorf("current after rejected select = %s, want A", got)
	}

	c.End()
	if c.Transitioning() || c.Snapshot().Transitioning() {
		t.Fatal("still transitioning after End")
	}

	snap, err = c.Begin(node(tr, "a1"))
	if err != nil {
		t.Fatal(err)
	}
	if snap.PreviousID() != "A" || snap.CurrentID() != "a1" {
		t.Errorf("after Begin(a1): prev=%s cur=%s", snap.PreviousID(), snap.CurrentID())
	}
	c.End()

	// Re-selecting the current node is accepted.
	if _, err := c.Begin(node(tr, "a1")); err != nil {
		t.Errorf("reselect: %v", err)
	}
	c.End()

	if len(rec.got) != 3 {
		t.Fatalf("got %d selection events, want 3", len(rec.got))
	}
	if rec.got[1] != (events.SelectionChange{Previous: "A", Current: "a1"}) {
		t.Errorf("second event = %+v", rec.got[1])
	}
}

func TestCoordinatorRebind(t *testing.T) {
	old := tree()
	c := NewCoordinator(nil)
	c.Begin(node(old, "A"))
	c.End()
	c.Begin(node(old, "a2"))
	c.End()

	fresh := hierarchy.MustBuild(hierarchy.Document{
		ID: "root",
		Children: []hierarchy.Document{
			{ID: "A", Children: []hierarchy.Document{{ID: "a1"}}},
		},
	})
	c.Rebind(fresh)
	snap := c.Snapshot()
	if snap.Current != nil {
		t.Errorf("a2 should be cleared, got %v", snap.Current)
	}
	if snap.Previous != node(fresh, "A") {
		t.Error("previous should point into the fresh tree")
	}

	c.Reset()
	if snap := c.Snapshot(); snap.Current != nil || snap.Previous != nil || snap.State != Idle {
		t.Errorf("after Reset: %+v", snap)
	}
}
