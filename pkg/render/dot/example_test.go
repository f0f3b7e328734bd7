package dot_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/layout"
	"github.com/matzehuels/radiant/pkg/radial"
	"github.com/matzehuels/radiant/pkg/render/dot"
	"github.com/matzehuels/radiant/pkg/selection"
	"github.com/matzehuels/radiant/pkg/viewport"
)

func ExampleToDOT() {
	tree := hierarchy.MustBuild(hierarchy.Document{
		ID:       "root",
		Children: []hierarchy.Document{{ID: "a", Children: []hierarchy.Document{{ID: "a1"}}}},
	})
	d := viewport.Resolve(viewport.DefaultSettings(), viewport.Size{Width: 800, Height: 600}, viewport.Size{})
	f := radial.BuildFrame(tree, layout.Compute(tree, d, layout.Options{}), selection.Classify(tree, nil), "")

	for _, line := range strings.Split(dot.ToDOT(f, dot.Options{}), "\n") {
		if strings.Contains(line, " -- ") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "root" -- "a" [color="#f59e0b"];
	// "a" -- "a1" [color="#f59e0b"];
}
