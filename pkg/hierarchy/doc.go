// Package hierarchy holds the three-level tree navigated by the radial view.
//
// # Architecture
//
// Two representations exist:
//
//   - [Document]: the opaque nested document delivered by a data source
//     (JSON, TOML or BSON), with id, name and children at every level
//   - [Tree]: the normalized, validated tree of [Node] values that the
//     layout engine and selection coordinator operate on
//
// [Build] converts a Document into a Tree. Trees are rebuilt from scratch
// whenever new data arrives; they are never re-parented in place.
//
// # Depths
//
//	0  the single central root
//	1  the primary ring, children of the root
//	2  the secondary ring, children of primary nodes
//
// Documents nested deeper than depth 2 are rejected.
//
// # Ownership
//
// Each Node owns its ordered Children. The parent reference returned by
// [Node.Parent] is for lookup only; nothing in this module frees or
// replaces nodes through it.
//
// # Serialization
//
//	doc, _ := hierarchy.ReadDocumentFile("topics.json")  // JSON or TOML by extension
//	tree, _ := hierarchy.Build(doc)
//	hierarchy.WriteDocument(tree.Document(), os.Stdout)
//
// # Concurrency
//
// A Tree is immutable after Build except for the computed Angle and Radius
// fields, which only the layout engine writes. Callers that relayout while
// other goroutines read must replace the whole Tree, not mutate it.
package hierarchy
