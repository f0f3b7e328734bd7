// Package source loads hierarchy documents for a category.
//
// A [DataSource] returns the raw nested [hierarchy.Document] for a category
// name; normalization and validation happen in [hierarchy.Build]. The
// controller wraps any error returned here as DATA_FETCH_ERROR.
//
// Implementations:
//
//   - [FileSource]: {dir}/{category}.json or {dir}/{category}.toml
//   - [HTTPSource]: GET {base}/{category}
//   - [MongoSource]: one document per category in a MongoDB collection
//   - [Static]: a fixed document, for tests and embedding
//
// Category names are validated with errors.ValidateCategory before they
// reach a file path, URL or query.
package source

import (
	"context"

	"github.com/matzehuels/radiant/pkg/hierarchy"
)

// DataSource loads the hierarchy document for a category.
type DataSource interface {
	Load(ctx context.Context, category string) (hierarchy.Document, error)
}

// Func adapts a function to [DataSource].
type Func func(ctx context.Context, category string) (hierarchy.Document, error)

// Load calls f.
func (f Func) Load(ctx context.Context, category string) (hierarchy.Document, error) {
	return f(ctx, category)
}

// Static serves the same document for every category.
type Static hierarchy.Document

// Load returns the document.
func (s Static) Load(context.Context, string) (hierarchy.Document, error) {
	return hierarchy.Document(s), nil
}
