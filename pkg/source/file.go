package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/hierarchy"
)

// FileSource reads {Dir}/{category}.json, falling back to .toml.
type FileSource struct {
	Dir string
}

// Load implements [DataSource].
func (s FileSource) Load(_ context.Context, category string) (hierarchy.Document, error) {
	if err := rerrors.ValidateCategory(category); err != nil {
		return hierarchy.Document{}, err
	}
	for _, ext := range []string{".json", ".toml"} {
		path := filepath.Join(s.Dir, category+ext)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return hierarchy.ReadDocumentFile(path)
	}
	return hierarchy.Document{}, rerrors.New(rerrors.ErrCodeNotFound, "no document for category %q in %s", category, s.Dir)
}

// Path is a DataSource for a single file, ignoring the category.
type Path string

// Load implements [DataSource].
func (p Path) Load(context.Context, string) (hierarchy.Document, error) {
	return hierarchy.ReadDocumentFile(string(p))
}
