package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/hierarchy"
)

var doc = hierarchy.Document{
	ID:   "earth",
	Name: "Earth systems",
	Children: []hierarchy.Document{
		{ID: "ocean", Children: []hierarchy.Document{{ID: "tides"}}},
		{ID: "air"},
	},
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	if err := hierarchy.WriteDocumentFile(doc, filepath.Join(dir, "topics.json")); err != nil {
		t.Fatal(err)
	}
	toml := "id = \"root\"\n\n[[children]]\nid = \"a\"\n"
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	src := FileSource{Dir: dir}
	ctx := context.Background()

	got, err := src.Load(ctx, "topics")
	if err != nil {
		t.Fatal(err)
	}
	if got.Count() != 4 {
		t.Errorf("Count() = %d, want 4", got.Count())
	}

	got, err = src.Load(ctx, "other")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "root" || len(got.Children) != 1 {
		t.Errorf("toml doc = %+v", got)
	}

	if _, err := src.Load(ctx, "missing"); !rerrors.Is(err, rerrors.ErrCodeNotFound) {
		t.Errorf("missing err = %v", err)
	}
	if _, err := src.Load(ctx, "../topics"); !rerrors.Is(err, rerrors.ErrCodeInvalidInput) {
		t.Errorf("traversal err = %v", err)
	}

	p, err := Path(filepath.Join(dir, "topics.json")).Load(ctx, "ignored")
	if err != nil || p.ID != "earth" {
		t.Errorf("Path.Load = %+v, %v", p, err)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hierarchies/topics" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL + "/hierarchies")
	if err != nil {
		t.Fatal(err)
	}
	src.Client.WithRetry(1, time.Millisecond)

	got, err := src.Load(context.Background(), "topics")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "earth" || got.Count() != 4 {
		t.Errorf("Load = %+v", got)
	}
	if _, err := src.Load(context.Background(), "nope"); !rerrors.Is(err, rerrors.ErrCodeNotFound) {
		t.Errorf("missing err = %v", err)
	}
}

// fakeFinder answers FindOne from an in-memory map keyed by category.
type fakeFinder struct {
	records map[string]categoryRecord
}

func (f fakeFinder) FindOne(_ context.Context, filter any, _ ...*options.FindOneOptions) *mongo.SingleResult {
	category, _ := filter.(bson.M)["category"].(string)
	rec, ok := f.records[category]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(rec, nil, nil)
}

func TestMongoSource(t *testing.T) {
	src := &MongoSource{coll: fakeFinder{records: map[string]categoryRecord{
		"topics": {Category: "topics", Root: doc},
	}}}
	ctx := context.Background()

	got, err := src.Load(ctx, "topics")
	if err != nil {
		t.Fatal(err)
	}
	tree, err := hierarchy.Build(got)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Len() != 4 {
		t.Errorf("tree Len() = %d, want 4", tree.Len())
	}

	if _, err := src.Load(ctx, "missing"); !rerrors.Is(err, rerrors.ErrCodeNotFound) {
		t.Errorf("missing err = %v", err)
	}
}

func TestStaticAndFunc(t *testing.T) {
	ctx := context.Background()
	got, _ := Static(doc).Load(ctx, "any")
	if got.ID != "earth" {
		t.Errorf("Static.Load = %+v", got)
	}
	f := Func(func(_ context.Context, c string) (hierarchy.Document, error) {
		return hierarchy.Document{ID: c}, nil
	})
	got, _ = f.Load(ctx, "topics")
	if got.ID != "topics" {
		t.Errorf("Func.Load = %+v", got)
	}
}
