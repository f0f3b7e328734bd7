package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/redis/go-redis/v9"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
)

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nodes/ocean" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(Payload{Markup: "<h1>Ocean</h1>", Styles: []string{"h1{}"}})
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL + "/nodes")
	if err != nil {
		t.Fatal(err)
	}
	src.Client.WithRetry(1, time.Millisecond)

	p, err := src.Fetch(context.Background(), "ocean")
	if err != nil {
		t.Fatal(err)
	}
	if p.Markup != "<h1>Ocean</h1>" || len(p.Styles) != 1 {
		t.Errorf("payload = %+v", p)
	}

	_, err = src.Fetch(context.Background(), "missing")
	if !rerrors.Is(err, rerrors.ErrCodeNotFound) {
		t.Errorf("missing err = %v", err)
	}

	if _, err := NewHTTPSource("ftp://example.com"); err == nil {
		t.Error("expected invalid URL error")
	}
}

// fakeHashes stores hashes in memory.
type fakeHashes struct {
	data map[string]map[string]string
	err  error
}

func (f *fakeHashes) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	if f.err != nil {
		return redis.NewMapStringStringResult(nil, f.err)
	}
	return redis.NewMapStringStringResult(f.data[key], nil)
}

func (f *fakeHashes) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	if f.data == nil {
		f.data = make(map[string]map[string]string)
	}
	h := make(map[string]string)
	for k, v := range values[0].(map[string]any) {
		h[k] = v.(string)
	}
	f.data[key] = h
	return redis.NewIntResult(int64(len(h)), nil)
}

func TestRedisSource(t *testing.T) {
	fake := &fakeHashes{}
	src := &RedisSource{Prefix: DefaultRedisPrefix, client: fake}
	ctx := context.Background()

	want := Payload{ID: "tides", Markup: "<p>tides</p>", Styles: []string{"p{}"}, Meta: map[string]string{"author": "noaa"}}
	if err := src.Store(ctx, want); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.data["radiant:content:tides"]; !ok {
		t.Fatalf("stored under wrong key: %v", fake.data)
	}

	got, err := src.Fetch(ctx, "tides")
	if err != nil {
		t.Fatal(err)
	}
	if got.Markup != want.Markup || len(got.Styles) != 1 || got.Meta["author"] != "noaa" {
		t.Errorf("Fetch = %+v", got)
	}

	if _, err := src.Fetch(ctx, "missing"); !rerrors.Is(err, rerrors.ErrCodeNotFound) {
		t.Errorf("missing err = %v", err)
	}

	fake.data["radiant:content:bad"] = map[string]string{"markup": "x", "styles": "{"}
	if _, err := src.Fetch(ctx, "bad"); !rerrors.Is(err, rerrors.ErrCodeInvalidInput) {
		t.Errorf("bad styles err = %v", err)
	}

	fake.err = errors.New("connection refused")
	if _, err := src.Fetch(ctx, "tides"); !rerrors.Is(err, rerrors.ErrCodeNetwork) {
		t.Errorf("redis down err = %v", err)
	}
}

func TestFSSource(t *testing.T) {
	src := FSSource{FS: fstest.MapFS{
		"ocean.html": {Data: []byte("<h1>Ocean</h1>")},
		"ocean.css":  {Data: []byte("h1{color:blue}")},
		"ice.html":   {Data: []byte("<h1>Ice</h1>")},
	}}
	ctx := context.Background()

	tests := []struct {
		id         string
		wantStyles int
		wantCode   rerrors.Code
	}{
		{"ocean", 1, ""},
		{"ice", 0, ""},
		{"missing", 0, rerrors.ErrCodeNotFound},
		{"../etc/passwd", 0, rerrors.ErrCodeInvalidInput},
		{"a/b", 0, rerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, err := src.Fetch(ctx, tt.id)
			if tt.wantCode != "" {
				if !rerrors.Is(err, tt.wantCode) {
					t.Errorf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(p.Styles) != tt.wantStyles || p.Markup == "" {
				t.Errorf("payload = %+v", p)
			}
		})
	}
}

func TestSourceFuncWithCache(t *testing.T) {
	calls := 0
	c := New(SourceFunc(func(_ context.Context, id string) (Payload, error) {
		calls++
		return Payload{Markup: id}, nil
	}))
	defer c.Close()

	for range 3 {
		if _, err := c.Get(context.Background(), "x"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
