package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/radiant/pkg/cache"
	"github.com/matzehuels/radiant/pkg/config"
	"github.com/matzehuels/radiant/pkg/radial"
)

const oceans = "../../examples/hierarchies/oceans.json"

func quietContext() context.Context {
	return withLogger(context.Background(), newLogger(&bytes.Buffer{}, log.InfoLevel))
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,dot,json", []string{"svg", "dot", "json"}},
		{"blanks dropped", " svg, ,png ", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseList(tt.input)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("parseList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid dot", []string{"dot"}, false},
		{"valid all", []string{"svg", "dot", "json", "pdf", "png"}, false},
		{"invalid format", []string{"gif"}, true},
		{"mixed valid invalid", []string{"svg", "gif"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEngine(t *testing.T) {
	for _, e := range []string{engineNative, engineGraphviz} {
		if err := validateEngine(e); err != nil {
			t.Errorf("validateEngine(%q) = %v", e, err)
		}
	}
	if validateEngine("cairo") == nil {
		t.Error("validateEngine(cairo) should fail")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/oceans.json", "data/oceans"},
		{"", "solar.toml", "solar"},
		{"out/diagram.svg", "oceans.json", "out/diagram"},
		{"out/diagram.dot", "oceans.json", "out/diagram"},
		{"out/diagram", "oceans.json", "out/diagram"},
		{"out/diagram.v2", "oceans.json", "out/diagram.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestRenderFrame(t *testing.T) {
	cfg := config.Default()
	f, err := loadFrame(cfg, oceans, frameOpts{width: 1024, height: 768, selected: "tides"})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	t.Run("svg", func(t *testing.T) {
		out, err := renderFrame(ctx, cfg, f, "svg", renderOpts{engine: engineNative})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(out, []byte("<svg")) || !bytes.Contains(out, []byte(`data-id="tides"`)) {
			t.Errorf("unexpected svg output: %.120s", out)
		}
	})

	t.Run("dot", func(t *testing.T) {
		out, err := renderFrame(ctx, cfg, f, "dot", renderOpts{hideHidden: true})
		if err != nil {
			t.Fatal(err)
		}
		s := string(out)
		if !strings.Contains(s, `"physics" -- "tides"`) {
			t.Error("dot output missing visible outer link")
		}
		if strings.Contains(s, `"life" -- "reefs"`) {
			t.Error("dot output kept a hidden outer link")
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := renderFrame(ctx, cfg, f, "json", renderOpts{})
		if err != nil {
			t.Fatal(err)
		}
		var back radial.Frame
		if err := json.Unmarshal(out, &back); err != nil {
			t.Fatal(err)
		}
		if back.Selected != "tides" || len(back.Nodes) != len(f.Nodes) {
			t.Errorf("decoded frame selected=%q nodes=%d", back.Selected, len(back.Nodes))
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := renderFrame(ctx, cfg, f, "gif", renderOpts{}); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}

func TestRunRenderWritesFiles(t *testing.T) {
	dir := t.TempDir()
	opts := renderOpts{
		frameOpts: frameOpts{width: 600, height: 600},
		output:    filepath.Join(dir, "oceans"),
		formats:   []string{"svg", "dot", "json"},
		engine:    engineNative,
	}
	if err := runRender(quietContext(), config.Default(), cache.NewNullCache(), oceans, opts); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{"svg", "dot", "json"} {
		info, err := os.Stat(filepath.Join(dir, "oceans."+ext))
		if err != nil {
			t.Fatalf("missing %s output: %v", ext, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}
}

// countingCache records hits so tests can tell cached output from a render.
type countingCache struct {
	cache.Cache
	hits int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if ok {
		c.hits++
	}
	return data, ok, err
}

func TestRunRenderUsesArtifactCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := &countingCache{Cache: fc}
	dir := t.TempDir()
	opts := renderOpts{
		frameOpts: frameOpts{width: 800, height: 600, selected: "whales"},
		output:    filepath.Join(dir, "whales.svg"),
		formats:   []string{"svg"},
		engine:    engineNative,
	}
	ctx := quietContext()
	if err := runRender(ctx, config.Default(), store, oceans, opts); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(opts.output)
	if err != nil {
		t.Fatal(err)
	}
	if store.hits != 0 {
		t.Fatalf("hits after first render = %d", store.hits)
	}

	if err := runRender(ctx, config.Default(), store, oceans, opts); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(opts.output)
	if store.hits != 1 || !bytes.Equal(first, second) {
		t.Errorf("second render: hits=%d equal=%v", store.hits, bytes.Equal(first, second))
	}

	// Another selection is a different artifact.
	opts.selected = "kelp"
	if err := runRender(ctx, config.Default(), store, oceans, opts); err != nil {
		t.Fatal(err)
	}
	if store.hits != 1 {
		t.Errorf("changed selection hit the cache")
	}
}

func TestArtifactKey(t *testing.T) {
	cfg := config.Default()
	f, err := loadFrame(cfg, oceans, frameOpts{width: 1024, height: 768})
	if err != nil {
		t.Fatal(err)
	}
	base := renderOpts{engine: engineNative, scale: 2}
	k1, _ := artifactKey(cfg, f, "png", base)

	scaled := base
	scaled.scale = 3
	k2, _ := artifactKey(cfg, f, "png", scaled)

	recolored := cfg
	recolored.Colors.Active = "#000000"
	k3, _ := artifactKey(recolored, f, "png", base)

	if k1 == k2 || k1 == k3 {
		t.Error("artifact key ignores render options")
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	out, err := runRoot(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	dir, _ := cacheDir()
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}

	store, err := newArtifactCache(false)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	stats := captureStdout(t)
	if _, err := runRoot(t, "cache", "stats"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stats.String(), "Entries") || !strings.Contains(stats.String(), dir) {
		t.Errorf("cache stats output = %q", stats)
	}
	if _, err := runRoot(t, "cache", "prune"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := store.Get(context.Background(), "k"); !hit {
		t.Error("cache prune removed a live entry")
	}
	if _, err := runRoot(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := store.Get(context.Background(), "k"); hit {
		t.Error("cache clear left entries behind")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1536:    "1.5 KiB",
		5 << 20: "5.0 MiB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRunRenderUnknownSelection(t *testing.T) {
	opts := renderOpts{
		frameOpts: frameOpts{width: 600, height: 600, selected: "atlantis"},
		output:    filepath.Join(t.TempDir(), "out.svg"),
		formats:   []string{"svg"},
		engine:    engineNative,
	}
	err := runRender(quietContext(), config.Default(), cache.NewNullCache(), oceans, opts)
	if err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestRunLayout(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.json")
	c := New(&bytes.Buffer{}, LogInfo)
	opts := frameOpts{width: 500, height: 500, selected: "life"}
	if err := c.runLayout(quietContext(), config.Default(), "../../examples/hierarchies/solar.toml", out, opts); err == nil {
		t.Fatal("selecting a node that is not in the document should fail")
	}

	opts.selected = "outer"
	if err := c.runLayout(quietContext(), config.Default(), "../../examples/hierarchies/solar.toml", out, opts); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var f radial.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatal(err)
	}
	if f.Dimensions.Breakpoint != "mobile" {
		t.Errorf("breakpoint = %s, want mobile for a 500px container", f.Dimensions.Breakpoint)
	}
	jupiter, ok := f.Node("jupiter")
	if !ok || jupiter.Faded {
		t.Errorf("jupiter = %+v, want present and not faded", jupiter)
	}
	mars, _ := f.Node("mars")
	if !mars.Faded {
		t.Error("mars should be faded when outer planets are selected")
	}
}
