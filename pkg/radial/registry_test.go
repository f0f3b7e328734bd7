package radial

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/radiant/pkg/config"
	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/source"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	defer r.DestroyAll()

	a, err := r.Create("left", Options{Data: source.Static(scenarioDoc())})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID() != "left" {
		t.Errorf("ID() = %q", a.ID())
	}
	if _, err := r.Create("left", Options{}); !rerrors.Is(err, rerrors.ErrCodeInvalidInput) {
		t.Errorf("duplicate Create err = %v", err)
	}

	anon, err := r.Create("", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if anon.ID() == "" {
		t.Error("generated id is empty")
	}
	if got, ok := r.Get(anon.ID()); !ok || got != anon {
		t.Error("Get() did not return the created controller")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d", r.Len())
	}
	if ids := r.IDs(); !slices.Contains(ids, "left") || !slices.IsSorted(ids) {
		t.Errorf("IDs() = %v", ids)
	}

	if !r.Destroy("left") {
		t.Error("Destroy(left) = false")
	}
	if r.Destroy("left") {
		t.Error("second Destroy(left) = true")
	}
	if a.State() != Destroyed {
		t.Errorf("destroyed controller state = %s", a.State())
	}
	if err := a.Init(context.Background(), "topics"); !rerrors.Is(err, rerrors.ErrCodeDestroyed) {
		t.Errorf("Init() after Destroy err = %v", err)
	}

	r.DestroyAll()
	if r.Len() != 0 || anon.State() != Destroyed {
		t.Errorf("DestroyAll left %d controllers, anon %s", r.Len(), anon.State())
	}
}

func TestRegistryCreateInvalidConfig(t *testing.T) {
	r := NewRegistry()
	cfg := config.Default()
	cfg.Cache.MaxEntries = 0
	if _, err := r.Create("x", Options{Config: cfg}); !rerrors.Is(err, rerrors.ErrCodeConfigValidation) {
		t.Errorf("Create() err = %v", err)
	}
	if r.Len() != 0 {
		t.Error("failed Create registered a controller")
	}
}
