package radial

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
)

// Registry owns controllers by id. Each id maps to at most one controller,
// and only the registry destroys the controllers it created.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{controllers: make(map[string]*Controller)}
}

// Create builds a controller under id. An empty id generates a UUID. It
// fails with INVALID_INPUT when id is taken.
func (r *Registry) Create(id string, opts Options) (*Controller, error) {
	if id == "" {
		id = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.controllers[id]; ok {
		return nil, rerrors.New(rerrors.ErrCodeInvalidInput, "controller %q already exists", id)
	}
	opts.ID = id
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	r.controllers[id] = c
	return c, nil
}

// Get returns the controller for id.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[id]
	return c, ok
}

// Destroy destroys and removes the controller for id. It reports whether
// one existed.
func (r *Registry) Destroy(id string) bool {
	r.mu.Lock()
	c, ok := r.controllers[id]
	delete(r.controllers, id)
	r.mu.Unlock()
	if ok {
		c.Destroy()
	}
	return ok
}

// DestroyAll destroys every controller.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	all := r.controllers
	r.controllers = make(map[string]*Controller)
	r.mu.Unlock()
	for _, c := range all {
		c.Destroy()
	}
}

// Len returns the number of controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.controllers))
	for id := range r.controllers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
