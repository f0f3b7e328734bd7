package selection

import (
	"errors"
	"sync"

	"github.com/matzehuels/radiant/pkg/events"
	"github.com/matzehuels/radiant/pkg/hierarchy"
)

// ErrTransitioning is returned by Begin while a transition is in flight.
var ErrTransitioning = errors.New("selection transition in progress")

// State is the coordinator's transition state.
type State int

const (
	Idle State = iota
	Transitioning
)

func (s State) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// Snapshot is a consistent copy of the coordinator state.
type Snapshot struct {
	Current  *hierarchy.Node
	Previous *hierarchy.Node
	State    State
}

// CurrentID returns the current node id, or "" when nothing is selected.
func (s Snapshot) CurrentID() string { return nodeID(s.Current) }

// PreviousID returns the previous node id, or "".
func (s Snapshot) PreviousID() string { return nodeID(s.Previous) }

// Transitioning reports whether the snapshot was taken mid-transition.
func (s Snapshot) Transitioning() bool { return s.State == Transitioning }

func nodeID(n *hierarchy.Node) string {
	if n == nil {
		return ""
	}
	return n.ID
}

// Coordinator owns the selection. It is safe for concurrent use.
type Coordinator struct {
	listener events.Listener

	mu       sync.Mutex
	current  *hierarchy.Node
	previous *hierarchy.Node
	state    State
}

// NewCoordinator returns an idle coordinator with nothing selected.
// Selection changes are reported to l; nil discards them.
func NewCoordinator(l events.Listener) *Coordinator {
	if l == nil {
		l = events.NopListener{}
	}
	return &Coordinator{listener: l}
}

// Begin makes n current and enters Transitioning. The previous current node
// becomes Previous. It fails with ErrTransitioning, changing nothing, when a
// transition is already in flight. Selecting the current node again is
// allowed.
func (c *Coordinator) Begin(n *hierarchy.Node) (Snapshot, error) {
	c.mu.Lock()
	if c.state == Transitioning {
		c.mu.Unlock()
		return Snapshot{}, ErrTransitioning
	}
	c.previous = c.current
	c.current = n
	c.state = Transitioning
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.listener.OnSelectionChanged(events.SelectionChange{
		Previous: snap.PreviousID(),
		Current:  snap.CurrentID(),
	})
	return snap, nil
}

// End returns the coordinator to Idle.
func (c *Coordinator) End() {
	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() Snapshot {
	return Snapshot{Current: c.current, Previous: c.previous, State: c.state}
}

// Transitioning reports whether a transition is in flight.
func (c *Coordinator) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Transitioning
}

// Rebind points the selection at the nodes with the same ids in a freshly
// built tree. Ids that no longer exist are cleared.
func (c *Coordinator) Rebind(t *hierarchy.Tree) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = lookup(t, c.current)
	c.previous = lookup(t, c.previous)
}

func lookup(t *hierarchy.Tree, n *hierarchy.Node) *hierarchy.Node {
	if n == nil || t == nil {
		return nil
	}
	m, _ := t.Node(n.ID)
	return m
}

// Reset clears the selection and returns to Idle.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current, c.previous, c.state = nil, nil, Idle
}
