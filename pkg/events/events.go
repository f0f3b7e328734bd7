// Package events is the typed notification channel of the radial navigator.
//
// The set of notifications is fixed:
//
//   - selection changed (previous and current node ids)
//   - data changed (a new hierarchy was installed)
//   - transition started / ended
//   - error occurred (with an error kind from pkg/errors)
//
// Consumers implement [Listener], usually by embedding [NopListener] and
// overriding the methods they care about, and register with
// [Bus.Subscribe]. A [Bus] is itself a Listener that fans every
// notification out to its subscribers, so producers only ever see the
// Listener interface.
//
//	bus := events.NewBus()
//	unsubscribe := bus.Subscribe(myListener)
//	defer unsubscribe()
//
// [Channel] adapts the callback interface to a channel of [Event] values
// for consumers with their own event loop, such as a terminal UI.
package events

import (
	"sync"
	"time"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
)

// =============================================================================
// Payloads
// =============================================================================

// SelectionChange reports a new current node. Ids are empty for "no node".
type SelectionChange struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// DataChange reports that a new hierarchy was installed.
type DataChange struct {
	Root  string `json:"root"`
	Nodes int    `json:"nodes"`
}

// Transition identifies one animated update.
type Transition struct {
	ID       string        `json:"id"`
	Target   string        `json:"target"`
	Duration time.Duration `json:"duration"`
	// Cancelled is set on the end notification of a transition that was
	// superseded before it finished.
	Cancelled bool `json:"cancelled,omitempty"`
}

// ErrorEvent carries an error and its kind.
type ErrorEvent struct {
	Kind    rerrors.Code `json:"kind"`
	Message string       `json:"message"`
	Fatal   bool         `json:"fatal"`
	Err     error        `json:"-"`
}

// NewErrorEvent classifies err. Errors without a code are reported as
// internal errors.
func NewErrorEvent(err error) ErrorEvent {
	kind := rerrors.GetCode(err)
	if kind == "" {
		kind = rerrors.ErrCodeInternal
	}
	return ErrorEvent{
		Kind:    kind,
		Message: rerrors.UserMessage(err),
		Fatal:   kind.Fatal(),
		Err:     err,
	}
}

// =============================================================================
// Listener
// =============================================================================

// Listener receives navigator notifications. Methods are called
// synchronously on the goroutine that produced the notification and must
// not block.
type Listener interface {
	OnSelectionChanged(SelectionChange)
	OnDataChanged(DataChange)
	OnTransitionStarted(Transition)
	OnTransitionEnded(Transition)
	OnError(ErrorEvent)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) OnSelectionChanged(SelectionChange) {}
func (NopListener) OnDataChanged(DataChange)           {}
func (NopListener) OnTransitionStarted(Transition)     {}
func (NopListener) OnTransitionEnded(Transition)       {}
func (NopListener) OnError(ErrorEvent)                 {}

// =============================================================================
// Bus
// =============================================================================

// Bus fans notifications out to subscribed listeners in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

type subscription struct {
	id uint64
	l  Listener
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{} }

// Subscribe registers l and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (b *Bus) Subscribe(l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, l: l})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) each(fn func(Listener)) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, s := range subs {
		fn(s.l)
	}
}

func (b *Bus) OnSelectionChanged(e SelectionChange) {
	b.each(func(l Listener) { l.OnSelectionChanged(e) })
}

func (b *Bus) OnDataChanged(e DataChange) {
	b.each(func(l Listener) { l.OnDataChanged(e) })
}

func (b *Bus) OnTransitionStarted(e Transition) {
	b.each(func(l Listener) { l.OnTransitionStarted(e) })
}

func (b *Bus) OnTransitionEnded(e Transition) {
	b.each(func(l Listener) { l.OnTransitionEnded(e) })
}

func (b *Bus) OnError(e ErrorEvent) {
	b.each(func(l Listener) { l.OnError(e) })
}
