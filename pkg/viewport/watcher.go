package viewport

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DefaultDebounce is the quiet period before a resize is acted on.
const DefaultDebounce = 250 * time.Millisecond

// Watcher coalesces resize notifications and calls OnResize once the sizes
// have been quiet for the debounce period and moved by more than the
// threshold since the last accepted size.
type Watcher struct {
	onResize  func(Size)
	threshold float64
	debounced func(func())

	mu      sync.Mutex
	last    Size
	pending Size
	stopped bool
}

// NewWatcher returns a Watcher. A non-positive delay uses [DefaultDebounce];
// a non-positive threshold uses [RelayoutThreshold].
func NewWatcher(delay time.Duration, threshold float64, onResize func(Size)) *Watcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if threshold <= 0 {
		threshold = RelayoutThreshold
	}
	return &Watcher{
		onResize:  onResize,
		threshold: threshold,
		debounced: debounce.New(delay),
	}
}

// Prime records s as the last laid-out size without calling OnResize.
func (w *Watcher) Prime(s Size) {
	w.mu.Lock()
	w.last = s
	w.mu.Unlock()
}

// Notify records a new size. OnResize may run later on another goroutine.
func (w *Watcher) Notify(s Size) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.pending = s
	w.mu.Unlock()
	w.debounced(w.flush)
}

// Last returns the last accepted size.
func (w *Watcher) Last() Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Stop drops pending and future notifications.
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.stopped || !ShouldRelayout(w.last, w.pending, w.threshold) {
		w.mu.Unlock()
		return
	}
	s := w.pending
	w.last = s
	w.mu.Unlock()

	if w.onResize != nil {
		w.onResize(s)
	}
}
