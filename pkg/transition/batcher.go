package transition

import (
	"sync"
	"time"
)

// Batcher coalesces keyed writes into one flush per frame.
type Batcher struct {
	frame time.Duration

	// flushMu serializes flushes so a Flush returns only after writes
	// collected by a concurrent timer flush have run.
	flushMu sync.Mutex

	mu      sync.Mutex
	pending map[string]func()
	order   []string
	timer   *time.Timer
	stopped bool
}

// NewBatcher returns a Batcher that flushes frame after the first write of
// a batch. A non-positive frame uses [DefaultFrameInterval].
func NewBatcher(frame time.Duration) *Batcher {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	return &Batcher{frame: frame, pending: make(map[string]func())}
}

// Schedule queues write under key, replacing an earlier write with the
// same key in the current batch.
func (b *Batcher) Schedule(key string, write func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	if _, ok := b.pending[key]; !ok {
		b.order = append(b.order, key)
	}
	b.pending[key] = write
	if b.timer == nil {
		b.timer = time.AfterFunc(b.frame, b.Flush)
	}
}

// Flush runs the pending writes now, waiting for a flush already in
// progress to finish first.
func (b *Batcher) Flush() {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	writes := make([]func(), 0, len(b.order))
	for _, k := range b.order {
		writes = append(writes, b.pending[k])
	}
	b.pending = make(map[string]func())
	b.order = nil
	b.mu.Unlock()

	for _, w := range writes {
		w()
	}
}

// Pending returns the number of queued writes.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}

// Stop discards pending writes and ignores future ones.
func (b *Batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = make(map[string]func())
	b.order = nil
}
