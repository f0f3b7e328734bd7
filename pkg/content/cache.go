package content

import (
	"cmp"
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/observability"
)

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("content cache closed")

// Options configures a [Cache].
type Options struct {
	// MaxEntries is the capacity enforced by Cleanup.
	// Default: 50
	MaxEntries int

	// CleanupInterval forces a cleanup on Set once this much time has
	// passed since the last one.
	// Default: 5 minutes
	CleanupInterval time.Duration

	// BatchSize is the number of ids fetched concurrently per preload batch.
	// Default: 3
	BatchSize int

	// BatchDelay is the pause between preload batches.
	// Default: 100ms
	BatchDelay time.Duration

	// FetchTimeout bounds a single Source fetch.
	// Default: 10s
	FetchTimeout time.Duration

	// Clock returns the current time. Default: time.Now
	Clock func() time.Time

	Logger *log.Logger

	// OnPreloadError is called after a failed preload fetch has been
	// logged. The error carries the PRELOAD_ERROR code.
	OnPreloadError func(id string, err error)
}

// DefaultOptions returns the built-in settings.
func DefaultOptions() Options {
	return Options{
		MaxEntries:      50,
		CleanupInterval: 5 * time.Minute,
		BatchSize:       3,
		BatchDelay:      100 * time.Millisecond,
		FetchTimeout:    10 * time.Second,
		Clock:           time.Now,
		Logger:          log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// Option is a functional option for configuring a Cache.
type Option func(*Options)

// WithMaxEntries sets the capacity.
func WithMaxEntries(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxEntries = n
		}
	}
}

// WithCleanupInterval sets the time-based cleanup trigger.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.CleanupInterval = d
		}
	}
}

// WithBatch sets the preload batch size and the delay between batches.
func WithBatch(size int, delay time.Duration) Option {
	return func(o *Options) {
		if size > 0 {
			o.BatchSize = size
		}
		if delay >= 0 {
			o.BatchDelay = delay
		}
	}
}

// WithFetchTimeout bounds each Source fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.FetchTimeout = d
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Clock = now
		}
	}
}

// WithLogger sets the logger used for preload failures.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithPreloadErrorHandler reports preload failures to fn.
func WithPreloadErrorHandler(fn func(id string, err error)) Option {
	return func(o *Options) {
		o.OnPreloadError = fn
	}
}

type entry struct {
	payload      Payload
	addedAt      time.Time
	lastAccessed time.Time
	size         int
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries   int   `json:"entries"`
	Bytes     int64 `json:"bytes"`
	Queued    int   `json:"queued"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Dedups    int64 `json:"dedups"`
	Fetches   int64 `json:"fetches"`
	Errors    int64 `json:"errors"`
}

// Cache is a bounded, deduplicating content cache. It is safe for
// concurrent use.
type Cache struct {
	source Source
	opts   Options
	flight singleflight.Group

	mu          sync.Mutex
	entries     map[string]*entry
	bytes       int64
	lastCleanup time.Time
	closed      bool

	// preload queue, guarded by mu
	queue    []string
	queued   map[string]bool
	draining bool
	idle     chan struct{}
	stop     chan struct{}

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	dedups    atomic.Int64
	fetches   atomic.Int64
	errs      atomic.Int64
}

// New returns a Cache that fetches misses from src.
func New(src Source, opts ...Option) *Cache {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Cache{
		source:  src,
		opts:    o,
		entries: make(map[string]*entry),
		queued:  make(map[string]bool),
		stop:    make(chan struct{}),
	}
	c.lastCleanup = o.Clock()
	return c
}

// Options returns the effective configuration.
func (c *Cache) Options() Options { return c.opts }

// Get returns the payload for id, fetching it on a miss. Fetch failures are
// CONTENT_FETCH_ERROR and leave no entry behind.
func (c *Cache) Get(ctx context.Context, id string) (Payload, error) {
	if p, ok := c.lookup(ctx, id); ok {
		return p, nil
	}
	if c.isClosed() {
		return Payload{}, ErrClosed
	}

	ch := c.flight.DoChan(id, func() (any, error) {
		if p, ok := c.peek(id); ok {
			return p, nil
		}
		c.misses.Add(1)
		observability.Cache().OnCacheMiss(ctx)

		// The fetch outlives the caller that started it.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.FetchTimeout)
		defer cancel()

		c.fetches.Add(1)
		p, err := c.source.Fetch(fctx, id)
		if err != nil {
			c.errs.Add(1)
			return nil, rerrors.Wrap(rerrors.ErrCodeContentFetch, err, "fetch content for %s", id)
		}
		if p.ID == "" {
			p.ID = id
		}
		c.Set(id, p)
		return p, nil
	})

	select {
	case <-ctx.Done():
		return Payload{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.dedups.Add(1)
		}
		if res.Err != nil {
			return Payload{}, res.Err
		}
		return res.Val.(Payload), nil
	}
}

// lookup returns a cached payload, recording a hit and refreshing its
// access time.
func (c *Cache) lookup(ctx context.Context, id string) (Payload, bool) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if ok {
		e.lastAccessed = c.opts.Clock()
	}
	c.mu.Unlock()
	if !ok {
		return Payload{}, false
	}
	c.hits.Add(1)
	observability.Cache().OnCacheHit(ctx)
	return e.payload, true
}

// peek returns a cached payload without touching statistics or access time.
func (c *Cache) peek(id string) (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return Payload{}, false
	}
	return e.payload, true
}

// Has reports whether id is cached.
func (c *Cache) Has(id string) bool {
	_, ok := c.peek(id)
	return ok
}

// Set stores p under id and runs Cleanup when the cache is over capacity or
// the cleanup interval has passed. After Close it does nothing, which also
// discards fetches that were still in flight.
func (c *Cache) Set(id string, p Payload) {
	now := c.opts.Clock()
	size := p.Size()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if old, ok := c.entries[id]; ok {
		c.bytes -= int64(old.size)
	}
	c.entries[id] = &entry{payload: p, addedAt: now, lastAccessed: now, size: size}
	c.bytes += int64(size)

	evicted := 0
	if len(c.entries) > c.opts.MaxEntries || now.Sub(c.lastCleanup) > c.opts.CleanupInterval {
		evicted = c.cleanupLocked(now)
	}
	c.mu.Unlock()

	observability.Cache().OnCacheSet(context.Background(), size)
	if evicted > 0 {
		observability.Cache().OnCacheEvict(context.Background(), evicted)
	}
}

// Cleanup evicts least recently accessed entries until the cache holds at
// most MaxEntries. It returns the number of evicted entries.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	n := c.cleanupLocked(c.opts.Clock())
	c.mu.Unlock()
	if n > 0 {
		observability.Cache().OnCacheEvict(context.Background(), n)
	}
	return n
}

func (c *Cache) cleanupLocked(now time.Time) int {
	c.lastCleanup = now
	excess := len(c.entries) - c.opts.MaxEntries
	if excess <= 0 {
		return 0
	}

	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		ea, eb := c.entries[a], c.entries[b]
		if r := ea.lastAccessed.Compare(eb.lastAccessed); r != 0 {
			return r
		}
		if r := ea.addedAt.Compare(eb.addedAt); r != 0 {
			return r
		}
		return cmp.Compare(a, b)
	})

	for _, id := range ids[:excess] {
		c.bytes -= int64(c.entries[id].size)
		delete(c.entries, id)
	}
	c.evictions.Add(int64(excess))
	c.opts.Logger.Debug("content cache cleanup", "evicted", excess, "entries", len(c.entries))
	return excess
}

// Delete removes id from the cache.
func (c *Cache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		c.bytes -= int64(e.size)
		delete(c.entries, id)
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.bytes = 0
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the cached ids, least recently accessed first.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if r := c.entries[a].lastAccessed.Compare(c.entries[b].lastAccessed); r != 0 {
			return r
		}
		return cmp.Compare(a, b)
	})
	return ids
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries, bytes, queued := len(c.entries), c.bytes, len(c.queue)
	c.mu.Unlock()
	return Stats{
		Entries:   entries,
		Bytes:     bytes,
		Queued:    queued,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Dedups:    c.dedups.Load(),
		Fetches:   c.fetches.Load(),
		Errors:    c.errs.Load(),
	}
}

func (c *Cache) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close stops the preload drain and waits for it to exit. Entries are
// dropped. Close is idempotent.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.stop)
	idle := c.idle
	draining := c.draining
	c.mu.Unlock()

	if draining {
		<-idle
	}
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.bytes = 0
	c.queue = nil
	c.queued = make(map[string]bool)
	c.mu.Unlock()
	return nil
}
