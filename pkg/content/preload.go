package content

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/observability"
)

// Preload queues ids that are neither cached nor already queued and starts
// the background drain if it is not running. It never blocks on fetches.
func (c *Cache) Preload(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for _, id := range ids {
		if id == "" || c.queued[id] {
			continue
		}
		if _, cached := c.entries[id]; cached {
			continue
		}
		c.queued[id] = true
		c.queue = append(c.queue, id)
	}
	if c.draining || len(c.queue) == 0 {
		return
	}
	c.draining = true
	c.idle = make(chan struct{})
	go c.drain(c.idle)
}

// Queued returns the ids waiting to be preloaded, in queue order.
func (c *Cache) Queued() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.queue)
}

// WaitPreload blocks until the preload queue is drained or ctx is done.
func (c *Cache) WaitPreload(ctx context.Context) error {
	c.mu.Lock()
	if !c.draining {
		c.mu.Unlock()
		return nil
	}
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cache) drain(idle chan struct{}) {
	defer close(idle)
	ctx := context.Background()

	for {
		c.mu.Lock()
		if c.closed || len(c.queue) == 0 {
			c.draining = false
			c.mu.Unlock()
			return
		}
		batch := slices.Clone(c.queue[:min(c.opts.BatchSize, len(c.queue))])
		c.mu.Unlock()

		c.opts.Logger.Debug("preload batch", "size", len(batch))
		var g errgroup.Group
		for _, id := range batch {
			g.Go(func() error {
				_, err := c.Get(ctx, id)
				if err != nil {
					perr := rerrors.Wrap(rerrors.ErrCodePreload, err, "preload %s", id)
					c.opts.Logger.Warn("preload failed", "id", id, "kind", rerrors.ErrCodePreload, "err", perr)
					if c.opts.OnPreloadError != nil {
						c.opts.OnPreloadError(id, perr)
					}
				}
				observability.Cache().OnPreload(ctx, err)
				c.dequeue(id)
				return nil
			})
		}
		_ = g.Wait()

		if c.opts.BatchDelay > 0 {
			select {
			case <-c.stop:
			case <-time.After(c.opts.BatchDelay):
			}
		}
	}
}

func (c *Cache) dequeue(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.queued, id)
	if i := slices.Index(c.queue, id); i >= 0 {
		c.queue = slices.Delete(c.queue, i, i+1)
	}
}
