package transition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/radiant/pkg/events"
	"github.com/matzehuels/radiant/pkg/geom"
	"github.com/matzehuels/radiant/pkg/observability"
)

// ErrSuperseded is the cancellation cause of a run replaced by a newer one.
var ErrSuperseded = errors.New("transition superseded")

// DefaultFrameInterval is roughly one display frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Step receives eased progress in [0, 1].
type Step func(progress float64)

// Durations bounds animation lengths.
type Durations struct {
	Default time.Duration
	Min     time.Duration
	Max     time.Duration
}

// DefaultDurations returns 750ms within [200ms, 1500ms].
func DefaultDurations() Durations {
	return Durations{Default: 750 * time.Millisecond, Min: 200 * time.Millisecond, Max: 1500 * time.Millisecond}
}

// Clamp returns d limited to [Min, Max]. Zero means Default. A negative d
// disables animation and is returned as 0.
func (ds Durations) Clamp(d time.Duration) time.Duration {
	switch {
	case d < 0:
		return 0
	case d == 0:
		d = ds.Default
	}
	if ds.Min > 0 && d < ds.Min {
		d = ds.Min
	}
	if ds.Max > 0 && d > ds.Max {
		d = ds.Max
	}
	return d
}

// Validate checks that the bounds are ordered.
func (ds Durations) Validate() error {
	if ds.Min < 0 || ds.Max < 0 || ds.Default < 0 {
		return errors.New("durations must not be negative")
	}
	if ds.Max > 0 && ds.Min > ds.Max {
		return fmt.Errorf("min duration %s exceeds max %s", ds.Min, ds.Max)
	}
	if ds.Default < ds.Min || (ds.Max > 0 && ds.Default > ds.Max) {
		return fmt.Errorf("default duration %s outside [%s, %s]", ds.Default, ds.Min, ds.Max)
	}
	return nil
}

// Options configures a [Coordinator].
type Options struct {
	Durations     Durations
	FrameInterval time.Duration
	Easing        func(float64) float64
	Listener      events.Listener
	Logger        *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Durations == (Durations{}) {
		o.Durations = DefaultDurations()
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	if o.Easing == nil {
		o.Easing = geom.EaseInOutCubic
	}
	if o.Listener == nil {
		o.Listener = events.NopListener{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Coordinator runs at most one animation at a time.
type Coordinator struct {
	opts Options

	mu  sync.Mutex
	cur *run
}

type run struct {
	id     string
	cancel context.CancelCauseFunc
	done   chan struct{}
}

// NewCoordinator returns a Coordinator with defaults applied to opts.
func NewCoordinator(opts Options) *Coordinator {
	return &Coordinator{opts: opts.withDefaults()}
}

// Durations returns the configured bounds.
func (c *Coordinator) Durations() Durations { return c.opts.Durations }

// Run animates target for duration d (clamped, see [Durations.Clamp]),
// calling step once per frame. It blocks until the animation completes or
// is cancelled, and returns nil only when the final step(1) ran.
func (c *Coordinator) Run(ctx context.Context, target string, d time.Duration, step Step) error {
	d = c.opts.Durations.Clamp(d)
	ctx, cancel := context.WithCancelCause(ctx)
	r := &run{id: uuid.NewString(), cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	prev := c.cur
	c.cur = r
	c.mu.Unlock()

	if prev != nil {
		c.opts.Logger.Debug("superseding transition", "id", prev.id, "by", r.id)
		prev.cancel(ErrSuperseded)
		<-prev.done
	}

	defer func() {
		c.mu.Lock()
		if c.cur == r {
			c.cur = nil
		}
		c.mu.Unlock()
		cancel(nil)
		close(r.done)
	}()

	ev := events.Transition{ID: r.id, Target: target, Duration: d}
	c.opts.Listener.OnTransitionStarted(ev)
	start := time.Now()

	err := c.animate(ctx, d, step)

	ev.Cancelled = err != nil
	c.opts.Listener.OnTransitionEnded(ev)
	observability.Controller().OnTransitionComplete(ctx, time.Since(start), ev.Cancelled)
	c.opts.Logger.Debug("transition ended", "id", r.id, "target", target, "elapsed", time.Since(start), "cancelled", ev.Cancelled)
	return err
}

func (c *Coordinator) animate(ctx context.Context, d time.Duration, step Step) error {
	if err := context.Cause(ctx); err != nil {
		return err
	}
	if d <= 0 {
		step(1)
		return nil
	}

	step(0)
	ticker := time.NewTicker(c.opts.FrameInterval)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case now := <-ticker.C:
			p := float64(now.Sub(start)) / float64(d)
			if p >= 1 {
				step(1)
				return nil
			}
			step(c.opts.Easing(p))
		}
	}
}

// Cancel stops the animation in flight, if any, and waits for it to end.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	r := c.cur
	c.mu.Unlock()
	if r == nil {
		return
	}
	r.cancel(context.Canceled)
	<-r.done
}

// InFlight reports whether an animation is running.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil
}
