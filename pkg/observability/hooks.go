// Package observability lets the binary attach metrics to the navigator
// libraries without those libraries importing a metrics backend.
//
// Libraries call the current hooks, which are no-ops until something is
// installed. radiant serve installs Prometheus collectors:
//
//	restore := observability.Install(observability.Hooks{
//	    Controller: m, Cache: m, HTTP: m,
//	})
//	defer restore()
//
// and the libraries report through the accessors:
//
//	observability.Controller().OnLayoutComplete(ctx, dims.Breakpoint, time.Since(start))
//	observability.Cache().OnCacheHit(ctx)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ===== Hook interfaces =====

// ControllerHooks observes layout, selection and transitions.
type ControllerHooks interface {
	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, breakpoint string, duration time.Duration)

	// OnSelect records a select call at the given tree depth. err is set
	// when the call was rejected.
	OnSelect(ctx context.Context, depth int, err error)

	// OnTransitionComplete records the end of an animated update, including
	// superseded ones.
	OnTransitionComplete(ctx context.Context, duration time.Duration, cancelled bool)
}

// CacheHooks observes the node content cache and its preloader.
type CacheHooks interface {
	OnCacheHit(ctx context.Context)
	OnCacheMiss(ctx context.Context)
	OnCacheSet(ctx context.Context, size int)
	OnCacheEvict(ctx context.Context, count int)
	OnPreload(ctx context.Context, err error)
}

// HTTPHooks observes requests made by the remote data and content sources.
// OnError is called instead of OnResponse when no response arrived.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// ===== No-op hooks =====

type NoopControllerHooks struct{}

func (NoopControllerHooks) OnLayoutStart(context.Context, int)                        {}
func (NoopControllerHooks) OnLayoutComplete(context.Context, string, time.Duration)   {}
func (NoopControllerHooks) OnSelect(context.Context, int, error)                      {}
func (NoopControllerHooks) OnTransitionComplete(context.Context, time.Duration, bool) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context)        {}
func (NoopCacheHooks) OnCacheMiss(context.Context)       {}
func (NoopCacheHooks) OnCacheSet(context.Context, int)   {}
func (NoopCacheHooks) OnCacheEvict(context.Context, int) {}
func (NoopCacheHooks) OnPreload(context.Context, error)  {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// ===== Registry =====

// Hooks is one set of installed hooks. Nil fields leave the current hook
// of that kind in place.
type Hooks struct {
	Controller ControllerHooks
	Cache      CacheHooks
	HTTP       HTTPHooks
}

func noop() *Hooks {
	return &Hooks{Controller: NoopControllerHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}
}

var current atomic.Pointer[Hooks]

func init() { current.Store(noop()) }

// Install replaces the non-nil hooks in h and returns a function that
// restores the previous set. Installs are expected at startup; swapping
// while libraries report is safe but not ordered.
func Install(h Hooks) (restore func()) {
	prev := current.Load()
	next := *prev
	if h.Controller != nil {
		next.Controller = h.Controller
	}
	if h.Cache != nil {
		next.Cache = h.Cache
	}
	if h.HTTP != nil {
		next.HTTP = h.HTTP
	}
	current.Store(&next)
	return func() { current.Store(prev) }
}

// Reset installs the no-op hooks.
func Reset() { current.Store(noop()) }

func Controller() ControllerHooks { return current.Load().Controller }
func Cache() CacheHooks           { return current.Load().Cache }
func HTTP() HTTPHooks             { return current.Load().HTTP }
