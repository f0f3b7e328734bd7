package radial

import "context"

// Renderer draws frames. Render is called from a single goroutine at a
// time, once per animation frame at most.
type Renderer interface {
	Render(ctx context.Context, f Frame) error
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func(ctx context.Context, f Frame) error

// Render calls f.
func (fn RendererFunc) Render(ctx context.Context, f Frame) error { return fn(ctx, f) }

type nopRenderer struct{}

func (nopRenderer) Render(context.Context, Frame) error { return nil }
