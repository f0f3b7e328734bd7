package content

import (
	"context"
)

// Payload is the content shown for a node: markup plus the style fragments
// it needs.
type Payload struct {
	ID     string            `json:"id"`
	Markup string            `json:"markup"`
	Styles []string          `json:"styles,omitempty"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// Size estimates the payload's memory footprint in bytes.
func (p Payload) Size() int {
	n := len(p.ID) + len(p.Markup)
	for _, s := range p.Styles {
		n += len(s)
	}
	for k, v := range p.Meta {
		n += len(k) + len(v)
	}
	return n
}

// Source fetches the payload for a node id.
type Source interface {
	Fetch(ctx context.Context, id string) (Payload, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context, id string) (Payload, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, id string) (Payload, error) { return f(ctx, id) }
