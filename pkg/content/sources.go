package content

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"

	"github.com/redis/go-redis/v9"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/httputil"
)

// =============================================================================
// HTTP
// =============================================================================

// HTTPSource fetches payloads from GET {BaseURL}/{id}, which must return a
// JSON [Payload].
type HTTPSource struct {
	BaseURL string
	Client  *httputil.Client
}

// NewHTTPSource returns an HTTPSource with a default client.
func NewHTTPSource(baseURL string) (*HTTPSource, error) {
	if err := rerrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	return &HTTPSource{BaseURL: baseURL, Client: httputil.NewClient(map[string]string{"Accept": "application/json"})}, nil
}

// Fetch implements [Source].
func (s *HTTPSource) Fetch(ctx context.Context, id string) (Payload, error) {
	u, err := httputil.JoinPath(s.BaseURL, id)
	if err != nil {
		return Payload{}, err
	}
	var p Payload
	if err := s.Client.Get(ctx, u, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// =============================================================================
// Redis
// =============================================================================

// hashes is the subset of redis.Cmdable used by RedisSource.
type hashes interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
}

// RedisSource reads each node's payload from the hash {Prefix}{id} with
// the fields:
//
//	markup   the content markup
//	styles   JSON array of style fragments (optional)
//	any other field is returned in Payload.Meta
type RedisSource struct {
	Prefix string
	client hashes
}

// DefaultRedisPrefix namespaces content hashes.
const DefaultRedisPrefix = "radiant:content:"

// NewRedisSource returns a RedisSource over client, which is usually a
// *redis.Client or *redis.ClusterClient.
func NewRedisSource(client redis.Cmdable, prefix string) *RedisSource {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisSource{Prefix: prefix, client: client}
}

// Fetch implements [Source].
func (s *RedisSource) Fetch(ctx context.Context, id string) (Payload, error) {
	fields, err := s.client.HGetAll(ctx, s.Prefix+id).Result()
	if err != nil {
		return Payload{}, rerrors.Wrap(rerrors.ErrCodeNetwork, err, "redis HGETALL %s%s", s.Prefix, id)
	}
	if len(fields) == 0 {
		return Payload{}, rerrors.New(rerrors.ErrCodeNotFound, "no content for %s", id)
	}

	p := Payload{ID: id, Markup: fields["markup"]}
	if raw, ok := fields["styles"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Styles); err != nil {
			return Payload{}, rerrors.Wrap(rerrors.ErrCodeInvalidInput, err, "styles for %s", id)
		}
	}
	for k, v := range fields {
		if k == "markup" || k == "styles" {
			continue
		}
		if p.Meta == nil {
			p.Meta = make(map[string]string)
		}
		p.Meta[k] = v
	}
	return p, nil
}

// Store writes p to Redis in the layout Fetch expects.
func (s *RedisSource) Store(ctx context.Context, p Payload) error {
	values := map[string]any{"markup": p.Markup}
	if len(p.Styles) > 0 {
		raw, err := json.Marshal(p.Styles)
		if err != nil {
			return err
		}
		values["styles"] = string(raw)
	}
	for k, v := range p.Meta {
		values[k] = v
	}
	return s.client.HSet(ctx, s.Prefix+p.ID, values).Err()
}

// =============================================================================
// File system
// =============================================================================

// FSSource reads {id}.html as markup and, if present, {id}.css as the single
// style fragment.
type FSSource struct {
	FS fs.FS
}

// Fetch implements [Source].
func (s FSSource) Fetch(_ context.Context, id string) (Payload, error) {
	if !fs.ValidPath(id) || strings.Contains(id, "/") {
		return Payload{}, rerrors.New(rerrors.ErrCodeInvalidInput, "invalid content id %q", id)
	}
	markup, err := fs.ReadFile(s.FS, id+".html")
	if errors.Is(err, fs.ErrNotExist) {
		return Payload{}, rerrors.New(rerrors.ErrCodeNotFound, "no content for %s", id)
	}
	if err != nil {
		return Payload{}, err
	}

	p := Payload{ID: id, Markup: string(markup)}
	css, err := fs.ReadFile(s.FS, id+".css")
	switch {
	case err == nil:
		p.Styles = []string{string(css)}
	case !errors.Is(err, fs.ErrNotExist):
		return Payload{}, err
	}
	return p, nil
}
