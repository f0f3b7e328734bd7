package source

import (
	"context"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/httputil"
)

// HTTPSource fetches GET {BaseURL}/{category} as a JSON document.
type HTTPSource struct {
	BaseURL string
	Client  *httputil.Client
}

// NewHTTPSource returns an HTTPSource with a default client.
func NewHTTPSource(baseURL string) (*HTTPSource, error) {
	if err := rerrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  httputil.NewClient(map[string]string{"Accept": "application/json"}),
	}, nil
}

// Load implements [DataSource].
func (s *HTTPSource) Load(ctx context.Context, category string) (hierarchy.Document, error) {
	if err := rerrors.ValidateCategory(category); err != nil {
		return hierarchy.Document{}, err
	}
	u, err := httputil.JoinPath(s.BaseURL, category)
	if err != nil {
		return hierarchy.Document{}, err
	}
	var doc hierarchy.Document
	if err := s.Client.Get(ctx, u, &doc); err != nil {
		return hierarchy.Document{}, err
	}
	return doc, nil
}
