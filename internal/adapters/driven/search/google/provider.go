package google

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.SearchProvider = (*Provider)(nil)

// maxResults is the most results Custom Search returns per request.
const maxResults = 10

// Config configures the Custom Search provider.
type Config struct {
	// APIKey is the Custom Search JSON API key.
	APIKey string
	// CX is the programmable search engine id.
	CX string
	// RateLimit throttles requests. Zero uses DefaultRateLimit.
	RateLimit RateLimitConfig
}

// Provider is a driven.SearchProvider backed by the Google Custom Search
// JSON API.
type Provider struct {
	svc     *customsearch.Service
	cx      string
	limiter *RateLimiter
	log     logger.Scope
}

// NewProvider creates a Custom Search provider. Extra client options are
// appended after the API key, so tests can point it at a local server.
func NewProvider(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Provider, error) {
	if cfg.APIKey == "" || cfg.CX == "" {
		return nil, fmt.Errorf("%w: google.api_key and google.cx are required", domain.ErrMissingCredentials)
	}

	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}

	rl := cfg.RateLimit
	if rl.RequestsPerSecond <= 0 || rl.BurstSize <= 0 {
		rl = DefaultRateLimit
	}

	return &Provider{
		svc:     svc,
		cx:      cfg.CX,
		limiter: NewRateLimiter(rl),
		log:     logger.For("google"),
	}, nil
}

// Query runs one search. The exact phrase is sent as exactTerms so the
// engine only returns pages containing it verbatim.
func (p *Provider) Query(ctx context.Context, query, exactPhrase string) ([]domain.SearchItem, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	call := p.svc.Cse.List().Cx(p.cx).Num(maxResults).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	if exactPhrase != "" {
		call = call.ExactTerms(exactPhrase)
	}

	res, err := call.Do()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		wrapped := WrapError("cse.list", err)
		var quota *domain.QuotaError
		if errors.As(wrapped, &quota) {
			p.limiter.RecordBackoff(quota.RetryAfter)
		}
		p.log.Warn("search failed: %v", wrapped)
		return nil, wrapped
	}

	items := make([]domain.SearchItem, 0, len(res.Items))
	for _, r := range res.Items {
		if r == nil || r.Link == "" {
			continue
		}
		items = append(items, domain.SearchItem{
			Title: r.Title,
			Link:  r.Link,
			Site:  displaySite(r.DisplayLink, r.Link),
		})
	}

	p.log.Debug("%d results for %q", len(items), query)
	return items, nil
}

// displaySite prefers the API's display link and falls back to the URL host.
func displaySite(displayLink, link string) string {
	if displayLink != "" {
		return strings.TrimPrefix(displayLink, "www.")
	}
	if u, err := url.Parse(link); err == nil {
		return strings.TrimPrefix(u.Hostname(), "www.")
	}
	return ""
}
