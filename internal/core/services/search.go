package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

// SearchOrchestrator runs a web search for a post and classifies the hits.
// Provider responses are memoised per distinct terms for the orchestrator's
// lifetime, which is one check.
type SearchOrchestrator struct {
	provider driven.SearchProvider
	site     string

	mu    sync.Mutex
	cache map[domain.SearchTerms][]domain.SearchItem
}

// NewSearchOrchestrator creates an orchestrator for the given site host
// (e.g. "stackoverflow.com").
func NewSearchOrchestrator(provider driven.SearchProvider, site string) *SearchOrchestrator {
	return &SearchOrchestrator{
		provider: provider,
		site:     normaliseHost(site),
		cache:    make(map[domain.SearchTerms][]domain.SearchItem),
	}
}

// Search queries the provider once and returns the deduplicated hits in
// provider order. Zero hits is an empty result, not an error.
func (o *SearchOrchestrator) Search(
	ctx context.Context, post *domain.Post, terms domain.SearchTerms,
) (*domain.SearchResult, error) {
	result := &domain.SearchResult{Terms: terms}

	if o.provider == nil {
		return nil, &domain.ExternalError{Service: "search", Op: "query", Err: errors.New("search provider not configured")}
	}
	if strings.TrimSpace(terms.Query) == "" && strings.TrimSpace(terms.ExactPhrase) == "" {
		logger.Debug("Empty search terms for answer %d, skipping search", post.AnswerID)
		return result, nil
	}

	logger.Debug("Search: query=%q, exact=%q", terms.Query, terms.ExactPhrase)

	hits, err := o.query(ctx, terms)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, externalError("search", "query", err)
	}

	seenLinks := make(map[string]bool, len(hits))
	seenQuestions := make(map[int]bool)

	for _, hit := range hits {
		if hit.Link == "" || seenLinks[hit.Link] {
			continue
		}
		seenLinks[hit.Link] = true

		hit.OnSite = o.isOnSite(hit)
		hit.QuestionID = 0
		if hit.OnSite {
			if id, ok := domain.QuestionIDFromLink(hit.Link); ok {
				hit.QuestionID = id
				if !seenQuestions[id] {
					seenQuestions[id] = true
					result.QuestionIDs = append(result.QuestionIDs, id)
				}
			}
		}
		result.Items = append(result.Items, hit)
	}

	logger.Debug("Search: %d hits, %d on-site questions", len(result.Items), len(result.QuestionIDs))
	return result, nil
}

// query calls the provider at most once per distinct terms.
func (o *SearchOrchestrator) query(ctx context.Context, terms domain.SearchTerms) ([]domain.SearchItem, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if hits, ok := o.cache[terms]; ok {
		return hits, nil
	}
	hits, err := o.provider.Query(ctx, terms.Query, terms.ExactPhrase)
	if err != nil {
		return nil, err
	}
	o.cache[terms] = hits
	return hits, nil
}

// isOnSite reports whether a hit belongs to the protected site or one of
// its subdomains.
func (o *SearchOrchestrator) isOnSite(item domain.SearchItem) bool {
	host := ""
	if u, err := url.Parse(item.Link); err == nil {
		host = u.Hostname()
	}
	if host == "" {
		host = item.Site
	}
	host = normaliseHost(host)
	return host != "" && (host == o.site || strings.HasSuffix(host, "."+o.site))
}

func normaliseHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}

// externalError classifies a collaborator failure. Context expiry becomes
// ErrCheckIncomplete, already classified errors keep their kind and
// anything else is reported as the service being unavailable.
func externalError(service, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", domain.ErrCheckIncomplete, op, err)
	case domain.IsQuotaExceeded(err), errors.Is(err, domain.ErrExternalUnavailable):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return &domain.ExternalError{Service: service, Op: op, Err: err}
	}
}
