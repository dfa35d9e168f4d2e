package driven

import (
	"context"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// SearchProvider runs web searches.
// Backed by Google Custom Search.
type SearchProvider interface {
	// Query searches the web and returns hits in relevance order.
	// exactPhrase may be empty. Quota refusals must be reported as
	// *domain.QuotaError and transport failures as *domain.ExternalError.
	Query(ctx context.Context, query, exactPhrase string) ([]domain.SearchItem, error)
}
