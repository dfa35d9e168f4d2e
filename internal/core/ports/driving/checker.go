package driving

import (
	"context"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// PlagiarismChecker checks a post against the web.
type PlagiarismChecker interface {
	// CheckPost searches for near-duplicates of the post and ranks the
	// on-site candidates found. An empty result means no evidence was found.
	CheckPost(ctx context.Context, post *domain.Post) (*domain.RankedMatches, error)

	// LoadPost fetches an answer by id, ready to be checked.
	LoadPost(ctx context.Context, answerID int) (*domain.Post, error)

	// SearchTerms returns the terms CheckPost would search for.
	SearchTerms(post *domain.Post) (domain.SearchTerms, error)
}
