package driven

import (
	"context"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// PostLookupService fetches answers from the Q&A site.
// Backed by the Stack Exchange API.
type PostLookupService interface {
	// AnswersByQuestionIDs returns the answers to all the given questions in
	// a single batched request.
	AnswersByQuestionIDs(ctx context.Context, questionIDs []int) ([]domain.Post, error)

	// AnswerByID returns one answer. Returns domain.ErrNotFound if it does
	// not exist or was deleted.
	AnswerByID(ctx context.Context, answerID int) (*domain.Post, error)
}
