package driven

import (
	"context"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// FeedbackStore persists reviewer verdicts.
type FeedbackStore interface {
	// Save stores a verdict.
	Save(ctx context.Context, feedback domain.Feedback) error

	// ListByAnswer returns all verdicts for an answer, oldest first.
	ListByAnswer(ctx context.Context, answerID int) ([]domain.Feedback, error)

	// List returns every stored verdict, oldest first.
	List(ctx context.Context) ([]domain.Feedback, error)
}
