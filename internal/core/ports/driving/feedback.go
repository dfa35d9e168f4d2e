package driving

import (
	"context"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// FeedbackService records reviewer verdicts on reports.
type FeedbackService interface {
	// Record stores a verdict for an answer.
	Record(ctx context.Context, answerID int, verdict domain.Verdict, reporter string) (*domain.Feedback, error)

	// History returns the verdicts recorded for an answer.
	History(ctx context.Context, answerID int) ([]domain.Feedback, error)
}
