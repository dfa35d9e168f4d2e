package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driving"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

// Ensure FeedbackService implements the interface.
var _ driving.FeedbackService = (*FeedbackService)(nil)

// FeedbackService records reviewer verdicts on reports.
type FeedbackService struct {
	store driven.FeedbackStore
	now   func() time.Time
}

// NewFeedbackService creates a feedback service backed by the store.
func NewFeedbackService(store driven.FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store, now: time.Now}
}

// Record stores a verdict for an answer.
func (s *FeedbackService) Record(
	ctx context.Context, answerID int, verdict domain.Verdict, reporter string,
) (*domain.Feedback, error) {
	if s.store == nil {
		return nil, errors.New("feedback store not configured")
	}
	if answerID <= 0 {
		return nil, fmt.Errorf("%w: answer id must be positive", domain.ErrInvalidInput)
	}
	if verdict != domain.VerdictTruePositive && verdict != domain.VerdictFalsePositive {
		return nil, fmt.Errorf("%w: unknown verdict %q", domain.ErrInvalidInput, verdict)
	}

	fb := domain.Feedback{
		ID:        uuid.New().String(),
		AnswerID:  answerID,
		Verdict:   verdict,
		Reporter:  reporter,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, fb); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	logger.Debug("Recorded %s for answer %d", verdict, answerID)
	return &fb, nil
}

// History returns the verdicts recorded for an answer, oldest first.
func (s *FeedbackService) History(ctx context.Context, answerID int) ([]domain.Feedback, error) {
	if s.store == nil {
		return nil, errors.New("feedback store not configured")
	}
	items, err := s.store.ListByAnswer(ctx, answerID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}
