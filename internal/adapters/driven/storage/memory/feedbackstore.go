package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
)

// Ensure FeedbackStore implements the interface.
var _ driven.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore is an in-memory implementation of driven.FeedbackStore.
type FeedbackStore struct {
	mu    sync.RWMutex
	items []domain.Feedback
}

// NewFeedbackStore creates a new in-memory feedback store.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{}
}

// Save stores a verdict. A verdict with an existing ID replaces it.
func (s *FeedbackStore) Save(_ context.Context, feedback domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == feedback.ID {
			s.items[i] = feedback
			return nil
		}
	}
	s.items = append(s.items, feedback)
	return nil
}

// ListByAnswer returns all verdicts for an answer, oldest first.
func (s *FeedbackStore) ListByAnswer(_ context.Context, answerID int) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Feedback, 0)
	for _, fb := range s.items {
		if fb.AnswerID == answerID {
			result = append(result, fb)
		}
	}
	sortOldestFirst(result)
	return result, nil
}

// List returns every stored verdict, oldest first.
func (s *FeedbackStore) List(_ context.Context) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Feedback, len(s.items))
	copy(result, s.items)
	sortOldestFirst(result)
	return result, nil
}

func sortOldestFirst(items []domain.Feedback) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
