package chat

import (
	"context"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// mockChecker is a mock implementation of driving.PlagiarismChecker.
type mockChecker struct {
	posts    map[int]*domain.Post
	loadErr  error
	terms    domain.SearchTerms
	ranked   *domain.RankedMatches
	checkErr error
	checked  []int
}

func (m *mockChecker) LoadPost(_ context.Context, id int) (*domain.Post, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	post, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return post, nil
}

func (m *mockChecker) SearchTerms(_ *domain.Post) (domain.SearchTerms, error) {
	return m.terms, nil
}

func (m *mockChecker) CheckPost(_ context.Context, post *domain.Post) (*domain.RankedMatches, error) {
	m.checked = append(m.checked, post.AnswerID)
	return m.ranked, m.checkErr
}

// mockFeedback is a mock implementation of driving.FeedbackService.
type mockFeedback struct {
	recorded []domain.Feedback
	err      error
}

func (m *mockFeedback) Record(_ context.Context, answerID int, verdict domain.Verdict, reporter string) (*domain.Feedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	fb := domain.Feedback{ID: "fb", AnswerID: answerID, Verdict: verdict, Reporter: reporter}
	m.recorded = append(m.recorded, fb)
	return &fb, nil
}

func (m *mockFeedback) History(_ context.Context, answerID int) ([]domain.Feedback, error) {
	var out []domain.Feedback
	for _, fb := range m.recorded {
		if fb.AnswerID == answerID {
			out = append(out, fb)
		}
	}
	return out, m.err
}
