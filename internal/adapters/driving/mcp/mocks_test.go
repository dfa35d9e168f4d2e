package mcp

import (
	"context"
	"sort"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// mockChecker is a mock implementation of driving.PlagiarismChecker.
type mockChecker struct {
	post     *domain.Post
	terms    domain.SearchTerms
	ranked   *domain.RankedMatches
	loadErr  error
	checkErr error
}

func (m *mockChecker) LoadPost(_ context.Context, id int) (*domain.Post, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.post == nil || m.post.AnswerID != id {
		return nil, domain.ErrNotFound
	}
	return m.post, nil
}

func (m *mockChecker) SearchTerms(_ *domain.Post) (domain.SearchTerms, error) {
	return m.terms, nil
}

func (m *mockChecker) CheckPost(_ context.Context, _ *domain.Post) (*domain.RankedMatches, error) {
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
	fb := domain.Feedback{ID: "fb-1", AnswerID: answerID, Verdict: verdict, Reporter: reporter}
	m.recorded = append(m.recorded, fb)
	return &fb, nil
}

func (m *mockFeedback) History(_ context.Context, answerID int) ([]domain.Feedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Feedback, 0)
	for _, fb := range m.recorded {
		if fb.AnswerID == answerID {
			out = append(out, fb)
		}
	}
	return out, nil
}

// mockSettings is a mock implementation of driving.SettingsService.
type mockSettings struct {
	values map[string]string
}

func (m *mockSettings) Matcher() (domain.MatcherSettings, error) {
	return domain.DefaultMatcherSettings(), nil
}

func (m *mockSettings) Value(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockSettings) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *mockSettings) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
