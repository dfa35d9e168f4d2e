package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// mockSearchProvider returns canned hits and counts calls.
type mockSearchProvider struct {
	mu    sync.Mutex
	items []domain.SearchItem
	err   error
	calls int
}

func (m *mockSearchProvider) Query(_ context.Context, _, _ string) ([]domain.SearchItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

// mockLookup returns answers keyed by question id.
type mockLookup struct {
	mu      sync.Mutex
	answers map[int][]domain.Post
	err     error
	calls   int
	lastIDs []int
}

func (m *mockLookup) AnswersByQuestionIDs(_ context.Context, ids []int) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastIDs = append([]int(nil), ids...)
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Post
	for _, id := range ids {
		out = append(out, m.answers[id]...)
	}
	return out, nil
}

func (m *mockLookup) AnswerByID(_ context.Context, id int) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, posts := range m.answers {
		for i := range posts {
			if posts[i].AnswerID == id {
				p := posts[i]
				return &p, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// mockSegmenter returns fixed segments per answer id.
type mockSegmenter struct {
	segments map[int]domain.Segments
	failing  map[int]bool
	panics   map[int]bool
}

func (m *mockSegmenter) Segment(p *domain.Post) (domain.Segments, error) {
	if m.panics[p.AnswerID] {
		panic("segmenter exploded")
	}
	if m.failing[p.AnswerID] {
		return domain.Segments{}, domain.ErrMalformedPost
	}
	return m.segments[p.AnswerID], nil
}

// tokenSimilarity is the Jaccard overlap of whitespace-separated tokens,
// which keeps expected scores easy to compute by hand.
type tokenSimilarity struct {
	mu    sync.Mutex
	calls int
	panic string
}

func (s *tokenSimilarity) Similarity(a, b string) float64 {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.panic != "" && (strings.Contains(a, s.panic) || strings.Contains(b, s.panic)) {
		panic("boom")
	}

	setA := make(map[string]bool)
	for _, w := range strings.Fields(a) {
		setA[w] = true
	}
	setB := make(map[string]bool)
	for _, w := range strings.Fields(b) {
		setB[w] = true
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	inter := 0
	for w := range setA {
		if setB[w] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// mockFeedbackStore records saved feedback.
type mockFeedbackStore struct {
	saved []domain.Feedback
	err   error
}

func (m *mockFeedbackStore) Save(_ context.Context, fb domain.Feedback) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, fb)
	return nil
}

func (m *mockFeedbackStore) ListByAnswer(_ context.Context, answerID int) ([]domain.Feedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Feedback
	for _, fb := range m.saved {
		if fb.AnswerID == answerID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (m *mockFeedbackStore) List(_ context.Context) ([]domain.Feedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.saved, nil
}

var errTransport = errors.New("connection reset by peer")

func testSettings() domain.MatcherSettings {
	settings := domain.DefaultMatcherSettings()
	settings.Workers = 4
	return settings
}

func onSiteHit(questionID int, title string) domain.SearchItem {
	return domain.SearchItem{
		Title: title,
		Link:  "https://stackoverflow.com/questions/" + strconv.Itoa(questionID) + "/" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		Site:  "stackoverflow.com",
	}
}
