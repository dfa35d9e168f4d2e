package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/guttenberg/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/services"
)

// mockChecker is a mock implementation of driving.PlagiarismChecker.
type mockChecker struct {
	posts      map[int]*domain.Post
	terms      domain.SearchTerms
	ranked     *domain.RankedMatches
	checkErr   error
	allReasons bool
}

func (m *mockChecker) LoadPost(_ context.Context, id int) (*domain.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return post, nil
}

func (m *mockChecker) SearchTerms(_ *domain.Post) (domain.SearchTerms, error) {
	return m.terms, nil
}

func (m *mockChecker) CheckPost(_ context.Context, _ *domain.Post) (*domain.RankedMatches, error) {
	return m.ranked, m.checkErr
}

func (m *mockChecker) SetIncludeAllReasons(v bool) {
	m.allReasons = v
}

type testServices struct {
	checker  *mockChecker
	config   *memory.ConfigStore
	settings *services.SettingsService
	feedback *services.FeedbackService
}

// setupTestServices wires mocks and in-memory stores into the commands.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		checker: &mockChecker{
			posts: map[int]*domain.Post{
				10: {AnswerID: 10, QuestionID: 5, Title: "Reverse a list"},
			},
			terms: domain.SearchTerms{Query: "Reverse a list python", ExactPhrase: "call reverse on the list"},
			ranked: &domain.RankedMatches{
				SearchResult: &domain.SearchResult{Items: []domain.SearchItem{
					{Title: "Reverse a list", Link: "https://stackoverflow.com/questions/8/reverse", QuestionID: 8, OnSite: true},
				}},
				Matches: []domain.PostMatch{
					{
						Candidate: domain.Post{AnswerID: 81, QuestionID: 8},
						Reasons: []domain.ReasonScore{
							{Reason: domain.ReasonCode, Score: 0.9, Applicable: true},
							{Reason: domain.ReasonPlaintext, Score: 0.7, Applicable: true},
						},
						Total: 0.8,
					},
					{Candidate: domain.Post{AnswerID: 82, QuestionID: 8}, Unusable: true, Err: domain.ErrUnusableCandidate},
				},
			},
		},
		config:   memory.NewConfigStore(),
		feedback: services.NewFeedbackService(memory.NewFeedbackStore()),
	}
	ts.settings = services.NewSettingsService(ts.config)
	ranked := ts.checker.ranked
	ranked.SearchResult.Match = &ranked.Matches[0]

	SetServices(&Services{
		Checker:  ts.checker,
		Feedback: ts.feedback,
		Settings: ts.settings,
		Site:     domain.DefaultSite,
	})
	t.Cleanup(func() {
		checkService = nil
		checkServiceErr = nil
		feedbackService = nil
		settingsService = nil
		watchConfig = nil
		closeServices = nil
		servicesReady = false
		site = domain.DefaultSite
	})
	return ts
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	checkMatches = 3
	checkJSON = false
	checkFast = false
	checkTimeout = 0
	feedbackReporter = ""
	listenName = "guttenberg"
	listenInput = ""
	listenReplyInterval = 0

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func requireOutput(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCommand(t, args...)
	require.NoError(t, err, out)
	return out
}
