package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/guttenberg/internal/adapters/driving/chat"
	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// defaultMatchLimit caps the matches returned by check_post.
const defaultMatchLimit = 5

// AnswerInput names the answer a tool works on.
type AnswerInput struct {
	AnswerID int    `json:"answer_id,omitempty" jsonschema:"the answer id to check"`
	Link     string `json:"link,omitempty" jsonschema:"an answer link, used when answer_id is not set"`
}

// CheckInput is the input schema for the check_post tool.
type CheckInput struct {
	AnswerID int    `json:"answer_id,omitempty" jsonschema:"the answer id to check"`
	Link     string `json:"link,omitempty" jsonschema:"an answer link, used when answer_id is not set"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of matches to return (default 5)"`
}

// CheckOutput is the output schema for the check_post tool.
type CheckOutput struct {
	AnswerID    int           `json:"answer_id"`
	Query       string        `json:"query"`
	ExactPhrase string        `json:"exact_phrase"`
	OnSite      *HitOutput    `json:"on_site,omitempty"`
	OffSite     *HitOutput    `json:"off_site,omitempty"`
	Matches     []MatchOutput `json:"matches"`
	Summary     string        `json:"summary"`
}

// HitOutput is a web search hit with its 1-based position.
type HitOutput struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Position int    `json:"position"`
	SamePost bool   `json:"same_post,omitempty"`
}

// MatchOutput is one scored candidate answer.
type MatchOutput struct {
	AnswerID int                `json:"answer_id"`
	Link     string             `json:"link"`
	Score    float64            `json:"score"`
	Reasons  map[string]float64 `json:"reasons,omitempty"`
	Partial  bool               `json:"partial,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// TermsOutput is the output schema for the search_terms tool.
type TermsOutput struct {
	AnswerID    int    `json:"answer_id"`
	Query       string `json:"query"`
	ExactPhrase string `json:"exact_phrase"`
}

// FeedbackInput is the input schema for the record_feedback tool.
type FeedbackInput struct {
	AnswerID int    `json:"answer_id,omitempty" jsonschema:"the answer id the verdict is for"`
	Link     string `json:"link,omitempty" jsonschema:"an answer link, used when answer_id is not set"`
	Verdict  string `json:"verdict" jsonschema:"tp when the answer is plagiarised, fp otherwise"`
	Reporter string `json:"reporter,omitempty" jsonschema:"who gives the verdict"`
}

// FeedbackOutput is the output schema for the record_feedback tool.
type FeedbackOutput struct {
	ID       string `json:"id"`
	AnswerID int    `json:"answer_id"`
	Verdict  string `json:"verdict"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_post",
		Description: "Search the web for copies of a Stack Exchange answer and rank similar answers",
	}, s.handleCheckPost)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_terms",
		Description: "Show the web search query and exact phrase derived from an answer",
	}, s.handleSearchTerms)

	if s.ports.Feedback != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "record_feedback",
			Description: "Record a true or false positive verdict for a checked answer",
		}, s.handleRecordFeedback)
	}
}

// resolveAnswerID returns the answer named by an id or a link.
func resolveAnswerID(answerID int, link string) (int, error) {
	if answerID > 0 {
		return answerID, nil
	}
	if link != "" {
		if id, ok := domain.ParseAnswerID(link); ok {
			return id, nil
		}
		return 0, fmt.Errorf("%w: no answer id in %q", ErrMissingAnswer, link)
	}
	return 0, ErrMissingAnswer
}

// handleCheckPost handles the check_post tool invocation.
func (s *Server) handleCheckPost(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	id, err := resolveAnswerID(input.AnswerID, input.Link)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	post, err := s.ports.Checker.LoadPost(ctx, id)
	if err != nil {
		return nil, CheckOutput{}, err
	}
	terms, err := s.ports.Checker.SearchTerms(post)
	if err != nil {
		return nil, CheckOutput{}, err
	}
	ranked, err := s.ports.Checker.CheckPost(ctx, post)
	if err != nil {
		return nil, CheckOutput{}, fmt.Errorf("%s: %w", chat.ErrorReply(err), err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultMatchLimit
	}

	output := CheckOutput{
		AnswerID:    post.AnswerID,
		Query:       terms.Query,
		ExactPhrase: terms.ExactPhrase,
		Matches:     make([]MatchOutput, 0, min(limit, len(ranked.Matches))),
		Summary:     chat.FormatReport(post, ranked, s.ports.Site),
	}

	result := ranked.SearchResult
	if hit := result.BestOnSite(); hit != nil {
		output.OnSite = &HitOutput{Title: hit.Title, Link: hit.Link, Position: result.Position(hit.Link), SamePost: hit.IsPost(post)}
	}
	if hit := result.BestOffSite(); hit != nil {
		output.OffSite = &HitOutput{Title: hit.Title, Link: hit.Link, Position: result.Position(hit.Link)}
	}

	for i := range ranked.Matches {
		if i == limit {
			break
		}
		output.Matches = append(output.Matches, toMatchOutput(&ranked.Matches[i], s.ports.Site))
	}

	return nil, output, nil
}

func toMatchOutput(m *domain.PostMatch, site string) MatchOutput {
	out := MatchOutput{
		AnswerID: m.Candidate.AnswerID,
		Link:     m.Candidate.Link(site),
		Score:    m.Total,
		Partial:  m.Partial,
	}
	if m.Err != nil {
		out.Error = m.Err.Error()
	}
	for _, rs := range m.Reasons {
		if !rs.Applicable {
			continue
		}
		if out.Reasons == nil {
			out.Reasons = make(map[string]float64)
		}
		out.Reasons[rs.Reason.String()] = rs.Score
	}
	return out
}

// handleSearchTerms handles the search_terms tool invocation.
func (s *Server) handleSearchTerms(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerInput,
) (*mcp.CallToolResult, TermsOutput, error) {
	id, err := resolveAnswerID(input.AnswerID, input.Link)
	if err != nil {
		return nil, TermsOutput{}, err
	}

	post, err := s.ports.Checker.LoadPost(ctx, id)
	if err != nil {
		return nil, TermsOutput{}, err
	}
	terms, err := s.ports.Checker.SearchTerms(post)
	if err != nil {
		return nil, TermsOutput{}, err
	}

	return nil, TermsOutput{AnswerID: id, Query: terms.Query, ExactPhrase: terms.ExactPhrase}, nil
}

// handleRecordFeedback handles the record_feedback tool invocation.
func (s *Server) handleRecordFeedback(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FeedbackInput,
) (*mcp.CallToolResult, FeedbackOutput, error) {
	id, err := resolveAnswerID(input.AnswerID, input.Link)
	if err != nil {
		return nil, FeedbackOutput{}, err
	}
	verdict, ok := domain.ParseVerdict(input.Verdict)
	if !ok {
		return nil, FeedbackOutput{}, fmt.Errorf("%w: verdict must be tp or fp", domain.ErrInvalidInput)
	}

	reporter := input.Reporter
	if reporter == "" {
		reporter = "mcp"
	}

	fb, err := s.ports.Feedback.Record(ctx, id, verdict, reporter)
	if err != nil {
		return nil, FeedbackOutput{}, err
	}

	return nil, FeedbackOutput{ID: fb.ID, AnswerID: fb.AnswerID, Verdict: string(fb.Verdict)}, nil
}
