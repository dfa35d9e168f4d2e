package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

// MaxLookupBatch is the most ids the lookup service accepts in one call.
const MaxLookupBatch = 100

// CandidateResolver turns on-site question ids into candidate answers.
type CandidateResolver struct {
	lookup driven.PostLookupService
}

// NewCandidateResolver creates a resolver backed by the lookup service.
func NewCandidateResolver(lookup driven.PostLookupService) *CandidateResolver {
	return &CandidateResolver{lookup: lookup}
}

// ResolveCandidates fetches every answer to the given questions in one
// batched call and drops the original answer. No ids means no candidates.
func (r *CandidateResolver) ResolveCandidates(
	ctx context.Context, original *domain.Post, questionIDs []int,
) ([]domain.Post, error) {
	ids := distinctIDs(questionIDs)
	if len(ids) == 0 {
		logger.Debug("No on-site questions to resolve")
		return []domain.Post{}, nil
	}
	if r.lookup == nil {
		return nil, &domain.ExternalError{Service: "lookup", Op: "answers", Err: errors.New("post lookup not configured")}
	}
	if len(ids) > MaxLookupBatch {
		logger.Warn("Resolving only the first %d of %d questions", MaxLookupBatch, len(ids))
		ids = ids[:MaxLookupBatch]
	}

	logger.Debug("Resolving answers for questions %s", domain.QuestionIDString(ids))

	answers, err := r.lookup.AnswersByQuestionIDs(ctx, ids)
	if err != nil {
		logger.Warn("Lookup failed: %v", err)
		return nil, externalError("lookup", "answers", err)
	}

	candidates := make([]domain.Post, 0, len(answers))
	seen := make(map[int]bool, len(answers))
	for i := range answers {
		id := answers[i].AnswerID
		if id == original.AnswerID || seen[id] {
			continue
		}
		seen[id] = true
		candidates = append(candidates, answers[i])
	}

	logger.Debug("Resolved %d candidates (%d answers returned)", len(candidates), len(answers))
	return candidates, nil
}

// distinctIDs drops non-positive and repeated ids, keeping first-seen order.
func distinctIDs(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
