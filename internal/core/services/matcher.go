package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

// Matcher scores candidates against an original post.
type Matcher struct {
	segmenter  driven.Segmenter
	similarity driven.TextSimilarity
	settings   domain.MatcherSettings
	pool       *ants.Pool
}

// NewMatcher creates a matcher. When pool is nil candidates are scored
// sequentially on the calling goroutine.
func NewMatcher(
	segmenter driven.Segmenter,
	similarity driven.TextSimilarity,
	settings domain.MatcherSettings,
	pool *ants.Pool,
) *Matcher {
	return &Matcher{
		segmenter:  segmenter,
		similarity: similarity,
		settings:   settings,
		pool:       pool,
	}
}

// MatchesForReasons compares the original post with every candidate and
// returns one match per candidate, best first.
//
// With includeAllReasons false, a candidate stops being scored as soon as
// it provably cannot reach the report threshold; it is returned Partial
// with a zero total. Candidates at or above the threshold are always
// scored in full, so the reported ranking is the same either way.
func (m *Matcher) MatchesForReasons(
	ctx context.Context, original *domain.Post, candidates []domain.Post, includeAllReasons bool,
) ([]domain.PostMatch, error) {
	segs, err := m.segmenter.Segment(original)
	if err != nil {
		return nil, fmt.Errorf("segment original: %w", err)
	}
	return m.match(ctx, original, segs, candidates, includeAllReasons)
}

// match scores candidates against an original whose segments are known.
func (m *Matcher) match(
	ctx context.Context,
	original *domain.Post,
	segs domain.Segments,
	candidates []domain.Post,
	includeAllReasons bool,
) ([]domain.PostMatch, error) {
	if len(candidates) == 0 {
		return []domain.PostMatch{}, nil
	}

	reasons := m.orderedReasons()
	matches := make([]domain.PostMatch, len(candidates))

	// Each task writes only its own slot.
	var wg sync.WaitGroup
	for i := range candidates {
		task := func() {
			defer wg.Done()
			matches[i] = m.score(ctx, original, segs, candidates[i], reasons, includeAllReasons)
		}

		wg.Add(1)
		if m.pool == nil {
			task()
			continue
		}
		if err := m.pool.Submit(task); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit scoring task: %w", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: scoring: %w", domain.ErrCheckIncomplete, err)
	}

	domain.SortMatches(matches)
	return matches, nil
}

// score computes every reason for one candidate. A panic in the segmenter
// or the metric marks the candidate unusable instead of losing its slot.
func (m *Matcher) score(
	ctx context.Context,
	original *domain.Post,
	segs domain.Segments,
	candidate domain.Post,
	reasons []domain.Reason,
	includeAllReasons bool,
) (match domain.PostMatch) {
	match = domain.PostMatch{Original: *original, Candidate: candidate}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Skipping candidate %d: scoring panicked: %v", candidate.AnswerID, r)
			match = unusable(match, fmt.Errorf("scoring panicked: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return unusable(match, err)
	}

	candidateSegs, err := m.segmenter.Segment(&candidate)
	if err != nil {
		logger.Warn("Skipping candidate %d: %v", candidate.AnswerID, err)
		return unusable(match, err)
	}

	var applicable float64
	for _, r := range reasons {
		if r.Pick(segs) != "" && r.Pick(candidateSegs) != "" {
			applicable += m.settings.Weight(r)
		}
	}

	var weighted float64
	remaining := applicable
	for _, r := range reasons {
		a, b := r.Pick(segs), r.Pick(candidateSegs)
		if a == "" || b == "" {
			match.Reasons = append(match.Reasons, domain.ReasonScore{Reason: r})
			continue
		}

		// Best case: every remaining reason scores 1.
		if !includeAllReasons && (weighted+remaining)/applicable < m.settings.ReportThreshold {
			match.Partial = true
			break
		}

		s, err := m.compare(a, b)
		if err != nil {
			logger.Warn("Skipping candidate %d: %s: %v", candidate.AnswerID, r, err)
			return unusable(match, err)
		}

		w := m.settings.Weight(r)
		weighted += w * s
		remaining -= w
		match.Reasons = append(match.Reasons, domain.ReasonScore{Reason: r, Score: s, Applicable: true})
	}

	if !match.Partial && applicable > 0 {
		match.Total = weighted / applicable
	}
	match.Candidate.Score = match.Total
	return match
}

// compare runs the similarity metric, turning panics and out-of-range
// scores into errors.
func (m *Matcher) compare(a, b string) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("similarity panicked: %v", r)
		}
	}()

	score = m.similarity.Similarity(a, b)
	if math.IsNaN(score) || score < 0 || score > 1 {
		return 0, fmt.Errorf("similarity out of range: %v", score)
	}
	return score, nil
}

// orderedReasons returns reasons with a positive weight, heaviest first.
func (m *Matcher) orderedReasons() []domain.Reason {
	var reasons []domain.Reason
	for _, r := range domain.AllReasons() {
		if m.settings.Weight(r) > 0 {
			reasons = append(reasons, r)
		}
	}
	sort.SliceStable(reasons, func(i, j int) bool {
		return m.settings.Weight(reasons[i]) > m.settings.Weight(reasons[j])
	})
	return reasons
}

func unusable(match domain.PostMatch, err error) domain.PostMatch {
	match.Unusable = true
	match.Reasons = nil
	match.Total = 0
	match.Candidate.Score = 0
	match.Err = fmt.Errorf("%w: answer %d: %w", domain.ErrUnusableCandidate, match.Candidate.AnswerID, err)
	return match
}
