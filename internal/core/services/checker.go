package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driving"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

// Ensure CheckService implements the interface.
var _ driving.PlagiarismChecker = (*CheckService)(nil)

// CheckService runs the full plagiarism check: search, resolve, score.
type CheckService struct {
	provider   driven.SearchProvider
	lookup     driven.PostLookupService
	segmenter  driven.Segmenter
	similarity driven.TextSimilarity

	mu          sync.RWMutex
	settings    domain.MatcherSettings
	includeAll  bool
	pool        *ants.Pool
	releaseOnce sync.Once
}

// NewCheckService creates a check service and its scoring pool.
// Call Close to release the pool.
func NewCheckService(
	provider driven.SearchProvider,
	lookup driven.PostLookupService,
	segmenter driven.Segmenter,
	similarity driven.TextSimilarity,
	settings domain.MatcherSettings,
) (*CheckService, error) {
	if segmenter == nil || similarity == nil {
		return nil, fmt.Errorf("%w: segmenter and similarity are required", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(workers(settings))
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}

	return &CheckService{
		provider:   provider,
		lookup:     lookup,
		segmenter:  segmenter,
		similarity: similarity,
		settings:   settings,
		includeAll: true,
		pool:       pool,
	}, nil
}

// SetIncludeAllReasons controls the below-threshold short cut. Every
// reason is computed by default; passing false trades exhaustive scores
// for speed and only records a best match that reaches the threshold.
func (s *CheckService) SetIncludeAllReasons(includeAll bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.includeAll = includeAll
}

// Settings returns the active matcher settings.
func (s *CheckService) Settings() domain.MatcherSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Reload swaps in new matcher settings. Checks already running keep the
// settings they started with.
func (s *CheckService) Reload(settings domain.MatcherSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.pool.Tune(workers(settings))
	logger.Info("Matcher settings reloaded (threshold %.2f, %d workers)", settings.ReportThreshold, workers(settings))
	return nil
}

// Close releases the scoring pool.
func (s *CheckService) Close() {
	s.releaseOnce.Do(s.pool.Release)
}

// LoadPost fetches the answer to check.
func (s *CheckService) LoadPost(ctx context.Context, answerID int) (*domain.Post, error) {
	if answerID <= 0 {
		return nil, fmt.Errorf("%w: answer id must be positive", domain.ErrInvalidInput)
	}
	if s.lookup == nil {
		return nil, fmt.Errorf("%w: no post lookup configured", domain.ErrInvalidInput)
	}

	post, err := s.lookup.AnswerByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("answer %d: %w", answerID, domain.ErrNotFound)
		}
		return nil, externalError("stackexchange", "load answer", err)
	}
	return post, nil
}

// SearchTerms returns the terms CheckPost would search for.
func (s *CheckService) SearchTerms(post *domain.Post) (domain.SearchTerms, error) {
	segs, err := s.segmenter.Segment(post)
	if err != nil {
		return domain.SearchTerms{}, fmt.Errorf("segment post: %w", err)
	}
	return NewQueryBuilder(s.Settings()).Build(post, segs), nil
}

// CheckPost searches the web for near-duplicates of a post and ranks the
// on-site answers found. The check is bounded by ctx, or by the configured
// check timeout when ctx has no deadline.
func (s *CheckService) CheckPost(ctx context.Context, post *domain.Post) (*domain.RankedMatches, error) {
	if post == nil {
		return nil, fmt.Errorf("%w: nil post", domain.ErrMalformedPost)
	}

	s.mu.RLock()
	settings, includeAll := s.settings, s.includeAll
	s.mu.RUnlock()

	if _, ok := ctx.Deadline(); !ok && settings.CheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.CheckTimeout)
		defer cancel()
	}

	logger.Section("Plagiarism Check")
	logger.Debug("Answer: %d, question: %d", post.AnswerID, post.QuestionID)

	// Segments are derived once and shared read-only with the scorer.
	segs, err := s.segmenter.Segment(post)
	if err != nil {
		return nil, fmt.Errorf("segment post: %w", err)
	}
	if segs.Empty() {
		return nil, fmt.Errorf("%w: answer %d has no comparable text", domain.ErrMalformedPost, post.AnswerID)
	}

	terms := NewQueryBuilder(settings).Build(post, segs)
	result, err := NewSearchOrchestrator(s.provider, settings.Site).Search(ctx, post, terms)
	if err != nil {
		return nil, fmt.Errorf("check answer %d: %w", post.AnswerID, err)
	}

	ranked := &domain.RankedMatches{SearchResult: result, Matches: []domain.PostMatch{}}
	if result.Empty() {
		logger.Info("No search results for answer %d", post.AnswerID)
		return ranked, nil
	}

	candidates, err := NewCandidateResolver(s.lookup).ResolveCandidates(ctx, post, result.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("check answer %d: %w", post.AnswerID, err)
	}
	if len(candidates) == 0 {
		logger.Info("No related answers found for answer %d", post.AnswerID)
		return ranked, nil
	}

	matches, err := NewMatcher(s.segmenter, s.similarity, settings, s.pool).
		match(ctx, post, segs, candidates, includeAll)
	if err != nil {
		if errors.Is(err, ants.ErrPoolClosed) {
			return nil, fmt.Errorf("check answer %d: check service closed: %w", post.AnswerID, err)
		}
		return nil, fmt.Errorf("check answer %d: %w", post.AnswerID, err)
	}

	ranked.Matches = matches
	best := matches[0]
	// A short-circuited ranking is only exact at or above the threshold.
	if includeAll || best.Total >= settings.ReportThreshold {
		result.Match = &best
	}

	logger.Info("Best match for %d: answer %d, score %.3f", post.AnswerID, best.Candidate.AnswerID, best.Total)
	return ranked, nil
}

func workers(settings domain.MatcherSettings) int {
	if settings.Workers < 1 {
		return 1
	}
	return settings.Workers
}
