package domain

import (
	"fmt"
	"runtime"
	"time"
)

// Default matcher settings.
const (
	DefaultReportThreshold = 0.8
	DefaultMinPhraseLength = 40
	DefaultMaxPhraseWords  = 32
	DefaultSite            = "stackoverflow.com"
	DefaultCheckTimeout    = 60 * time.Second
)

// MatcherSettings is the configuration surface of the check engine.
type MatcherSettings struct {
	// Weights are the per-reason weights used to aggregate a total score.
	// A reason with zero weight is not computed.
	Weights map[Reason]float64

	// ReportThreshold is the total score at which a match is reported.
	ReportThreshold float64

	// MinPhraseLength is the minimum length in characters of the exact
	// phrase picked by the query builder.
	MinPhraseLength int

	// MaxPhraseWords caps the exact phrase length in words.
	MaxPhraseWords int

	// Workers is the scoring pool size.
	Workers int

	// Site is the host of the protected Q&A site.
	Site string

	// CheckTimeout bounds a whole check when the caller sets no deadline.
	CheckTimeout time.Duration
}

// DefaultMatcherSettings returns settings with sensible defaults.
// Code carries the most weight since copied answers usually keep code verbatim.
func DefaultMatcherSettings() MatcherSettings {
	return MatcherSettings{
		Weights: map[Reason]float64{
			ReasonCode:      1.0,
			ReasonPlaintext: 0.8,
			ReasonQuotes:    0.5,
		},
		ReportThreshold: DefaultReportThreshold,
		MinPhraseLength: DefaultMinPhraseLength,
		MaxPhraseWords:  DefaultMaxPhraseWords,
		Workers:         runtime.NumCPU(),
		Site:            DefaultSite,
		CheckTimeout:    DefaultCheckTimeout,
	}
}

// Weight returns the weight of a reason, zero if unset.
func (s MatcherSettings) Weight(r Reason) float64 {
	return s.Weights[r]
}

// Validate checks the settings for values the engine cannot work with.
func (s MatcherSettings) Validate() error {
	var total float64
	for r, w := range s.Weights {
		if !r.IsValid() {
			return fmt.Errorf("%w: unknown reason %q", ErrInvalidInput, r)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative weight for %s", ErrInvalidInput, r)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: at least one reason weight must be positive", ErrInvalidInput)
	}
	if s.ReportThreshold < 0 || s.ReportThreshold > 1 {
		return fmt.Errorf("%w: report threshold must be within [0, 1]", ErrInvalidInput)
	}
	if s.MinPhraseLength < 1 {
		return fmt.Errorf("%w: min phrase length must be positive", ErrInvalidInput)
	}
	if s.MaxPhraseWords < 1 {
		return fmt.Errorf("%w: max phrase words must be positive", ErrInvalidInput)
	}
	if s.Site == "" {
		return fmt.Errorf("%w: site is required", ErrInvalidInput)
	}
	return nil
}
