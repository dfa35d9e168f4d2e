package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatcherSettings(t *testing.T) {
	s := DefaultMatcherSettings()

	assert.NoError(t, s.Validate())
	assert.Equal(t, DefaultReportThreshold, s.ReportThreshold)
	assert.Equal(t, DefaultSite, s.Site)
	assert.Greater(t, s.Weight(ReasonCode), s.Weight(ReasonPlaintext))
	assert.Greater(t, s.Weight(ReasonPlaintext), s.Weight(ReasonQuotes))
	assert.GreaterOrEqual(t, s.Workers, 1)
}

func TestMatcherSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MatcherSettings)
	}{
		{"unknown reason", func(s *MatcherSettings) { s.Weights[Reason("title")] = 1 }},
		{"negative weight", func(s *MatcherSettings) { s.Weights[ReasonQuotes] = -0.1 }},
		{"all weights zero", func(s *MatcherSettings) {
			s.Weights = map[Reason]float64{ReasonCode: 0, ReasonPlaintext: 0}
		}},
		{"threshold above one", func(s *MatcherSettings) { s.ReportThreshold = 1.01 }},
		{"threshold negative", func(s *MatcherSettings) { s.ReportThreshold = -0.5 }},
		{"zero phrase length", func(s *MatcherSettings) { s.MinPhraseLength = 0 }},
		{"zero phrase words", func(s *MatcherSettings) { s.MaxPhraseWords = 0 }},
		{"no site", func(s *MatcherSettings) { s.Site = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultMatcherSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestMatcherSettings_WeightUnset(t *testing.T) {
	s := MatcherSettings{Weights: map[Reason]float64{ReasonCode: 1}}
	assert.Zero(t, s.Weight(ReasonQuotes))
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		in   string
		want Verdict
		ok   bool
	}{
		{"tp", VerdictTruePositive, true},
		{"K", VerdictTruePositive, true},
		{" fp ", VerdictFalsePositive, true},
		{"f", VerdictFalsePositive, true},
		{"maybe", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseVerdict(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
