package domain

import "sort"

// Reason names one similarity signal contributing to a match.
type Reason string

// Similarity reasons. Each compares one segment of the original with the
// same segment of the candidate.
const (
	ReasonCode      Reason = "code"
	ReasonPlaintext Reason = "plaintext"
	ReasonQuotes    Reason = "quotes"
)

// AllReasons returns every reason in a stable order.
func AllReasons() []Reason {
	return []Reason{ReasonCode, ReasonPlaintext, ReasonQuotes}
}

// IsValid returns true if the reason is recognised.
func (r Reason) IsValid() bool {
	switch r {
	case ReasonCode, ReasonPlaintext, ReasonQuotes:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Reason) String() string {
	return string(r)
}

// Pick returns the segment this reason compares.
func (r Reason) Pick(s Segments) string {
	switch r {
	case ReasonCode:
		return s.Code
	case ReasonPlaintext:
		return s.Plain
	case ReasonQuotes:
		return s.Quotes
	default:
		return ""
	}
}

// ReasonScore is the score of one reason for one candidate.
type ReasonScore struct {
	// Reason is the signal name.
	Reason Reason

	// Score is the similarity in [0, 1].
	Score float64

	// Applicable is false when either side's segment was empty.
	Applicable bool
}

// PostMatch is a scored pairing of the original post and a candidate.
type PostMatch struct {
	// Original is the post being checked.
	Original Post

	// Candidate is the compared post; Candidate.Score equals Total.
	Candidate Post

	// Reasons holds every computed reason score.
	Reasons []ReasonScore

	// Total is the weighted aggregate of applicable reasons.
	Total float64

	// Partial is true when scoring stopped early because the candidate
	// could not reach the report threshold. Total is zero in that case.
	Partial bool

	// Unusable is true when the candidate could not be segmented or compared.
	Unusable bool

	// Err describes why the candidate was unusable.
	Err error
}

// ReasonScore returns the score recorded for a reason.
func (m *PostMatch) ReasonScore(r Reason) (ReasonScore, bool) {
	for _, rs := range m.Reasons {
		if rs.Reason == r {
			return rs, true
		}
	}
	return ReasonScore{}, false
}

// Less orders matches by total score descending, then candidate answer id
// ascending.
func (m *PostMatch) Less(other *PostMatch) bool {
	if m.Total != other.Total {
		return m.Total > other.Total
	}
	return m.Candidate.AnswerID < other.Candidate.AnswerID
}

// SortMatches ranks matches in place.
func SortMatches(matches []PostMatch) {
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Less(&matches[j])
	})
}

// RankedMatches is the outcome of checking one post.
type RankedMatches struct {
	// SearchResult is the web search that produced the candidates.
	SearchResult *SearchResult

	// Matches are ranked best first.
	Matches []PostMatch
}

// Best returns the top match, or nil if there are no matches.
func (r *RankedMatches) Best() *PostMatch {
	if r == nil || len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// Reported returns the matches at or above the threshold.
func (r *RankedMatches) Reported(threshold float64) []PostMatch {
	if r == nil {
		return nil
	}
	var out []PostMatch
	for i := range r.Matches {
		if r.Matches[i].Total >= threshold && !r.Matches[i].Unusable {
			out = append(out, r.Matches[i])
		}
	}
	return out
}
