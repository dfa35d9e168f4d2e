// Package similarity provides TextSimilarity implementations.
package similarity

import (
	"unicode/utf8"

	"github.com/xrash/smetrics"

	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
)

// Ensure JaroWinkler implements the interface.
var _ driven.TextSimilarity = (*JaroWinkler)(nil)

const (
	// DefaultBoostThreshold is the Jaro score above which the common prefix boost applies.
	DefaultBoostThreshold = 0.7

	// DefaultPrefixSize is the maximum common prefix length rewarded.
	DefaultPrefixSize = 4

	// DefaultMaxLength caps compared text in bytes. Jaro is quadratic in
	// the worst case and answers can be long.
	DefaultMaxLength = 8000
)

// JaroWinkler scores strings with the Jaro-Winkler distance.
type JaroWinkler struct {
	boostThreshold float64
	prefixSize     int
	maxLength      int
}

// NewJaroWinkler creates a Jaro-Winkler scorer with default parameters.
func NewJaroWinkler() *JaroWinkler {
	return &JaroWinkler{
		boostThreshold: DefaultBoostThreshold,
		prefixSize:     DefaultPrefixSize,
		maxLength:      DefaultMaxLength,
	}
}

// Similarity returns a score in [0, 1].
func (j *JaroWinkler) Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	score := smetrics.JaroWinkler(truncate(a, j.maxLength), truncate(b, j.maxLength), j.boostThreshold, j.prefixSize)
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
