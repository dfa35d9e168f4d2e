package services

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// fallbackQueryWords is how many words of body text stand in for a missing title.
const fallbackQueryWords = 12

// QueryBuilder derives search terms from a post.
type QueryBuilder struct {
	minPhraseLength int
	maxPhraseWords  int
}

// NewQueryBuilder creates a query builder from matcher settings.
func NewQueryBuilder(settings domain.MatcherSettings) *QueryBuilder {
	return &QueryBuilder{
		minPhraseLength: settings.MinPhraseLength,
		maxPhraseWords:  settings.MaxPhraseWords,
	}
}

// Build returns the search terms for a post whose segments are already derived.
// It never fails: short posts fall back to whatever text is available.
func (b *QueryBuilder) Build(post *domain.Post, segs domain.Segments) domain.SearchTerms {
	return domain.SearchTerms{
		Query:       b.query(post, segs),
		ExactPhrase: b.exactPhrase(segs),
	}
}

// query uses the question title plus the main tag, or the opening words of
// the body when there is no title.
func (b *QueryBuilder) query(post *domain.Post, segs domain.Segments) string {
	tag := post.MainTag()
	title := strings.Join(strings.Fields(html.UnescapeString(post.Title)), " ")

	if title != "" {
		if tag != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(tag)) {
			return title + " " + tag
		}
		return title
	}

	for _, text := range []string{segs.Plain, segs.Quotes, segs.Code} {
		if words := firstWords(text, fallbackQueryWords); words != "" {
			return words
		}
	}
	return tag
}

// exactPhrase picks the longest sentence of at least minPhraseLength
// characters, searching plain text, then quotes, then code lines.
// If none is long enough the longest sentence found is used.
func (b *QueryBuilder) exactPhrase(segs domain.Segments) string {
	sources := [][]string{
		splitSentences(segs.Plain),
		splitSentences(segs.Quotes),
		splitLines(segs.Code),
	}

	var longest string
	for _, sentences := range sources {
		best := longestSentence(sentences)
		if utf8.RuneCountInString(best) >= b.minPhraseLength {
			return b.trimPhrase(best)
		}
		if utf8.RuneCountInString(best) > utf8.RuneCountInString(longest) {
			longest = best
		}
	}
	return b.trimPhrase(longest)
}

// trimPhrase makes a sentence usable inside a quoted phrase query.
func (b *QueryBuilder) trimPhrase(s string) string {
	s = strings.ReplaceAll(s, `"`, " ")
	words := strings.Fields(s)
	if b.maxPhraseWords > 0 && len(words) > b.maxPhraseWords {
		words = words[:b.maxPhraseWords]
	}
	return strings.Join(words, " ")
}

// longestSentence returns the first of the longest sentences.
func longestSentence(sentences []string) string {
	var best string
	for _, s := range sentences {
		if utf8.RuneCountInString(s) > utf8.RuneCountInString(best) {
			best = s
		}
	}
	return best
}

// firstWords returns up to n leading words of text.
func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// splitSentences splits prose into sentences.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// splitLines splits code into trimmed non-empty lines.
func splitLines(code string) []string {
	var lines []string
	for _, line := range strings.Split(code, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
