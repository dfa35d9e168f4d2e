package chat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// NoResults is the reply when the search found nothing.
const NoResults = "No search results on search term"

// FormatChecking announces a check and the terms it searches for.
func FormatChecking(post *domain.Post, terms domain.SearchTerms, site string) string {
	return fmt.Sprintf("*Checking post: [%d](%s) Search term: %s, exact match: %s*",
		post.AnswerID, post.Link(site), terms.Query, terms.ExactPhrase)
}

// FormatReport summarises a check on one line: the first on-site and
// off-site hits with their 1-based search positions, and the match the
// check recorded on the search result, if any.
func FormatReport(post *domain.Post, ranked *domain.RankedMatches, site string) string {
	if ranked == nil || ranked.SearchResult.Empty() {
		return NoResults
	}
	result := ranked.SearchResult

	var parts []string
	if hit := result.BestOnSite(); hit != nil {
		title := hit.Title
		if hit.IsPost(post) {
			title = "Same post"
		}
		parts = append(parts, "On site: "+formatHit(result, hit, title))
	}
	if hit := result.BestOffSite(); hit != nil {
		parts = append(parts, "Off-site: "+formatHit(result, hit, hit.Title))
	}

	if match := result.Match; match != nil && !match.Unusable && !match.Partial {
		parts = append(parts, fmt.Sprintf("SO Match: [%d](%s) Score:%s",
			match.Candidate.AnswerID, match.Candidate.Link(site), FormatScore(match.Total)))
	}

	return strings.Join(parts, ", ")
}

func formatHit(result *domain.SearchResult, hit *domain.SearchItem, title string) string {
	return fmt.Sprintf("[%s](%s) [%d]", title, hit.Link, result.Position(hit.Link))
}

// FormatScore prints a score with at most three decimals.
func FormatScore(score float64) string {
	return strconv.FormatFloat(math.Round(score*1000)/1000, 'f', -1, 64)
}
