package domain

import "strconv"

// SearchTerms is the query derived from a post.
type SearchTerms struct {
	// Query is the free-text search string.
	Query string

	// ExactPhrase is a verbatim excerpt used to bias the provider
	// toward near-duplicate text.
	ExactPhrase string
}

// SearchItem is a single web search hit.
// Two items are the same hit when their links are equal.
type SearchItem struct {
	// Title is the page title reported by the provider.
	Title string

	// Link is the hit URL.
	Link string

	// Site is the display domain of the hit (e.g. "stackoverflow.com").
	Site string

	// QuestionID is the on-site question id parsed from Link, or zero.
	QuestionID int

	// OnSite is true when the hit belongs to the protected Q&A site.
	OnSite bool
}

// IsPost reports whether the hit points at the given post.
func (i *SearchItem) IsPost(p *Post) bool {
	if p == nil || !i.OnSite {
		return false
	}
	if id, ok := AnswerIDFromLink(i.Link); ok {
		return id == p.AnswerID
	}
	return i.QuestionID != 0 && i.QuestionID == p.QuestionID
}

// SearchResult is the outcome of one web search for a post.
// Items keep the provider's relevance order.
type SearchResult struct {
	// Terms are the search terms that produced this result.
	Terms SearchTerms

	// Items are the deduplicated hits in provider order.
	Items []SearchItem

	// QuestionIDs are the distinct on-site question ids in first-seen order.
	QuestionIDs []int

	// Match is the best scored candidate, if any.
	Match *PostMatch
}

// Empty reports whether the search produced no hits.
func (r *SearchResult) Empty() bool {
	return r == nil || len(r.Items) == 0
}

// FirstResult returns the earliest hit that is on-site (or off-site),
// or nil if there is none.
func (r *SearchResult) FirstResult(onSite bool) *SearchItem {
	if r == nil {
		return nil
	}
	for i := range r.Items {
		if r.Items[i].OnSite == onSite {
			return &r.Items[i]
		}
	}
	return nil
}

// BestOnSite returns the first on-site hit.
func (r *SearchResult) BestOnSite() *SearchItem {
	return r.FirstResult(true)
}

// BestOffSite returns the first off-site hit.
func (r *SearchResult) BestOffSite() *SearchItem {
	return r.FirstResult(false)
}

// Position returns the 1-based rank of the hit with the given link,
// or 0 if it is not part of the result.
func (r *SearchResult) Position(link string) int {
	if r == nil {
		return 0
	}
	for i := range r.Items {
		if r.Items[i].Link == link {
			return i + 1
		}
	}
	return 0
}

// QuestionIDString joins the question ids with semicolons, the batch
// format accepted by the Stack Exchange API.
func QuestionIDString(ids []int) string {
	buf := make([]byte, 0, len(ids)*9)
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ';')
		}
		buf = strconv.AppendInt(buf, int64(id), 10)
	}
	return string(buf)
}
