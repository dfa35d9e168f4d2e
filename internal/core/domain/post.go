package domain

import (
	"strconv"
	"time"
)

// Owner is the author of a post.
type Owner struct {
	// UserID is the site user id. Zero for deleted or anonymous users.
	UserID int

	// DisplayName is the user's public name.
	DisplayName string

	// Reputation is the user's reputation at fetch time.
	Reputation int

	// Link is the user's profile URL.
	Link string
}

// Post is an answer under comparison.
//
// A Post is built once from an API payload and is treated as read-only by
// the engine. Derived text segments are never stored on it; see Segments.
type Post struct {
	// AnswerID uniquely identifies the answer.
	AnswerID int

	// QuestionID identifies the parent question.
	QuestionID int

	// Title is the parent question's title.
	Title string

	// Tags are the parent question's tags in site order.
	Tags []string

	// BodyMarkdown is the raw markdown body as returned by the API.
	BodyMarkdown string

	// Body is the rendered HTML body. Used when no markdown is available.
	Body string

	// UnescapedBodyMarkdown is BodyMarkdown with HTML entities decoded,
	// suitable for re-posting elsewhere.
	UnescapedBodyMarkdown string

	// Owner is the answer's author.
	Owner Owner

	// CreatedAt is when the answer was posted.
	CreatedAt time.Time

	// Score is filled in by the matcher on candidate copies.
	Score float64
}

// MainTag returns the first tag, or an empty string if the post has none.
func (p *Post) MainTag() string {
	if len(p.Tags) == 0 {
		return ""
	}
	return p.Tags[0]
}

// HasBody reports whether the post carries any body text to segment.
func (p *Post) HasBody() bool {
	return p.BodyMarkdown != "" || p.Body != ""
}

// Link returns the short answer link on the given site host.
func (p *Post) Link(site string) string {
	return "https://" + site + "/a/" + strconv.Itoa(p.AnswerID)
}

// Segments are the disjoint text pools derived from a post body.
// Comparisons are always made segment against same segment.
type Segments struct {
	// Code is the text of fenced, indented and inline code.
	Code string

	// Quotes is the text of block quotes, code excluded.
	Quotes string

	// Plain is everything else, normalised to prose.
	Plain string
}

// Empty reports whether all segments are empty.
func (s Segments) Empty() bool {
	return s.Code == "" && s.Quotes == "" && s.Plain == ""
}
