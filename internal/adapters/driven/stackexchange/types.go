package stackexchange

import (
	"html"
	"time"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// wrapper is the common envelope of every API response.
type wrapper[T any] struct {
	Items          []T    `json:"items"`
	HasMore        bool   `json:"has_more"`
	QuotaMax       int    `json:"quota_max"`
	QuotaRemaining int    `json:"quota_remaining"`
	Backoff        int    `json:"backoff"`
	ErrorID        int    `json:"error_id"`
	ErrorName      string `json:"error_name"`
	ErrorMessage   string `json:"error_message"`
}

type shallowUser struct {
	UserID      int    `json:"user_id"`
	DisplayName string `json:"display_name"`
	Reputation  int    `json:"reputation"`
	Link        string `json:"link"`
}

type answer struct {
	AnswerID     int         `json:"answer_id"`
	QuestionID   int         `json:"question_id"`
	Title        string      `json:"title"`
	Tags         []string    `json:"tags"`
	Body         string      `json:"body"`
	BodyMarkdown string      `json:"body_markdown"`
	CreationDate int64       `json:"creation_date"`
	Owner        shallowUser `json:"owner"`
}

type question struct {
	QuestionID int      `json:"question_id"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
}

// toPost converts an API answer into a domain post. The API returns
// titles, names and markdown HTML-escaped.
func (a *answer) toPost() domain.Post {
	post := domain.Post{
		AnswerID:     a.AnswerID,
		QuestionID:   a.QuestionID,
		Title:        html.UnescapeString(a.Title),
		Tags:         a.Tags,
		BodyMarkdown: a.BodyMarkdown,
		Body:         a.Body,
		Owner: domain.Owner{
			UserID:      a.Owner.UserID,
			DisplayName: html.UnescapeString(a.Owner.DisplayName),
			Reputation:  a.Owner.Reputation,
			Link:        a.Owner.Link,
		},
	}
	if a.BodyMarkdown != "" {
		post.UnescapedBodyMarkdown = html.UnescapeString(a.BodyMarkdown)
	}
	if a.CreationDate > 0 {
		post.CreatedAt = time.Unix(a.CreationDate, 0).UTC()
	}
	return post
}
