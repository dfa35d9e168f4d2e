package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	answerLink       = regexp.MustCompile(`/(?:a|answers)/(\d+)`)
	questionLink     = regexp.MustCompile(`/(?:questions|q)/(\d+)`)
	questionAnswered = regexp.MustCompile(`/questions/\d+/[^/#?]+/(\d+)`)
)

// AnswerIDFromLink extracts the answer id from a site link such as
// https://stackoverflow.com/a/123 or .../questions/1/slug/123#123.
func AnswerIDFromLink(link string) (int, bool) {
	if m := answerLink.FindStringSubmatch(link); m != nil {
		return atoi(m[1])
	}
	if m := questionAnswered.FindStringSubmatch(link); m != nil {
		return atoi(m[1])
	}
	return 0, false
}

// QuestionIDFromLink extracts the question id from a /questions/<id> or
// /q/<id> link.
func QuestionIDFromLink(link string) (int, bool) {
	if m := questionLink.FindStringSubmatch(link); m != nil {
		return atoi(m[1])
	}
	return 0, false
}

// ParseAnswerID accepts a bare numeric id or an answer link.
func ParseAnswerID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if id, err := strconv.Atoi(s); err == nil {
		return id, id > 0
	}
	return AnswerIDFromLink(s)
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
