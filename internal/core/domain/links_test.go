package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerIDFromLink(t *testing.T) {
	tests := []struct {
		link string
		id   int
		ok   bool
	}{
		{"https://stackoverflow.com/a/12345", 12345, true},
		{"https://stackoverflow.com/a/12345/678", 12345, true},
		{"//stackoverflow.com/answers/999", 999, true},
		{"https://stackoverflow.com/questions/11/how-to-x/4242#4242", 4242, true},
		{"https://stackoverflow.com/questions/11/how-to-x", 0, false},
		{"https://stackoverflow.com/users/1/name", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			id, ok := AnswerIDFromLink(tt.link)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestQuestionIDFromLink(t *testing.T) {
	tests := []struct {
		link string
		id   int
		ok   bool
	}{
		{"https://stackoverflow.com/questions/11/how-to-x", 11, true},
		{"https://stackoverflow.com/q/22", 22, true},
		{"https://superuser.com/questions/33/slug/44#44", 33, true},
		{"https://stackoverflow.com/a/12345", 0, false},
		{"https://stackoverflow.com/questions/tagged/go", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			id, ok := QuestionIDFromLink(tt.link)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestParseAnswerID(t *testing.T) {
	id, ok := ParseAnswerID(" 123 ")
	assert.True(t, ok)
	assert.Equal(t, 123, id)

	id, ok = ParseAnswerID("https://stackoverflow.com/a/77")
	assert.True(t, ok)
	assert.Equal(t, 77, id)

	_, ok = ParseAnswerID("-4")
	assert.False(t, ok)

	_, ok = ParseAnswerID("not a link")
	assert.False(t, ok)
}
