package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

func echo(_ context.Context, _ Message, args []string) ([]string, error) {
	return args, nil
}

func TestDispatcher_Parse(t *testing.T) {
	d := NewDispatcher("Guttenberg")

	tests := []struct {
		content string
		name    string
		args    []string
		ok      bool
	}{
		{"@gut checkinternet 123", "checkinternet", []string{"123"}, true},
		{"@Guttenberg CheckInternet  https://stackoverflow.com/a/1 ", "checkinternet", []string{"https://stackoverflow.com/a/1"}, true},
		{"@gutt, feedback 12 tp", "feedback", []string{"12", "tp"}, true},
		{"@gu checkinternet 123", "", nil, false},
		{"@other checkinternet 123", "", nil, false},
		{"checkinternet 123", "", nil, false},
		{"@gut", "", nil, false},
		{"", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			name, args, ok := d.Parse(tt.content)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
			if tt.ok {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestDispatcher_Parse_NoMention(t *testing.T) {
	d := NewDispatcher("")

	name, args, ok := d.Parse("feedback 12 fp")

	require.True(t, ok)
	assert.Equal(t, "feedback", name)
	assert.Equal(t, []string{"12", "fp"}, args)
}

func TestDispatcher_Dispatch(t *testing.T) {
	d := NewDispatcher("")
	d.Register(Command{Name: "echo", Usage: "echo <words>", Description: "Repeats words", Handler: echo}, "say")

	replies, handled := d.Dispatch(context.Background(), Message{Content: "echo a b"})
	assert.True(t, handled)
	assert.Equal(t, []string{"a", "b"}, replies)

	replies, handled = d.Dispatch(context.Background(), Message{Content: "SAY c"})
	assert.True(t, handled)
	assert.Equal(t, []string{"c"}, replies)
}

func TestDispatcher_Dispatch_NotAddressed(t *testing.T) {
	d := NewDispatcher("guttenberg")

	replies, handled := d.Dispatch(context.Background(), Message{Content: "just chatting"})

	assert.False(t, handled)
	assert.Nil(t, replies)
}

func TestDispatcher_Dispatch_UnknownCommand(t *testing.T) {
	d := NewDispatcher("")

	replies, handled := d.Dispatch(context.Background(), Message{Content: "dance"})

	assert.True(t, handled)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], `Unknown command "dance"`)
}

func TestDispatcher_Dispatch_HandlerError(t *testing.T) {
	d := NewDispatcher("")
	d.Register(Command{Name: "fail", Handler: func(context.Context, Message, []string) ([]string, error) {
		return []string{"started"}, &domain.QuotaError{Service: "google"}
	}})

	replies, handled := d.Dispatch(context.Background(), Message{Content: "fail"})

	assert.True(t, handled)
	assert.Equal(t, []string{"started", "Error calling search, maybe we ran out of quota"}, replies)
}

func TestDispatcher_Commands(t *testing.T) {
	d := NewDispatcher("")
	d.Register(Command{Name: "zeta", Usage: "zeta", Description: "Last", Handler: echo})
	d.Register(Command{Name: "alpha", Usage: "alpha <x>", Description: "First", Handler: echo})

	cmds := d.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, "alpha", cmds[0].Name)
	assert.Equal(t, "commands", cmds[1].Name)
	assert.Equal(t, "zeta", cmds[2].Name)

	replies, handled := d.Dispatch(context.Background(), Message{Content: "help"})
	assert.True(t, handled)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "alpha <x> - First")
	assert.Contains(t, replies[0], "zeta - Last")
}

func TestErrorReply(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"usage", &UsageError{Message: "Error in arguments passed"}, "Error in arguments passed"},
		{"quota", fmt.Errorf("search: %w", &domain.QuotaError{Service: "google", RetryAfter: time.Minute}), "Error calling search, maybe we ran out of quota"},
		{"incomplete", fmt.Errorf("%w: %w", domain.ErrCheckIncomplete, context.DeadlineExceeded), "The check did not finish in time, try again later"},
		{"external", &domain.ExternalError{Service: "stackexchange", Op: "answers", Err: errors.New("reset")}, "Error calling API, try again later"},
		{"malformed", domain.ErrMalformedPost, "The post has no text to compare"},
		{"other", errors.New("disk full"), "Something went wrong: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorReply(tt.err))
		})
	}
}
