package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

// minMentionLength is the shortest mention that addresses the bot,
// not counting the "@".
const minMentionLength = 3

// Message is an incoming chat message.
type Message struct {
	// User is the sender's display name.
	User string

	// Content is the plain text of the message.
	Content string
}

// HandlerFunc handles one command. args are the words after the command
// name. The returned lines are sent back in order.
type HandlerFunc func(ctx context.Context, msg Message, args []string) ([]string, error)

// Command describes a registered command.
type Command struct {
	Name        string
	Usage       string
	Description string
	Handler     HandlerFunc
}

// UsageError is returned by handlers when the arguments are wrong.
// Its message is sent to the room as is.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// Dispatcher routes messages to command handlers by name.
type Dispatcher struct {
	name     string
	handlers map[string]HandlerFunc
	commands map[string]Command
	log      logger.Scope
}

// NewDispatcher creates a dispatcher for a bot with the given name.
// When name is empty every message is treated as a command; otherwise a
// message must start with a mention of at least three letters of it,
// e.g. "@gut" for "guttenberg".
func NewDispatcher(name string) *Dispatcher {
	d := &Dispatcher{
		name:     strings.ToLower(name),
		handlers: make(map[string]HandlerFunc),
		commands: make(map[string]Command),
		log:      logger.For("chat"),
	}
	d.Register(Command{
		Name:        "commands",
		Usage:       "commands",
		Description: "Lists the available commands",
		Handler:     d.handleCommands,
	}, "help")
	return d
}

// Register adds a command under its name and any aliases.
// Registering an existing name replaces its handler.
func (d *Dispatcher) Register(cmd Command, aliases ...string) {
	name := strings.ToLower(cmd.Name)
	d.commands[name] = cmd
	d.handlers[name] = cmd.Handler
	for _, alias := range aliases {
		d.handlers[strings.ToLower(alias)] = cmd.Handler
	}
}

// Commands returns the registered commands sorted by name.
func (d *Dispatcher) Commands() []Command {
	cmds := make([]Command, 0, len(d.commands))
	for _, c := range d.commands {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Parse splits a message into a command name and its arguments.
// ok is false when the message is not addressed to the bot.
func (d *Dispatcher) Parse(content string) (name string, args []string, ok bool) {
	fields := strings.Fields(content)
	if d.name != "" {
		if len(fields) == 0 || !d.mentioned(fields[0]) {
			return "", nil, false
		}
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

func (d *Dispatcher) mentioned(token string) bool {
	if !strings.HasPrefix(token, "@") {
		return false
	}
	handle := strings.ToLower(strings.TrimRight(token[1:], ",:"))
	return len(handle) >= minMentionLength && strings.HasPrefix(d.name, handle)
}

// Dispatch runs the command in msg. handled is false when the message is
// not a command for this bot. Handler failures are turned into a reply.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (replies []string, handled bool) {
	name, args, ok := d.Parse(msg.Content)
	if !ok {
		return nil, false
	}

	handler, ok := d.handlers[name]
	if !ok {
		d.log.Debug("unknown command %q from %s", name, msg.User)
		return []string{fmt.Sprintf("Unknown command %q, try \"commands\"", name)}, true
	}

	d.log.Debug("%s ran %s %v", msg.User, name, args)
	replies, err := handler(ctx, msg, args)
	if err != nil {
		var usage *UsageError
		if !errors.As(err, &usage) {
			d.log.Error("command %s failed: %v", name, err)
		}
		replies = append(replies, ErrorReply(err))
	}
	return replies, true
}

func (d *Dispatcher) handleCommands(_ context.Context, _ Message, _ []string) ([]string, error) {
	var b strings.Builder
	b.WriteString("Commands:")
	for _, c := range d.Commands() {
		fmt.Fprintf(&b, "\n    %s - %s", c.Usage, c.Description)
	}
	return []string{b.String()}, nil
}

// ErrorReply turns an error into the text shown to chat users.
func ErrorReply(err error) string {
	var usage *UsageError
	switch {
	case errors.As(err, &usage):
		return usage.Message
	case domain.IsQuotaExceeded(err):
		return "Error calling search, maybe we ran out of quota"
	case errors.Is(err, domain.ErrCheckIncomplete):
		return "The check did not finish in time, try again later"
	case domain.IsExternalUnavailable(err):
		return "Error calling API, try again later"
	case errors.Is(err, domain.ErrMalformedPost):
		return "The post has no text to compare"
	default:
		return "Something went wrong: " + err.Error()
	}
}
