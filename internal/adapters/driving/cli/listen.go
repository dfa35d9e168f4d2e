package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/guttenberg/internal/adapters/driving/chat"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

var (
	listenName          string
	listenInput         string
	listenReplyInterval time.Duration
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Answer chat commands read line by line",
	Long: `Reads chat messages, one per line as "user: message", and answers the
ones addressed to the bot.

Examples:
  echo "alice: @gutt checkinternet 38717190" | guttenberg listen
  guttenberg listen --input room.log --name guttenberg`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().StringVar(&listenName, "name", "guttenberg", "bot name messages must mention")
	listenCmd.Flags().StringVar(&listenInput, "input", "", "read messages from a file instead of stdin")
	listenCmd.Flags().DurationVar(&listenReplyInterval, "reply-interval", 0, "minimum time between replies")
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, _ []string) error {
	in := cmd.InOrStdin()
	if listenInput != "" {
		f, err := os.Open(listenInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	d := chat.NewDispatcher(listenName)
	svc := chat.Services{Feedback: feedbackService, Site: site}
	if checker, err := requireChecker(); err == nil {
		svc.Checker = checker
	} else {
		logger.Warn("checkinternet disabled: %v", err)
	}
	chat.RegisterDefaults(d, svc)

	ctx := cmd.Context()
	startWatch(ctx)

	var limiter *rate.Limiter
	if listenReplyInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(listenReplyInterval), 1)
	}
	return listen(ctx, d, in, cmd.OutOrStdout(), limiter)
}

// listen dispatches each line of in and writes replies to out.
func listen(ctx context.Context, d *chat.Dispatcher, in io.Reader, out io.Writer, limiter *rate.Limiter) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		msg, ok := parseChatLine(scanner.Text())
		if !ok {
			continue
		}
		replies, handled := d.Dispatch(ctx, msg)
		if !handled {
			continue
		}
		for _, reply := range replies {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return nil
				}
			}
			fmt.Fprintln(out, reply)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read messages: %w", err)
	}
	return nil
}

// parseChatLine splits "user: message". Lines without a user are
// attributed to nobody.
func parseChatLine(line string) (chat.Message, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return chat.Message{}, false
	}
	if user, content, ok := strings.Cut(line, ": "); ok && !strings.HasPrefix(user, "@") && !strings.Contains(user, " ") {
		return chat.Message{User: user, Content: strings.TrimSpace(content)}, true
	}
	return chat.Message{Content: line}, true
}
