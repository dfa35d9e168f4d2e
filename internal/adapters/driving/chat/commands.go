package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driving"
)

// Services are the core services the built-in commands use.
type Services struct {
	// Checker runs plagiarism checks. Required for checkinternet.
	Checker driving.PlagiarismChecker

	// Feedback records verdicts. Required for feedback.
	Feedback driving.FeedbackService

	// Site is the Q&A host used to build answer links.
	Site string
}

// RegisterDefaults registers the checkinternet and feedback commands.
func RegisterDefaults(d *Dispatcher, svc Services) {
	if svc.Site == "" {
		svc.Site = domain.DefaultSite
	}
	if svc.Checker != nil {
		d.Register(Command{
			Name:        "checkinternet",
			Usage:       "checkinternet <answer id or link>",
			Description: "Checks post for plagiarism using internet",
			Handler:     checkInternet(svc),
		})
	}
	if svc.Feedback != nil {
		d.Register(Command{
			Name:        "feedback",
			Usage:       "feedback <answer link> tp|fp",
			Description: "Provides feedback on a given report",
			Handler:     feedback(svc),
		})
	}
}

func checkInternet(svc Services) HandlerFunc {
	return func(ctx context.Context, _ Message, args []string) ([]string, error) {
		id, ok := domain.ParseAnswerID(strings.Join(args, " "))
		if !ok {
			return nil, &UsageError{Message: "Could not find answer id, check command syntax"}
		}

		post, err := svc.Checker.LoadPost(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &UsageError{Message: fmt.Sprintf("Could not find post id: %d with api call", id)}
			}
			return nil, err
		}

		terms, err := svc.Checker.SearchTerms(post)
		if err != nil {
			return nil, err
		}
		replies := []string{FormatChecking(post, terms, svc.Site)}

		ranked, err := svc.Checker.CheckPost(ctx, post)
		if err != nil {
			return replies, err
		}
		return append(replies, FormatReport(post, ranked, svc.Site)), nil
	}
}

func feedback(svc Services) HandlerFunc {
	return func(ctx context.Context, msg Message, args []string) ([]string, error) {
		if len(args) != 2 {
			return nil, &UsageError{Message: "Error in arguments passed"}
		}

		id, ok := domain.ParseAnswerID(args[0])
		if !ok {
			return nil, &UsageError{Message: "Invalid report id: " + args[0]}
		}
		verdict, ok := domain.ParseVerdict(args[1])
		if !ok {
			return nil, &UsageError{Message: fmt.Sprintf("Unknown feedback %q, use tp or fp", args[1])}
		}

		if _, err := svc.Feedback.Record(ctx, id, verdict, msg.User); err != nil {
			return nil, fmt.Errorf("store feedback: %w", err)
		}
		return []string{fmt.Sprintf("Recorded %s for [%d](https://%s/a/%d)", verdict, id, svc.Site, id)}, nil
	}
}
