package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

var feedbackReporter string

var feedbackCmd = &cobra.Command{
	Use:   "feedback <answer id or link> <tp|fp>",
	Short: "Record a verdict on a report",
	Long: `Record whether a reported answer really was plagiarised.

Verdicts:
  tp, k   true positive, the answer was copied
  fp, f   false positive, the report was wrong`,
	Args: cobra.ExactArgs(2),
	RunE: runFeedback,
}

var feedbackHistoryCmd = &cobra.Command{
	Use:   "history <answer id or link>",
	Short: "Show the verdicts recorded for an answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedbackHistory,
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackReporter, "reporter", "", "name recorded with the verdict")
	feedbackCmd.AddCommand(feedbackHistoryCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	id, ok := domain.ParseAnswerID(args[0])
	if !ok {
		return fmt.Errorf("invalid report id: %s", args[0])
	}
	verdict, ok := domain.ParseVerdict(args[1])
	if !ok {
		return fmt.Errorf("unknown verdict %q, use tp or fp", args[1])
	}

	fb, err := feedbackService.Record(cmd.Context(), id, verdict, feedbackReporter)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	cmd.Printf("✓ Recorded %s for %s\n", fb.Verdict, (&domain.Post{AnswerID: fb.AnswerID}).Link(site))
	return nil
}

func runFeedbackHistory(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	id, ok := domain.ParseAnswerID(args[0])
	if !ok {
		return fmt.Errorf("invalid report id: %s", args[0])
	}

	history, err := feedbackService.History(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load feedback: %w", err)
	}
	if len(history) == 0 {
		cmd.Printf("No feedback recorded for %d\n", id)
		return nil
	}

	for _, fb := range history {
		reporter := fb.Reporter
		if reporter == "" {
			reporter = "-"
		}
		cmd.Printf("  %s  %s  %s\n", fb.CreatedAt.Format("2006-01-02 15:04"), fb.Verdict, reporter)
	}
	return nil
}
