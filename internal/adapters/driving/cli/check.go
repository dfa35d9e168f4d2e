package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/guttenberg/internal/adapters/driving/chat"
	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

var (
	checkMatches    int
	checkJSON       bool
	checkFast       bool
	checkTimeout    time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check <answer id or link>",
	Short: "Check an answer for plagiarism",
	Long: `Loads the answer, searches the web for its title and a verbatim phrase,
then scores every answer found on the same site against it.

Examples:
  guttenberg check 38717190
  guttenberg check https://stackoverflow.com/a/38717190 --matches 5

With --fast, candidates that cannot reach the report threshold are not
scored in full, and a best match is only reported when it reaches it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVarP(&checkMatches, "matches", "n", 3, "number of scored answers to list")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output the result as JSON")
	checkCmd.Flags().BoolVar(&checkFast, "fast", false, "stop scoring candidates that cannot reach the report threshold")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 0, "bound the whole check (default from check.timeout)")
	rootCmd.AddCommand(checkCmd)
}

// allReasonsSetter is implemented by checkers that can stop scoring
// candidates below the report threshold.
type allReasonsSetter interface {
	SetIncludeAllReasons(bool)
}

func runCheck(cmd *cobra.Command, args []string) error {
	checker, err := requireChecker()
	if err != nil {
		return err
	}

	id, ok := domain.ParseAnswerID(args[0])
	if !ok {
		return fmt.Errorf("could not find an answer id in %q", args[0])
	}

	if setter, ok := checker.(allReasonsSetter); ok {
		setter.SetIncludeAllReasons(!checkFast)
	}

	ctx := cmd.Context()
	if checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, checkTimeout)
		defer cancel()
	}

	post, err := checker.LoadPost(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("could not find post id: %d with api call", id)
		}
		return err
	}

	terms, err := checker.SearchTerms(post)
	if err != nil {
		return err
	}

	ranked, err := checker.CheckPost(ctx, post)
	if err != nil {
		if domain.IsQuotaExceeded(err) {
			return fmt.Errorf("error calling search, maybe we ran out of quota: %w", err)
		}
		return err
	}

	if checkJSON {
		return outputCheckJSON(cmd, post, terms, ranked)
	}
	outputCheckText(cmd, post, terms, ranked)
	return nil
}

func reportThreshold() float64 {
	if settingsService != nil {
		if s, err := settingsService.Matcher(); err == nil {
			return s.ReportThreshold
		}
	}
	return domain.DefaultMatcherSettings().ReportThreshold
}

func outputCheckText(cmd *cobra.Command, post *domain.Post, terms domain.SearchTerms, ranked *domain.RankedMatches) {
	out := cmd.OutOrStdout()
	styles := newReportStyles(isTerminal(out))
	threshold := reportThreshold()

	fmt.Fprintln(out, styles.Header.Render(fmt.Sprintf("Checking post %d", post.AnswerID)) + " " + styles.Muted.Render(post.Link(site)))
	fmt.Fprintf(out, "  %s %s\n", styles.Label.Render("Search term:"), terms.Query)
	fmt.Fprintf(out, "  %s %s\n", styles.Label.Render("Exact match:"), terms.ExactPhrase)
	fmt.Fprintln(out)
	fmt.Fprintln(out, chat.FormatReport(post, ranked, site))

	if checkMatches <= 0 || len(ranked.Matches) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Header.Render("Matches:"))
	for i := range ranked.Matches {
		if i == checkMatches {
			break
		}
		m := &ranked.Matches[i]
		if m.Unusable {
			fmt.Fprintf(out, "  [%d] %d %s\n", i+1, m.Candidate.AnswerID, styles.Error.Render("unusable: "+errorText(m.Err)))
			continue
		}
		score := styles.score(m.Total, threshold).Render(chat.FormatScore(m.Total))
		fmt.Fprintf(out, "  [%d] %d %s %s\n", i+1, m.Candidate.AnswerID, score, styles.Muted.Render(m.Candidate.Link(site)))
		if reasons := formatReasons(m); reasons != "" {
			fmt.Fprintf(out, "      %s\n", reasons)
		}
	}
}

func formatReasons(m *domain.PostMatch) string {
	if m.Partial {
		return "below threshold, scoring stopped early"
	}
	var parts []string
	for _, rs := range m.Reasons {
		if rs.Applicable {
			parts = append(parts, fmt.Sprintf("%s %s", rs.Reason, chat.FormatScore(rs.Score)))
		}
	}
	return strings.Join(parts, ", ")
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// checkJSONOutput is the JSON form of a check.
type checkJSONOutput struct {
	AnswerID    int                 `json:"answer_id"`
	Query       string              `json:"query"`
	ExactPhrase string              `json:"exact_phrase"`
	Summary     string              `json:"summary"`
	Hits        []domain.SearchItem `json:"hits"`
	Matches     []matchJSON         `json:"matches"`
}

type matchJSON struct {
	AnswerID int                `json:"answer_id"`
	Score    float64            `json:"score"`
	Reasons  map[string]float64 `json:"reasons,omitempty"`
	Partial  bool               `json:"partial,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func outputCheckJSON(cmd *cobra.Command, post *domain.Post, terms domain.SearchTerms, ranked *domain.RankedMatches) error {
	result := checkJSONOutput{
		AnswerID:    post.AnswerID,
		Query:       terms.Query,
		ExactPhrase: terms.ExactPhrase,
		Summary:     chat.FormatReport(post, ranked, site),
		Hits:        []domain.SearchItem{},
		Matches:     []matchJSON{},
	}
	if ranked.SearchResult != nil && ranked.SearchResult.Items != nil {
		result.Hits = ranked.SearchResult.Items
	}
	for i := range ranked.Matches {
		if checkMatches > 0 && i == checkMatches {
			break
		}
		m := &ranked.Matches[i]
		mj := matchJSON{AnswerID: m.Candidate.AnswerID, Score: m.Total, Partial: m.Partial}
		if m.Err != nil {
			mj.Error = m.Err.Error()
		}
		for _, rs := range m.Reasons {
			if rs.Applicable {
				if mj.Reasons == nil {
					mj.Reasons = make(map[string]float64)
				}
				mj.Reasons[rs.Reason.String()] = rs.Score
			}
		}
		result.Matches = append(result.Matches, mj)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
