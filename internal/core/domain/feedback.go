package domain

import (
	"strings"
	"time"
)

// Verdict is a reviewer's judgement on a report.
type Verdict string

// Available verdicts.
const (
	// VerdictTruePositive confirms the answer was plagiarised.
	VerdictTruePositive Verdict = "tp"

	// VerdictFalsePositive rejects the report.
	VerdictFalsePositive Verdict = "fp"
)

// ParseVerdict accepts "tp"/"k" and "fp"/"f", case-insensitively.
func ParseVerdict(s string) (Verdict, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tp", "k":
		return VerdictTruePositive, true
	case "fp", "f":
		return VerdictFalsePositive, true
	default:
		return "", false
	}
}

// Feedback records a verdict on a checked answer.
type Feedback struct {
	ID        string
	AnswerID  int
	Verdict   Verdict
	Reporter  string
	CreatedAt time.Time
}
