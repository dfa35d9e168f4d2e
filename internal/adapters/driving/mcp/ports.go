package mcp

import (
	"github.com/custodia-labs/guttenberg/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Checker runs plagiarism checks.
	Checker driving.PlagiarismChecker

	// Feedback records reviewer verdicts. Optional.
	Feedback driving.FeedbackService

	// Settings exposes the configuration. Optional.
	Settings driving.SettingsService

	// Site is the Q&A host used to build answer links.
	Site string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Checker == nil {
		return ErrMissingChecker
	}
	return nil
}
