// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a check to run:
//
//   - SearchProvider: Web search (Google Custom Search)
//   - PostLookupService: Batched answer lookup (Stack Exchange API)
//   - Segmenter: Splits a post body into code, quotes and plain text
//   - TextSimilarity: Scores two strings in [0, 1]
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - FeedbackStore: Reviewer verdict persistence. Without it, feedback is rejected.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
