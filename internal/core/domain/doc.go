// Package domain defines the core business entities for Guttenberg.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Post: An answer under plagiarism evaluation
//   - Segments: The code, quoted and plain text derived from a post body
//   - SearchTerms: The query and exact phrase derived from a post
//   - SearchItem / SearchResult: Hits returned by a web search
//   - PostMatch: A scored pairing of an original post and a candidate
//   - MatcherSettings: Weights and thresholds that drive scoring
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
