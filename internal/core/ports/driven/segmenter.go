package driven

import "github.com/custodia-labs/guttenberg/internal/core/domain"

// Segmenter splits a post body into comparable text pools.
// Implementations must be pure: the same body always yields the same segments.
type Segmenter interface {
	// Segment derives the code, quoted and plain text of a post.
	// Returns domain.ErrMalformedPost if the post has no body.
	Segment(post *domain.Post) (domain.Segments, error)
}
