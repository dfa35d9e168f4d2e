package driven

// TextSimilarity scores how alike two strings are.
type TextSimilarity interface {
	// Similarity returns a score in [0, 1], 1 meaning identical.
	Similarity(a, b string) float64
}
