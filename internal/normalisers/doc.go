// Package normalisers holds the text extractors that turn raw post bodies
// into comparable segments. The post subpackage implements the
// driven.Segmenter port for Stack Exchange answers.
package normalisers
