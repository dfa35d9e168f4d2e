package post

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/russross/blackfriday/v2"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
)

// Ensure Segmenter implements the interface.
var _ driven.Segmenter = (*Segmenter)(nil)

// Pre-compiled regular expressions for body cleaning.
var (
	// Stack Snippet editor directives. They mark runnable snippet regions
	// and must never be compared as text.
	snippetDirectives = regexp.MustCompile(`<!--\s*(?:begin snippet|end snippet|language(?:-all)?)\b[^\n]*?-->`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	voteBoilerplate   = regexp.MustCompile(`(?i)\d*\s*up\s*vote\s*\d*\s*down\s*vote`)
	whitespace        = regexp.MustCompile(`\s+`)
	blankEdges        = regexp.MustCompile(`^\n+|\n+$`)
)

// blockSelector matches elements whose text should be separated from
// the following text.
const blockSelector = "p, li, h1, h2, h3, h4, h5, h6, div, tr, td, th, dt, dd"

// Segmenter splits answer bodies into code, quotes and plain text.
type Segmenter struct{}

// New creates a new post segmenter.
func New() *Segmenter {
	return &Segmenter{}
}

// Segment derives the code, quoted and plain text of a post.
// Markdown is preferred; the rendered HTML body is used when the post has
// no markdown.
func (s *Segmenter) Segment(p *domain.Post) (domain.Segments, error) {
	if p == nil {
		return domain.Segments{}, fmt.Errorf("%w: nil post", domain.ErrMalformedPost)
	}

	rendered, err := renderBody(p)
	if err != nil {
		return domain.Segments{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rendered))
	if err != nil {
		return domain.Segments{}, fmt.Errorf("%w: parse body of %d: %v", domain.ErrMalformedPost, p.AnswerID, err)
	}

	return split(doc), nil
}

// renderBody returns the cleaned HTML for a post.
func renderBody(p *domain.Post) ([]byte, error) {
	if md := markdownOf(p); strings.TrimSpace(md) != "" {
		md = StripDirectives(md)
		return blackfriday.Run([]byte(md)), nil
	}
	if strings.TrimSpace(p.Body) != "" {
		return []byte(StripDirectives(p.Body)), nil
	}
	return nil, fmt.Errorf("%w: answer %d has no body", domain.ErrMalformedPost, p.AnswerID)
}

// markdownOf returns the entity-decoded markdown of a post.
// The API escapes markdown bodies, so directives would otherwise appear
// as &lt;!-- ... --&gt; and survive stripping.
func markdownOf(p *domain.Post) string {
	if p.UnescapedBodyMarkdown != "" {
		return p.UnescapedBodyMarkdown
	}
	return html.UnescapeString(p.BodyMarkdown)
}

// StripDirectives removes Stack Snippet begin/end/language directives.
func StripDirectives(body string) string {
	return snippetDirectives.ReplaceAllString(body, "")
}

// split separates a parsed body into the three segments.
func split(doc *goquery.Document) domain.Segments {
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).AppendHtml("\n")

	// Code first: <pre> blocks, and inline <code> outside of them.
	var code []string
	doc.Find("pre, code").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "code" && sel.ParentsFiltered("pre").Length() > 0 {
			return
		}
		if text := normaliseCode(sel.Text()); text != "" {
			code = append(code, text)
		}
	})
	doc.Find("pre, code").Remove()

	// Then top-level quotes, which now hold no code.
	var quotes []string
	doc.Find("blockquote").Each(func(_ int, sel *goquery.Selection) {
		if sel.ParentsFiltered("blockquote").Length() > 0 {
			return
		}
		if text := normaliseProse(sel.Text()); text != "" {
			quotes = append(quotes, text)
		}
	})
	doc.Find("blockquote").Remove()

	return domain.Segments{
		Code:   strings.Join(code, "\n"),
		Quotes: strings.Join(quotes, " "),
		Plain:  cleanPlain(doc.Find("body").Text()),
	}
}

// cleanPlain removes UI boilerplate and comments from plain text.
func cleanPlain(text string) string {
	if loc := voteBoilerplate.FindStringIndex(text); loc != nil {
		text = text[:loc[0]] + " " + text[loc[1]:]
	}
	text = htmlComments.ReplaceAllString(text, " ")
	return normaliseProse(text)
}

// normaliseProse collapses all whitespace runs into single spaces.
func normaliseProse(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// normaliseCode trims trailing spaces on each line and surrounding blank lines.
func normaliseCode(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return blankEdges.ReplaceAllString(strings.Join(lines, "\n"), "")
}
