package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
	"github.com/custodia-labs/grimorium/internal/normalisers/title"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML chapters, such as exports from a word processor.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise strips markup from an HTML chapter.
// Paragraphs are separated by a blank line.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawChapter) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := string(raw.Content)
	return &driven.NormaliseResult{
		Title:   extractTitle(content, raw.Path),
		Content: stripHTML(content),
	}, nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	h1Tag         = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	dropped       = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg)[^>]*>.*?</(script|style|noscript|head|svg)>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	paragraphEnds = regexp.MustCompile(`(?i)</(p|div|h[1-6]|blockquote|pre|section|article)>`)
	lineBreaks    = regexp.MustCompile(`(?i)<(br|hr)\s*/?>|</li>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t\r\n]+`)
)

// extractTitle uses <title>, then the first <h1>, then the file name.
func extractTitle(content, path string) string {
	for _, re := range []*regexp.Regexp{titleTag, h1Tag} {
		if m := re.FindStringSubmatch(content); len(m) > 1 {
			t := strings.TrimSpace(html.UnescapeString(allTags.ReplaceAllString(m[1], "")))
			if t != "" {
				return t
			}
		}
	}
	return title.FromPath(path)
}

// stripHTML keeps the readable text, one paragraph per block element.
func stripHTML(content string) string {
	content = dropped.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = paragraphEnds.ReplaceAllString(content, "\x00\x00")
	content = lineBreaks.ReplaceAllString(content, "\x00")
	content = allTags.ReplaceAllString(content, "")

	// Source whitespace is insignificant; only block ends break lines.
	content = multiSpaces.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)

	var paragraphs []string
	for _, block := range strings.Split(content, "\x00\x00") {
		var lines []string
		for _, line := range strings.Split(block, "\x00") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
