// Package rendering converts generated markdown books into printable HTML and PDF.
package rendering

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
)

// htmlShell wraps rendered book content in a self-contained printable page.
// The stylesheet targets print output: serif body text, page margins, and
// page breaks before chapter headings.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Georgia, "Times New Roman", serif; font-size: 12pt; line-height: 1.6; margin: 2cm 2.5cm; color: #1a1a1a; }
h1 { font-size: 24pt; margin-bottom: 0.3em; }
h2 { font-size: 16pt; margin-top: 1.5em; page-break-before: always; }
h2:first-of-type { page-break-before: avoid; }
h3 { font-size: 13pt; }
blockquote { border-left: 3px solid #999; margin-left: 0; padding-left: 1em; color: #444; }
code { font-family: "Courier New", monospace; font-size: 10.5pt; background: #f4f4f4; padding: 0 2px; }
pre { background: #f4f4f4; padding: 0.8em; overflow-x: hidden; white-space: pre-wrap; }
hr { border: none; border-top: 1px solid #ccc; margin: 2em 0; }
</style>
</head>
<body>
%s
</body>
</html>`

// Document is a rendered book ready for PDF printing.
type Document struct {
	Title string
	HTML  string
}

// RenderHTML converts a markdown book body into a printable HTML document.
// The document title is taken from the first h1 of the rendered content,
// falling back to the given default when the body has none.
func RenderHTML(markdown, defaultTitle string) (*Document, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return nil, &RenderError{Message: "markdown conversion failed", Cause: err}
	}

	title, err := extractTitle(buf.String())
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = defaultTitle
	}

	return &Document{
		Title: title,
		HTML:  fmt.Sprintf(htmlShell, html.EscapeString(title), buf.String()),
	}, nil
}

// extractTitle pulls the text of the first h1 out of rendered HTML.
func extractTitle(rendered string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return "", &RenderError{Message: "failed to parse rendered HTML", Cause: err}
	}
	return strings.TrimSpace(doc.Find("h1").First().Text()), nil
}

// Filename returns a safe download filename for the document, e.g. "my-book.pdf".
func (d *Document) Filename() string {
	name := strings.ToLower(d.Title)
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	cleaned := strings.Trim(sb.String(), "-")
	if cleaned == "" {
		cleaned = "book"
	}
	return cleaned + ".pdf"
}
