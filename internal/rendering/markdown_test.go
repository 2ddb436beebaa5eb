package rendering

import (
	"strings"
	"testing"
)

func TestRenderHTML(t *testing.T) {
	markdown := "# The Art of Bread\n\n## Chapter 1: Flour\n\nStart with **good flour**.\n\n> Key insight here.\n"

	doc, err := RenderHTML(markdown, "Fallback Title")
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}

	if doc.Title != "The Art of Bread" {
		t.Errorf("Title = %q, want %q", doc.Title, "The Art of Bread")
	}
	for _, want := range []string{
		"<h1>The Art of Bread</h1>",
		"<h2>Chapter 1: Flour</h2>",
		"<strong>good flour</strong>",
		"<blockquote>",
		"<title>The Art of Bread</title>",
		"<!DOCTYPE html>",
	} {
		if !strings.Contains(doc.HTML, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRenderHTMLDefaultTitle(t *testing.T) {
	doc, err := RenderHTML("Just a paragraph, no heading.", "Urban Gardening")
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	if doc.Title != "Urban Gardening" {
		t.Errorf("Title = %q, want the default", doc.Title)
	}
}

func TestRenderHTMLEscapesTitle(t *testing.T) {
	doc, err := RenderHTML("Body only.", `Tips & <Tricks>`)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	if !strings.Contains(doc.HTML, "<title>Tips &amp; &lt;Tricks&gt;</title>") {
		t.Error("title should be HTML-escaped in the document head")
	}
}

func TestDocumentFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The Art of Bread", "the-art-of-bread.pdf"},
		{"Go 101", "go-101.pdf"},
		{"C++ & You!", "c--you.pdf"},
		{"   ", "book.pdf"},
		{"日本語", "book.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			doc := &Document{Title: tt.title}
			if got := doc.Filename(); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	inner := &RenderError{Message: "inner"}
	outer := &RenderError{Message: "outer", Cause: inner}

	if !strings.Contains(outer.Error(), "outer") || !strings.Contains(outer.Error(), "inner") {
		t.Errorf("Error() = %q", outer.Error())
	}
	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return the cause")
	}
}
