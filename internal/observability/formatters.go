// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/bookforge/internal/generator"
	"github.com/jonathan/bookforge/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStrategy outputs a summary of the selected generation strategy.
func (p *Printer) PrintStrategy(strategy generator.Strategy) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Provider: %s\n", strategy.Provider))
	sb.WriteString(fmt.Sprintf("Model:    %s\n", strategy.Model))
	sb.WriteString(fmt.Sprintf("Style:    %s\n", strategy.StyleInstruction))
	sb.WriteString(fmt.Sprintf("Target:   %s", generator.BandLabel(strategy.Band)))
	p.printBox("GENERATION STRATEGY", sb.String())
}

// PrintBook outputs a human-readable summary of a generated book.
func (p *Printer) PrintBook(book *types.Book) {
	if book == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:         %s\n", book.ID))
	sb.WriteString(fmt.Sprintf("Topic:      %s\n", book.Topic))
	sb.WriteString(fmt.Sprintf("Audience:   %s\n", book.Audience))
	sb.WriteString(fmt.Sprintf("Tier:       %s\n", book.Tier))
	sb.WriteString(fmt.Sprintf("Status:     %s\n", book.Status))
	sb.WriteString(fmt.Sprintf("Words:      %d\n", book.WordCount))
	sb.WriteString(fmt.Sprintf("Created:    %s", book.CreatedAt.Format("2006-01-02 15:04:05")))
	p.printBox("GENERATED BOOK", sb.String())
}
