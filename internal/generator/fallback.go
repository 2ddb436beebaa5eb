package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/bookforge/internal/types"
)

// fallbackMultiplier controls how many times each chapter block is repeated
// per tier, so fallback length scales with what the customer paid for.
var fallbackMultiplier = map[types.Tier]int{
	types.TierBasic:   1,
	types.TierPro:     2,
	types.TierPremium: 3,
}

// baseChapters are the chapter titles of the fallback skeleton.
var baseChapters = []string{
	"Introduction",
	"Getting Started",
	"Core Concepts",
	"Practical Applications",
	"Advanced Techniques",
	"Common Mistakes to Avoid",
	"Best Practices",
	"Next Steps",
}

// FallbackBody synthesizes a structured markdown book from the request fields
// alone. It performs no I/O and cannot fail: pure string formatting over
// already-validated input. Given the same request and timestamp it always
// produces the same document.
func FallbackBody(req types.BookRequest, now time.Time) string {
	multiplier := fallbackMultiplier[req.Tier]
	if multiplier == 0 {
		multiplier = fallbackMultiplier[types.TierPro]
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s for %s\n\n", req.Topic, req.Audience)
	fmt.Fprintf(&sb, "*Your complete guide to %s, written for %s.*\n\n", req.Topic, req.Audience)

	sb.WriteString("## Table of Contents\n\n")
	for i, chapter := range baseChapters {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, chapter)
	}
	sb.WriteString("\n")

	for i, chapter := range baseChapters {
		fmt.Fprintf(&sb, "## Chapter %d: %s\n\n", i+1, chapter)
		for block := 0; block < multiplier; block++ {
			writeChapterBlock(&sb, req, chapter, block)
		}
	}

	body := sb.String()
	words := len(strings.Fields(body))

	// Closing metadata footer. Reading time assumes ~200 words per minute.
	var footer strings.Builder
	footer.WriteString("---\n\n")
	fmt.Fprintf(&footer, "**Approximate word count:** %s\n\n", groupDigits(words))
	fmt.Fprintf(&footer, "**Estimated reading time:** %d minutes\n\n", readingMinutes(words))
	fmt.Fprintf(&footer, "**Written for:** %s\n\n", req.Audience)
	fmt.Fprintf(&footer, "**Generated on:** %s\n", now.Format("January 2, 2006"))

	return body + footer.String()
}

// writeChapterBlock appends one template block for a chapter. Blocks within a
// chapter vary only by index so repetition still reads as deliberate structure.
func writeChapterBlock(sb *strings.Builder, req types.BookRequest, chapter string, block int) {
	fmt.Fprintf(sb, "### %s: Part %d\n\n", chapter, block+1)
	fmt.Fprintf(sb, "This section walks %s through %s as it applies to %s. ",
		req.Audience, strings.ToLower(chapter), req.Topic)
	fmt.Fprintf(sb, "Work through the steps in order and apply each one before moving on.\n\n")

	fmt.Fprintf(sb, "💡 **Pro Tip:** Consistent practice is the fastest route to mastering %s.\n\n", req.Topic)
	fmt.Fprintf(sb, "⚡ **Quick Win:** Pick one idea from %s and apply it today.\n\n", strings.ToLower(chapter))
	fmt.Fprintf(sb, "🔍 **Deep Dive:** Once the basics feel comfortable, revisit %s with a harder, real-world example.\n\n", strings.ToLower(chapter))

	sb.WriteString("Key points to take away:\n\n")
	fmt.Fprintf(sb, "- How %s fits into %s\n", strings.ToLower(chapter), req.Topic)
	fmt.Fprintf(sb, "- The most common mistake %s make at this stage\n", req.Audience)
	sb.WriteString("- A checklist to confirm you are ready for the next chapter\n\n")
}

// readingMinutes estimates reading time at ~200 words per minute, minimum 1.
func readingMinutes(words int) int {
	minutes := words / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
