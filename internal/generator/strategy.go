// Package generator provides the book generation pipeline: strategy selection,
// a bounded attempt loop against external LLM providers, and a deterministic
// fallback when every attempt fails or under-delivers.
package generator

import (
	"fmt"
	"strings"

	"github.com/jonathan/bookforge/internal/llm"
	"github.com/jonathan/bookforge/internal/types"
)

// Strategy is the (provider, model, style instruction, word band) tuple
// governing one generation attempt. It is recomputed per attempt, never persisted.
type Strategy struct {
	Provider         llm.Provider
	Model            string
	StyleInstruction string
	Band             types.WordBand
}

// Default models per provider.
const (
	openAIModel = "gpt-4o-mini"
	geminiModel = "gemini-2.5-flash"
)

// SelectStrategy chooses a generation strategy from the request topic and tier.
// The choice is a pure function of its inputs: technical topics go to OpenAI
// with a technical style, creative topics go to Gemini with a narrative style,
// and everything else takes the default path.
func SelectStrategy(topic string, tier types.Tier) Strategy {
	lower := strings.ToLower(topic)

	switch {
	case strings.Contains(lower, "technical") || strings.Contains(lower, "programming"):
		return Strategy{
			Provider:         llm.ProviderOpenAI,
			Model:            openAIModel,
			StyleInstruction: "technical yet accessible",
			Band:             types.BandForTier(tier),
		}
	case strings.Contains(lower, "story") || strings.Contains(lower, "creative"):
		return Strategy{
			Provider:         llm.ProviderGemini,
			Model:            geminiModel,
			StyleInstruction: "engaging and narrative-driven",
			Band:             types.BandForTier(tier),
		}
	default:
		return DefaultStrategy(tier)
	}
}

// DefaultStrategy returns the most reliable strategy for a tier. Retries after
// a failed first attempt converge on this regardless of topic keywords.
func DefaultStrategy(tier types.Tier) Strategy {
	return Strategy{
		Provider:         llm.ProviderOpenAI,
		Model:            openAIModel,
		StyleInstruction: "clear and informative",
		Band:             types.BandForTier(tier),
	}
}

// BandLabel renders a word band the way prompts expect it, e.g. "10,000-15,000 words".
func BandLabel(band types.WordBand) string {
	return fmt.Sprintf("%s-%s words", groupDigits(band.Min), groupDigits(band.Max))
}

// groupDigits formats a non-negative integer with comma thousands separators.
func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
