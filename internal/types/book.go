// Package types provides type definitions for structured data used throughout the bookforge system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Tier is a pricing/length category controlling the target word-count band.
type Tier string

// Supported pricing tiers.
const (
	TierBasic   Tier = "basic"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// Book status values. A book is "generated" when an external provider produced
// its body and "degraded" when the deterministic fallback template did.
// Degraded books are still delivered to the caller; the status exists so that
// downstream consumers (billing, support) can tell the two apart.
const (
	StatusGenerated = "generated"
	StatusDegraded  = "degraded"
)

// WordBand is the target word-count range for one generation attempt.
type WordBand struct {
	Min int
	Max int
}

// wordBands maps each tier to its target length band.
var wordBands = map[Tier]WordBand{
	TierBasic:   {Min: 5000, Max: 8000},
	TierPro:     {Min: 10000, Max: 15000},
	TierPremium: {Min: 20000, Max: 30000},
}

// BandForTier returns the target word band for a tier.
// Unknown tiers fall back to the pro (medium) band.
func BandForTier(tier Tier) WordBand {
	if band, ok := wordBands[tier]; ok {
		return band
	}
	return wordBands[TierPro]
}

// Valid reports whether the tier is one of the supported tiers.
func (t Tier) Valid() bool {
	_, ok := wordBands[t]
	return ok
}

// BookRequest represents a request to generate a book.
// Immutable once accepted by the pipeline.
type BookRequest struct {
	Topic    string `json:"topic" validate:"required,min=2,max=200"`
	Audience string `json:"audience" validate:"required,min=2,max=200"`
	Style    string `json:"style,omitempty"`
	Tier     Tier   `json:"tier,omitempty" validate:"omitempty,oneof=basic pro premium"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

// ApplyDefaults fills unset optional fields with their default values.
func (r *BookRequest) ApplyDefaults() {
	if r.Style == "" {
		r.Style = "professional"
	}
	if r.Tier == "" {
		r.Tier = TierPro
	}
}

// Validate validates the BookRequest using the validator.
func (r *BookRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Book is the generated artifact returned to and stored for a caller.
// Immutable after creation.
type Book struct {
	ID        uuid.UUID `json:"id"`
	Topic     string    `json:"topic"`
	Audience  string    `json:"audience"`
	Style     string    `json:"style"`
	Tier      Tier      `json:"tier"`
	Body      string    `json:"content"`
	Status    string    `json:"status"`
	WordCount int       `json:"word_count"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
