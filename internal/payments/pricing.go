// Package payments wraps the payment provider's checkout and webhook flow.
// The provider is an opaque external service; this package holds no payment
// logic of its own beyond tier lookup and signature verification.
package payments

import "github.com/jonathan/bookforge/internal/types"

// PricingTier describes one purchasable tier as shown to customers.
type PricingTier struct {
	ID          types.Tier `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Description string     `json:"description"`
	Features    []string   `json:"features"`
	Recommended bool       `json:"recommended,omitempty"`
}

// PricingTiers returns the purchasable tiers in display order.
func PricingTiers() []PricingTier {
	return []PricingTier{
		{
			ID:          types.TierBasic,
			Name:        "Basic Book",
			Price:       4.99,
			Description: "5-8k words, standard formatting",
			Features:    []string{"AI-generated content", "PDF download", "Email delivery"},
		},
		{
			ID:          types.TierPro,
			Name:        "Pro Book",
			Price:       9.99,
			Description: "10-15k words, enhanced formatting",
			Features:    []string{"AI-generated content", "Premium styling", "Multiple formats", "Priority support"},
			Recommended: true,
		},
		{
			ID:          types.TierPremium,
			Name:        "Premium Book",
			Price:       19.99,
			Description: "20-30k words, white-label ready",
			Features:    []string{"Extended content", "White-label rights", "Source files", "Commercial license"},
		},
	}
}
