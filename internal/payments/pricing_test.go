package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/bookforge/internal/types"
)

func TestPricingTiers(t *testing.T) {
	tiers := PricingTiers()
	require.Len(t, tiers, 3)

	wantOrder := []types.Tier{types.TierBasic, types.TierPro, types.TierPremium}
	wantPrices := []float64{4.99, 9.99, 19.99}

	for i, tier := range tiers {
		assert.Equal(t, wantOrder[i], tier.ID)
		assert.Equal(t, wantPrices[i], tier.Price)
		assert.NotEmpty(t, tier.Features, "tier %q has no features", tier.ID)
		assert.True(t, tier.ID.Valid(), "tier ID %q must be a purchasable tier", tier.ID)
	}

	// Prices strictly increase with tier.
	assert.Less(t, tiers[0].Price, tiers[1].Price)
	assert.Less(t, tiers[1].Price, tiers[2].Price)

	assert.True(t, tiers[1].Recommended, "the pro tier should be the recommended one")
}
