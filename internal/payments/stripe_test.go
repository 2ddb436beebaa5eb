package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/bookforge/internal/types"
)

func TestNewCheckoutRequiresSecret(t *testing.T) {
	_, err := NewCheckout(Config{})
	assert.Error(t, err, "empty secret key should be rejected")

	checkout, err := NewCheckout(Config{SecretKey: "sk_test_dummy", Domain: "example.com"})
	require.NoError(t, err)
	require.NotNil(t, checkout)
}

func TestCreateSessionUnknownTier(t *testing.T) {
	checkout, err := NewCheckout(Config{
		SecretKey: "sk_test_dummy",
		Domain:    "example.com",
		PriceIDs:  map[types.Tier]string{types.TierPro: "price_dummy"},
	})
	require.NoError(t, err)

	// No price configured for basic; the call must fail before any
	// provider round trip.
	_, err = checkout.CreateSession(types.TierBasic, "Gardening")
	assert.Error(t, err)
}

func TestVerifyWebhookRejectsBadSignature(t *testing.T) {
	checkout, err := NewCheckout(Config{
		SecretKey:     "sk_test_dummy",
		WebhookSecret: "whsec_dummy",
	})
	require.NoError(t, err)

	_, err = checkout.VerifyWebhook([]byte(`{"type":"checkout.session.completed"}`), "bad-signature")
	assert.Error(t, err)
}
