package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/jonathan/bookforge/internal/types"
)

// Config holds the payment provider credentials and price mapping.
type Config struct {
	SecretKey     string
	WebhookSecret string
	Domain        string
	PriceIDs      map[types.Tier]string
}

// Checkout creates checkout sessions and verifies webhook events.
type Checkout struct {
	cfg Config
}

// NewCheckout configures the stripe client and returns a Checkout.
func NewCheckout(cfg Config) (*Checkout, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	stripe.Key = cfg.SecretKey
	return &Checkout{cfg: cfg}, nil
}

// Session is the subset of a checkout session returned to the frontend.
type Session struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// CreateSession opens a checkout session for a tier. The topic rides along as
// metadata so the webhook handler can trigger generation after payment.
func (c *Checkout) CreateSession(tier types.Tier, topic string) (*Session, error) {
	priceID, ok := c.cfg.PriceIDs[tier]
	if !ok || priceID == "" {
		return nil, fmt.Errorf("no price configured for tier %s", tier)
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(fmt.Sprintf("https://%s/success?session_id={CHECKOUT_SESSION_ID}", c.cfg.Domain)),
		CancelURL:  stripe.String(fmt.Sprintf("https://%s/cancel", c.cfg.Domain)),
	}
	params.AddMetadata("tier", string(tier))
	params.AddMetadata("topic", topic)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &Session{CheckoutURL: s.URL, SessionID: s.ID}, nil
}

// VerifyWebhook validates a webhook payload signature and returns the event.
func (c *Checkout) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.cfg.WebhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("invalid webhook: %w", err)
	}
	return event, nil
}
