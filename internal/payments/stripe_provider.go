package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type stripePaymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeProviderConfig configures the StripeProvider. Clients may be injected
// for tests; otherwise a real stripe client is built from the API key.
type StripeProviderConfig struct {
	APIKey  string
	Intents stripePaymentIntentAPI
}

type StripeProvider struct {
	log     *logger.Logger
	intents stripePaymentIntentAPI
}

func NewStripeProvider(log *logger.Logger, cfg StripeProviderConfig) (*StripeProvider, error) {
	if log == nil {
		return nil, errors.New("logger required")
	}
	intents := cfg.Intents
	if intents == nil {
		apiKey := strings.TrimSpace(cfg.APIKey)
		if apiKey == "" {
			return nil, errors.New("stripe: api key is required")
		}
		sc := client.New(apiKey, nil)
		intents = sc.PaymentIntents
	}
	return &StripeProvider{
		log:     log.With("client", "StripeProvider"),
		intents: intents,
	}, nil
}

// CreateIntent creates a PaymentIntent for the order total. Amounts are sent
// in the smallest currency unit.
func (p *StripeProvider) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	if p == nil || p.intents == nil {
		return Intent{}, errors.New("stripe: provider not configured")
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "usd"
	}
	cents := req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents <= 0 {
		return Intent{}, fmt.Errorf("stripe: non-positive amount %s", req.Amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(cents),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)

	pi, err := p.intents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("stripe: create intent: %w", err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
