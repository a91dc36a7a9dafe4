package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// IntentRequest describes a payment-intent creation for one order.
type IntentRequest struct {
	OrderID  string
	Amount   decimal.Decimal
	Currency string
}

// Intent is the provider-side handle returned to the API caller.
type Intent struct {
	ID           string
	ClientSecret string
}

// Provider creates payment intents with the upstream payment gateway.
type Provider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
}
