package gateway

import "context"

// GatewayOrder is the payment-provider-side record representing an
// amount to be collected, referenced by an opaque id.
type GatewayOrder struct {
	ID          string `json:"id"`
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
}

// PaymentGateway defines the interface all payment-provider
// integrations must implement.
type PaymentGateway interface {
	// CreateOrder registers an order for the given amount (in minor
	// currency units) with the provider and returns its handle.
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (GatewayOrder, error)
}
