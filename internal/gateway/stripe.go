// Package gateway talks to external card processors. Charges happen outside
// the ledger transaction; the wallet is only credited after the processor
// confirms the charge.
package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
	"github.com/stripe/stripe-go/v72/refund"
)

// ChargeResult is what a processor reports back for a successful charge.
type ChargeResult struct {
	ProcessorName string
	ProcessorTxID string
}

// CardCharger charges an external card source for a top-up.
type CardCharger interface {
	Charge(ctx context.Context, source string, amount int64, currency, description string) (*ChargeResult, error)
	Refund(ctx context.Context, processorTxID string) error
}

// StripeGateway charges cards through Stripe.
type StripeGateway struct{}

// NewStripeGateway sets the API key for the stripe client.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

// Charge creates a stripe charge against the given source token. Amounts are
// minor units, which is also what stripe expects.
func (g *StripeGateway) Charge(ctx context.Context, source string, amount int64, currency, description string) (*ChargeResult, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(strings.ToLower(currency)),
		Description: stripe.String(description),
	}
	params.Context = ctx
	if err := params.SetSource(source); err != nil {
		return nil, fmt.Errorf("invalid card source: %w", err)
	}

	ch, err := charge.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe charge failed: %w", err)
	}
	return &ChargeResult{ProcessorName: "stripe", ProcessorTxID: ch.ID}, nil
}

// Refund reverses a previously captured charge.
func (g *StripeGateway) Refund(ctx context.Context, processorTxID string) error {
	params := &stripe.RefundParams{Charge: stripe.String(processorTxID)}
	params.Context = ctx
	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("stripe refund failed: %w", err)
	}
	return nil
}
