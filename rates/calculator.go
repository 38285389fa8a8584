// Package rates converts an order's fiat total into a NANO amount.
package rates

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hectorchu/wc-gateway-gonano/types"
)

// Precision is the number of decimal places a session amount is fixed to.
const Precision = 6

// RateSource is the single processor call the calculator depends on. The
// processor does the conversion; the returned value is already in NANO.
type RateSource interface {
	Rate(ctx context.Context, amount, currency string) (decimal.Decimal, error)
}

// Calculator computes session amounts. It is deterministic given identical
// rate-service responses.
type Calculator struct {
	source     RateSource
	multiplier decimal.Decimal
}

// NewCalculator creates a calculator applying the configured multiplier.
func NewCalculator(source RateSource, multiplier decimal.Decimal) *Calculator {
	return &Calculator{source: source, multiplier: multiplier}
}

// Compute turns an order total into the fixed NANO amount for a session.
// Totals already in NANO skip the rate lookup. The result is rounded half
// away from zero to Precision places and never recomputed after session
// creation.
func (c *Calculator) Compute(ctx context.Context, total, currency string) (string, error) {
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return "", &types.ValidationError{Reason: fmt.Sprintf("invalid order total %q: %v", total, err)}
	}

	if currency != types.NativeCurrency {
		converted, err := c.source.Rate(ctx, total, currency)
		if err != nil {
			return "", fmt.Errorf("rate lookup failed: %w", err)
		}
		amount = converted.Round(Precision)
	}

	return amount.Mul(c.multiplier).StringFixed(Precision), nil
}
