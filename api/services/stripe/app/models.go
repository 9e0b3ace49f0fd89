package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tbeaudouin05/stripe-paysheet/api/paysheet"
)

// ChargeRequest is a charge as received from the client.
// Keep value types to avoid pointer proliferation in domain.
type ChargeRequest struct {
	IdempotencyKey string
	CustomerID     string
	// Source is the payment method token chosen in the sheet.
	Source string
	// Amount in minor currency units.
	Amount      int64
	Shipping    paysheet.Address
	HasShipping bool
}

// ChargeResult is the domain response returned by the app layer
// HTTP layer will translate this into JSON
type ChargeResult struct {
	ChargeID string `json:"chargeId"`
	Status   string `json:"status"`
	// Replayed is set when the idempotency key had already succeeded.
	Replayed bool `json:"replayed,omitempty"`
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ParseAmount reads a wire amount in minor units. Fractions, negatives and
// values beyond int64 are rejected.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", ErrBadRequest, s)
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, fmt.Errorf("%w: amount %q must be a non-negative integer in minor units", ErrBadRequest, s)
	}
	if d.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: amount %q is too large", ErrBadRequest, s)
	}
	return d.IntPart(), nil
}
