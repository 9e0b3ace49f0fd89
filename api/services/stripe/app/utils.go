package app

import (
	stripe "github.com/stripe/stripe-go"

	"github.com/tbeaudouin05/stripe-paysheet/api/paysheet"
)

// shippingParams converts a sheet address to Stripe shipping details. Empty
// fields stay nil so Stripe keeps its defaults.
func shippingParams(a paysheet.Address) *stripe.ShippingDetailsParams {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return stripe.String(s)
	}
	return &stripe.ShippingDetailsParams{
		Name:  opt(a.Name),
		Phone: opt(a.Phone),
		Address: &stripe.AddressParams{
			Line1:      opt(a.Line1),
			Line2:      opt(a.Line2),
			City:       opt(a.City),
			State:      opt(a.State),
			PostalCode: opt(a.PostalCode),
			Country:    opt(a.Country),
		},
	}
}
