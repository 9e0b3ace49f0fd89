package stripegw

import (
	"context"

	stripe "github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/charge"
	"github.com/stripe/stripe-go/ephemeralkey"

	gw "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway"
)

// SetKey configures the Stripe SDK key once during bootstrap.
func SetKey(key string) { stripe.Key = key }

// client is the Stripe SDK-backed implementation of the gateway.
type client struct {
	account string
}

// New returns a StripeGateway backed by the official Stripe SDK. A non-empty
// account sends every request on behalf of that connected account.
func New(account string) gw.StripeGateway { return client{account: account} }

func (c client) CreateEphemeralKey(ctx context.Context, customerID, apiVersion string) (stripe.EphemeralKey, error) {
	params := &stripe.EphemeralKeyParams{
		Customer:      stripe.String(customerID),
		StripeVersion: stripe.String(apiVersion),
	}
	c.scope(ctx, &params.Params)
	key, err := ephemeralkey.New(params)
	if err != nil {
		return stripe.EphemeralKey{}, err
	}
	if key == nil {
		return stripe.EphemeralKey{}, nil
	}
	return *key, nil
}

func (c client) CreateCharge(ctx context.Context, params *stripe.ChargeParams) (stripe.Charge, error) {
	c.scope(ctx, &params.Params)
	ch, err := charge.New(params)
	if err != nil {
		return stripe.Charge{}, err
	}
	if ch == nil {
		return stripe.Charge{}, nil
	}
	return *ch, nil
}

func (c client) scope(ctx context.Context, p *stripe.Params) {
	p.Context = ctx
	if c.account != "" {
		p.SetStripeAccount(c.account)
	}
	if key := gw.IdempotencyKey(ctx); key != "" {
		p.SetIdempotencyKey(key)
	}
}
