package app_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go"

	"github.com/tbeaudouin05/stripe-paysheet/api/paysheet"
	"github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/app"
	stripedb "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/db"
	gw "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway"
	gwmock "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway/mock"
)

func newService(t *testing.T) (*gwmock.MockStripeGateway, *stripedb.MemoryStore, app.Service) {
	t.Helper()
	ctrl := gomock.NewController(t)
	g := gwmock.NewMockStripeGateway(ctrl)
	store := stripedb.NewMemoryStore()
	return g, store, app.NewService(g, store, "usd", nil)
}

func TestCreateCustomerKey_PassesRawKeyThrough(t *testing.T) {
	g, _, svc := newService(t)
	raw := []byte(`{"id":"ephkey_1","object":"ephemeral_key","secret":"ek_test_1","expires":1700000000}`)
	g.EXPECT().CreateEphemeralKey(gomock.Any(), "cus_1", "2020-08-27").
		Return(stripe.EphemeralKey{ID: "ephkey_1", RawJSON: raw}, nil)

	key, err := svc.CreateCustomerKey(context.Background(), "cus_1", "2020-08-27")
	require.NoError(t, err)
	assert.Equal(t, "ephkey_1", key.ID)
	assert.Equal(t, "ek_test_1", key.Secret)
	assert.Equal(t, int64(1700000000), key.Expires)
	assert.JSONEq(t, string(raw), string(key.Raw))
}

func TestCreateCustomerKey_Validation(t *testing.T) {
	_, _, svc := newService(t)

	_, err := svc.CreateCustomerKey(context.Background(), "", "2020-08-27")
	assert.ErrorIs(t, err, app.ErrBadRequest)
	_, err = svc.CreateCustomerKey(context.Background(), "cus_1", "")
	assert.ErrorIs(t, err, app.ErrBadRequest)
}

func TestCreateCustomerKey_StripeErrorKeepsStatus(t *testing.T) {
	g, _, svc := newService(t)
	g.EXPECT().CreateEphemeralKey(gomock.Any(), "cus_missing", "2020-08-27").
		Return(stripe.EphemeralKey{}, &stripe.Error{HTTPStatusCode: http.StatusNotFound, Msg: "No such customer: cus_missing"})

	_, err := svc.CreateCustomerKey(context.Background(), "cus_missing", "2020-08-27")
	require.ErrorIs(t, err, app.ErrGateway)
	be := app.AsBackendError(err)
	assert.Equal(t, http.StatusNotFound, be.Code)
	assert.Equal(t, "No such customer: cus_missing", be.Message)
}

func TestCompleteCharge_BuildsStripeParams(t *testing.T) {
	g, store, svc := newService(t)
	g.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, p *stripe.ChargeParams) (stripe.Charge, error) {
			assert.Equal(t, "01HZXKEY:1", gw.IdempotencyKey(ctx))
			assert.Equal(t, int64(1999), *p.Amount)
			assert.Equal(t, "usd", *p.Currency)
			assert.Equal(t, "cus_1", *p.Customer)
			require.NotNil(t, p.Source)
			assert.Equal(t, "tok_visa", *p.Source.Token)
			require.NotNil(t, p.Shipping)
			assert.Equal(t, "Jane Doe", *p.Shipping.Name)
			assert.Equal(t, "Sacramento", *p.Shipping.Address.City)
			assert.Nil(t, p.Shipping.Address.Line2)
			return stripe.Charge{ID: "ch_1", Paid: true}, nil
		})

	res, err := svc.CompleteCharge(context.Background(), app.ChargeRequest{
		IdempotencyKey: "01HZXKEY",
		CustomerID:     "cus_1",
		Source:         "tok_visa",
		Amount:         1999,
		Shipping:       paysheet.Address{Name: "Jane Doe", City: "Sacramento"},
		HasShipping:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ch_1", res.ChargeID)
	assert.False(t, res.Replayed)

	stored, err := store.Get(context.Background(), "01HZXKEY")
	require.NoError(t, err)
	assert.Equal(t, stripedb.ChargeSucceeded, stored.Status)
	assert.Equal(t, "ch_1", stored.StripeChargeID)
}

func TestCompleteCharge_ReplayDoesNotChargeTwice(t *testing.T) {
	g, _, svc := newService(t)
	g.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(stripe.Charge{ID: "ch_1", Paid: true}, nil).Times(1)

	req := app.ChargeRequest{IdempotencyKey: "k1", Source: "tok_visa", Amount: 500}
	_, err := svc.CompleteCharge(context.Background(), req)
	require.NoError(t, err)

	res, err := svc.CompleteCharge(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, "ch_1", res.ChargeID)
}

func TestCompleteCharge_PendingKeyIsRejected(t *testing.T) {
	_, store, svc := newService(t)
	_, err := store.Begin(context.Background(), stripedb.Charge{IdempotencyKey: "k1", Source: "tok_visa", Amount: 500})
	require.NoError(t, err)

	_, err = svc.CompleteCharge(context.Background(), app.ChargeRequest{IdempotencyKey: "k1", Source: "tok_visa", Amount: 500})
	assert.ErrorIs(t, err, app.ErrDuplicateCharge)
	assert.Equal(t, http.StatusConflict, app.AsBackendError(err).Code)
}

func TestCompleteCharge_CardDeclinedCanBeRetried(t *testing.T) {
	g, store, svc := newService(t)
	var keys []string
	record := func(ctx context.Context, _ *stripe.ChargeParams) {
		keys = append(keys, gw.IdempotencyKey(ctx))
	}
	gomock.InOrder(
		g.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Do(record).
			Return(stripe.Charge{}, &stripe.Error{Type: stripe.ErrorTypeCard, HTTPStatusCode: http.StatusPaymentRequired, Msg: "Your card was declined."}),
		g.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Do(record).
			Return(stripe.Charge{ID: "ch_2", Paid: true}, nil),
	)
	req := app.ChargeRequest{IdempotencyKey: "k2", Source: "tok_chargeDeclined", Amount: 700}

	_, err := svc.CompleteCharge(context.Background(), req)
	require.ErrorIs(t, err, app.ErrGateway)
	be := app.AsBackendError(err)
	assert.Equal(t, http.StatusPaymentRequired, be.Code)
	assert.Equal(t, "Your card was declined.", be.Message)

	stored, err := store.Get(context.Background(), "k2")
	require.NoError(t, err)
	assert.Equal(t, stripedb.ChargeFailed, stored.Status)

	req.Source = "tok_visa"
	res, err := svc.CompleteCharge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ch_2", res.ChargeID)

	// Stripe replays the cached decline for a reused key, so every attempt gets a fresh one.
	assert.Equal(t, []string{"k2:1", "k2:2"}, keys)
	stored, err = store.Get(context.Background(), "k2")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Attempt)
}

// ctxBoundStore fails Finish once its context is done, like a SQL store.
type ctxBoundStore struct {
	*stripedb.MemoryStore
}

func (s ctxBoundStore) Finish(ctx context.Context, key string, status stripedb.ChargeStatus, chargeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.Finish(ctx, key, status, chargeID)
}

func TestCompleteCharge_RecordsOutcomeAfterRequestCancelled(t *testing.T) {
	cases := []struct {
		name   string
		charge stripe.Charge
		err    error
		want   stripedb.ChargeStatus
	}{
		{"succeeded", stripe.Charge{ID: "ch_1", Paid: true}, nil, stripedb.ChargeSucceeded},
		{"declined", stripe.Charge{}, &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card was declined."}, stripedb.ChargeFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			g := gwmock.NewMockStripeGateway(ctrl)
			store := ctxBoundStore{stripedb.NewMemoryStore()}
			svc := app.NewService(g, store, "usd", nil)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			g.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).
				DoAndReturn(func(context.Context, *stripe.ChargeParams) (stripe.Charge, error) {
					cancel()
					return tc.charge, tc.err
				})

			_, _ = svc.CompleteCharge(ctx, app.ChargeRequest{IdempotencyKey: "k3", Source: "tok_visa", Amount: 100})

			stored, err := store.Get(context.Background(), "k3")
			require.NoError(t, err)
			assert.Equal(t, tc.want, stored.Status)
			assert.Equal(t, tc.charge.ID, stored.StripeChargeID)
		})
	}
}

func TestStripeIdempotencyKey(t *testing.T) {
	assert.Equal(t, "01HZX:3", app.StripeIdempotencyKey("01HZX", 3))
}

func TestCompleteCharge_UnpaidChargeFails(t *testing.T) {
	g, _, svc := newService(t)
	g.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(stripe.Charge{ID: "ch_3", Paid: false}, nil)

	_, err := svc.CompleteCharge(context.Background(), app.ChargeRequest{Source: "tok_visa", Amount: 100})
	require.ErrorIs(t, err, app.ErrGateway)
	assert.Equal(t, http.StatusPaymentRequired, app.AsBackendError(err).Code)
}

func TestCompleteCharge_Validation(t *testing.T) {
	_, _, svc := newService(t)

	_, err := svc.CompleteCharge(context.Background(), app.ChargeRequest{Amount: 100})
	assert.ErrorIs(t, err, app.ErrBadRequest)
	_, err = svc.CompleteCharge(context.Background(), app.ChargeRequest{Source: "tok_visa", Amount: -1})
	assert.ErrorIs(t, err, app.ErrBadRequest)
}

func TestAsBackendError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, app.AsBackendError(app.ErrBadRequest).Code)
	assert.Equal(t, http.StatusBadGateway, app.AsBackendError(app.ErrGateway).Code)

	unknown := app.AsBackendError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, unknown.Code)
	assert.NotContains(t, unknown.Message, "boom")

	be := &gw.BackendError{Code: 418, Message: "teapot"}
	assert.Same(t, be, app.AsBackendError(errors.Join(app.ErrGateway, be)))
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1999", 1999, true},
		{" 0 ", 0, true},
		{"1999.00", 1999, true},
		{"19.99", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"9223372036854775808", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := app.ParseAmount(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, app.ErrBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
