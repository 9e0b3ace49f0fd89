package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go"
	"go.uber.org/zap"

	"github.com/tbeaudouin05/stripe-paysheet/api/paysheet"
	stripedb "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/db"
	gw "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway"
)

// Service defines the backend operations the payment sheet relies on.
type Service interface {
	CreateCustomerKey(ctx context.Context, customerID, apiVersion string) (gw.EphemeralKey, error)
	CompleteCharge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

const finishTimeout = 5 * time.Second

// ChargeStore is the idempotency ledger for charges.
type ChargeStore interface {
	Begin(ctx context.Context, c stripedb.Charge) (stripedb.Charge, error)
	Finish(ctx context.Context, key string, status stripedb.ChargeStatus, stripeChargeID string) error
}

type serviceImpl struct {
	gw       gw.StripeGateway
	store    ChargeStore
	currency string
	logger   *zap.SugaredLogger
}

func NewService(g gw.StripeGateway, store ChargeStore, currency string, logger *zap.SugaredLogger) Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return serviceImpl{gw: g, store: store, currency: currency, logger: logger}
}

// CreateCustomerKey mints an ephemeral key for customerID scoped to apiVersion.
func (s serviceImpl) CreateCustomerKey(ctx context.Context, customerID, apiVersion string) (gw.EphemeralKey, error) {
	if customerID == "" {
		return gw.EphemeralKey{}, fmt.Errorf("%w: customer id is required", ErrBadRequest)
	}
	if apiVersion == "" {
		return gw.EphemeralKey{}, fmt.Errorf("%w: api_version is required", ErrBadRequest)
	}

	key, err := s.gw.CreateEphemeralKey(ctx, customerID, apiVersion)
	if err != nil {
		s.logger.Warnw("ephemeral key creation failed", "customer_id", customerID, "api_version", apiVersion, "error", err)
		return gw.EphemeralKey{}, fmt.Errorf("%w: %w", ErrGateway, stripeError(err))
	}

	raw := key.RawJSON
	if len(raw) == 0 {
		if raw, err = json.Marshal(key); err != nil {
			return gw.EphemeralKey{}, fmt.Errorf("encode ephemeral key: %w", err)
		}
	}
	return gw.KeyFromRaw(raw)
}

// CompleteCharge charges req.Source. With an idempotency key the charge runs
// at most once: a replay of a succeeded key returns the stored result.
func (s serviceImpl) CompleteCharge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if req.Source == "" {
		return ChargeResult{}, fmt.Errorf("%w: source is required", ErrBadRequest)
	}
	if req.Amount < 0 {
		return ChargeResult{}, fmt.Errorf("%w: amount must be non-negative", ErrBadRequest)
	}

	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(s.currency),
	}
	if err := params.SetSource(req.Source); err != nil {
		return ChargeResult{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	if req.HasShipping {
		params.Shipping = shippingParams(req.Shipping)
	}

	key := req.IdempotencyKey
	if key != "" && s.store != nil {
		row, err := s.store.Begin(ctx, stripedb.Charge{
			IdempotencyKey: key,
			CustomerID:     req.CustomerID,
			Source:         req.Source,
			Amount:         req.Amount,
			Currency:       s.currency,
		})
		if errors.Is(err, stripedb.ErrDuplicate) {
			if row.Status == stripedb.ChargeSucceeded {
				s.logger.Infow("charge replayed", "idempotency_key", key, "charge_id", row.StripeChargeID)
				return ChargeResult{ChargeID: row.StripeChargeID, Status: string(row.Status), Replayed: true}, nil
			}
			return ChargeResult{}, ErrDuplicateCharge
		}
		if err != nil {
			return ChargeResult{}, fmt.Errorf("%w: %v", ErrDatabase, err)
		}
		// Stripe caches the response per key, so each attempt needs its own.
		ctx = gw.WithIdempotencyKey(ctx, StripeIdempotencyKey(key, row.Attempt))
	}

	ch, err := s.gw.CreateCharge(ctx, params)
	if err == nil && !ch.Paid {
		err = &gw.BackendError{Code: http.StatusPaymentRequired, Message: "charge was not paid"}
	}
	if err != nil {
		s.finish(ctx, key, stripedb.ChargeFailed, ch.ID)
		s.logger.Warnw("charge failed", "idempotency_key", key, "amount", req.Amount, "error", err)
		return ChargeResult{}, fmt.Errorf("%w: %w", ErrGateway, stripeError(err))
	}

	s.finish(ctx, key, stripedb.ChargeSucceeded, ch.ID)
	s.logger.Infow("charge succeeded", "idempotency_key", key, "charge_id", ch.ID, "amount", req.Amount)
	return ChargeResult{ChargeID: ch.ID, Status: string(stripedb.ChargeSucceeded)}, nil
}

// StripeIdempotencyKey is the key sent to Stripe for one attempt of a charge.
func StripeIdempotencyKey(key string, attempt int) string {
	return fmt.Sprintf("%s:%d", key, attempt)
}

// finish records the outcome even when the request context is already done;
// otherwise the row would stay pending and block the key.
func (s serviceImpl) finish(ctx context.Context, key string, status stripedb.ChargeStatus, chargeID string) {
	if key == "" || s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()
	if err := s.store.Finish(ctx, key, status, chargeID); err != nil {
		s.logger.Errorw("failed to record charge outcome", "idempotency_key", key, "status", status, "error", err)
	}
}

// customerBackend exposes Service as the client-side BackendAPI for one customer.
type customerBackend struct {
	svc        Service
	customerID string
}

// ForCustomer returns an in-process BackendAPI acting for customerID.
func ForCustomer(svc Service, customerID string) gw.BackendAPI {
	return customerBackend{svc: svc, customerID: customerID}
}

func (b customerBackend) CreateCustomerKey(ctx context.Context, apiVersion string) (gw.EphemeralKey, error) {
	key, err := b.svc.CreateCustomerKey(ctx, b.customerID, apiVersion)
	if err != nil {
		return gw.EphemeralKey{}, AsBackendError(err)
	}
	return key, nil
}

func (b customerBackend) CompleteCharge(ctx context.Context, stripeID string, amount int64, shippingHash string) error {
	addr, hasShipping, err := paysheet.ParseShipping(shippingHash)
	if err != nil {
		return AsBackendError(fmt.Errorf("%w: %v", ErrBadRequest, err))
	}
	_, err = b.svc.CompleteCharge(ctx, ChargeRequest{
		IdempotencyKey: gw.IdempotencyKey(ctx),
		CustomerID:     b.customerID,
		Source:         stripeID,
		Amount:         amount,
		Shipping:       addr,
		HasShipping:    hasShipping,
	})
	if err != nil {
		return AsBackendError(err)
	}
	return nil
}
