//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	stripe "github.com/stripe/stripe-go"
)

// BackendAPI is the contract with the merchant's own backend. Both calls may
// block on network I/O; neither is retried by this layer.
type BackendAPI interface {
	// CreateCustomerKey asks the backend for an ephemeral key scoped to apiVersion.
	CreateCustomerKey(ctx context.Context, apiVersion string) (EphemeralKey, error)
	// CompleteCharge charges stripeID for amount (minor units). shippingHash is
	// the form-encoded shipping summary, e.g. "shipping[name]=XX&shipping[address][city]=Sacramento".
	CompleteCharge(ctx context.Context, stripeID string, amount int64, shippingHash string) error
}

// StripeGateway abstracts Stripe SDK operations needed by the backend service.
// Methods return values (not pointers) to respect the project's preference
// to avoid pointer types in public interfaces.
type StripeGateway interface {
	CreateEphemeralKey(ctx context.Context, customerID, apiVersion string) (stripe.EphemeralKey, error)
	CreateCharge(ctx context.Context, params *stripe.ChargeParams) (stripe.Charge, error)
}

// EphemeralKey is a short-lived credential handed to the client SDK. Raw is the
// key object exactly as Stripe returned it.
type EphemeralKey struct {
	ID      string          `json:"id"`
	Secret  string          `json:"secret"`
	Expires int64           `json:"expires"`
	Raw     json.RawMessage `json:"-"`
}

// KeyFromRaw parses the identifying fields out of a raw key object.
func KeyFromRaw(raw []byte) (EphemeralKey, error) {
	var k EphemeralKey
	if err := json.Unmarshal(raw, &k); err != nil {
		return EphemeralKey{}, fmt.Errorf("decode ephemeral key: %w", err)
	}
	k.Raw = append(json.RawMessage(nil), raw...)
	return k, nil
}

const (
	CodeUnknown = http.StatusInternalServerError
	CodeTimeout = http.StatusGatewayTimeout
)

// BackendError is a failure reported by the backend with its own code and message.
type BackendError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Code, e.Message)
}

// CodeOf extracts the code and message to report for err.
func CodeOf(err error) (int, string) {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Code, be.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout, err.Error()
	}
	return CodeUnknown, err.Error()
}

type idempotencyKeyCtx struct{}

// WithIdempotencyKey attaches the key under which a charge must run at most once.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

// IdempotencyKey returns the key set by WithIdempotencyKey, or "".
func IdempotencyKey(ctx context.Context) string {
	k, _ := ctx.Value(idempotencyKeyCtx{}).(string)
	return k
}
