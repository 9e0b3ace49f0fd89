package paysheet

import "errors"

var (
	// ErrGateway wraps failures of the backend gateway.
	ErrGateway = errors.New("gateway error")
	// ErrInvalidShippingResult indicates a provider broke the ShippingMethods invariants.
	ErrInvalidShippingResult = errors.New("invalid shipping result")
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrInvalidPaymentMethod  = errors.New("payment method has no id")
	// ErrInvalidAmount rejects negative charge amounts before any call is made.
	ErrInvalidAmount  = errors.New("amount must be a non-negative integer in minor units")
	ErrNotStarted     = errors.New("session not started")
	ErrNotReady       = errors.New("session not ready to charge")
	ErrChargeInFlight = errors.New("charge already in flight")
	ErrSessionClosed  = errors.New("session closed")
)
