package app

import (
	"errors"
	"net/http"

	stripe "github.com/stripe/stripe-go"

	gw "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway"
)

// Typed errors for the Stripe app layer. These enable HTTP mapping without
// relying on SDK-specific error types at the transport layer.
var (
	// ErrBadRequest indicates the request is invalid or missing required fields.
	ErrBadRequest = errors.New("bad request")
	// ErrDatabase indicates a database-related failure.
	ErrDatabase = errors.New("database error")
	// ErrGateway indicates a failure from the Stripe gateway / API calls.
	ErrGateway = errors.New("gateway error")
	// ErrDuplicateCharge indicates a charge with the same idempotency key is still running.
	ErrDuplicateCharge = errors.New("charge already in progress")
)

// AsBackendError maps a service error to the code/message pair reported to clients.
func AsBackendError(err error) *gw.BackendError {
	var be *gw.BackendError
	switch {
	case errors.As(err, &be):
		return be
	case errors.Is(err, ErrBadRequest):
		return &gw.BackendError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, ErrDuplicateCharge):
		return &gw.BackendError{Code: http.StatusConflict, Message: ErrDuplicateCharge.Error()}
	case errors.Is(err, ErrGateway):
		return &gw.BackendError{Code: http.StatusBadGateway, Message: err.Error()}
	}
	return &gw.BackendError{Code: http.StatusInternalServerError, Message: "the server encountered a problem and could not process your request"}
}

// stripeError turns a *stripe.Error into a BackendError, leaving other errors alone.
func stripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	code := se.HTTPStatusCode
	if se.Type == stripe.ErrorTypeCard {
		code = http.StatusPaymentRequired
	}
	if code == 0 {
		code = http.StatusBadGateway
	}
	msg := se.Msg
	if msg == "" {
		msg = string(se.Code)
	}
	return &gw.BackendError{Code: code, Message: msg}
}
