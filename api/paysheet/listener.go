//go:generate mockgen -source=listener.go -destination=mock/listener.go -package=mock

package paysheet

import (
	"context"

	"go.uber.org/zap"
)

// Listener receives the session's callbacks. Calls are serialized; none of
// them run concurrently with another.
type Listener interface {
	// OnPaymentDataChanged fires whenever the snapshot changes.
	OnPaymentDataChanged(data PaymentData)
	// ProvideShippingMethods validates an address and offers methods for it.
	// ctx is cancelled when the session ends.
	ProvideShippingMethods(ctx context.Context, address Address) ShippingMethods
	// OnPaymentSuccess fires at most once, after the backend accepted the charge.
	OnPaymentSuccess()
	// OnError fires at most once, in place of OnPaymentSuccess.
	OnError(code int, message string)
}

// ShippingProvider is the address half of Listener.
type ShippingProvider interface {
	ProvideShippingMethods(ctx context.Context, address Address) ShippingMethods
}

// LogListener logs every callback and takes shipping methods from Provider.
type LogListener struct {
	Provider ShippingProvider
	Logger   *zap.SugaredLogger
}

func (l LogListener) OnPaymentDataChanged(data PaymentData) {
	var method, shipping string
	if data.PaymentMethod != nil {
		method = data.PaymentMethod.Label
	}
	if data.ShippingInfo != nil {
		shipping = data.ShippingInfo.Identifier
	}
	l.Logger.Infow("payment data changed", "ready", data.IsReadyToCharge, "payment_method", method, "shipping_method", shipping)
}

func (l LogListener) ProvideShippingMethods(ctx context.Context, address Address) ShippingMethods {
	res := l.Provider.ProvideShippingMethods(ctx, address)
	l.Logger.Infow("shipping methods provided", "country", address.Country, "valid", res.IsValid, "count", len(res.ShippingMethods), "error", res.ValidationError)
	return res
}

func (l LogListener) OnPaymentSuccess() {
	l.Logger.Infow("payment succeeded")
}

func (l LogListener) OnError(code int, message string) {
	l.Logger.Warnw("payment failed", "code", code, "message", message)
}
