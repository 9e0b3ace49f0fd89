package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/form/v4"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/tbeaudouin05/stripe-paysheet/api/config"
	"github.com/tbeaudouin05/stripe-paysheet/api/paysheet"
	stripeapp "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/app"
	gw "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway"
	"github.com/tbeaudouin05/stripe-paysheet/api/validator"
)

const customerHeader = "X-Customer-ID"

type handler struct {
	svc             stripeapp.Service
	payment         *config.PaymentConfiguration
	defaultCustomer string
	health          *health.Server
	decoder         *form.Decoder
	validator       *validator.Validator
	marshaler       *runtime.JSONPb
	logger          *zap.SugaredLogger
}

type ephemeralKeyInput struct {
	APIVersion string `form:"api_version" validate:"required"`
}

type captureInput struct {
	Source string `form:"source" validate:"required"`
	Amount string `form:"amount" validate:"required"`
}

// getConfig returns the client-safe payment configuration.
func (h *handler) getConfig(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if h.payment == nil {
		h.writeError(w, r, &gw.BackendError{Code: http.StatusServiceUnavailable, Message: config.ErrMissingKey.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, h.payment)
}

// createEphemeralKey mints a key for the caller's customer and relays Stripe's
// key object unchanged.
func (h *handler) createEphemeralKey(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if h.svc == nil {
		h.writeError(w, r, errServiceUnavailable)
		return
	}
	var in ephemeralKeyInput
	if !h.decodeForm(w, r, &in) {
		return
	}

	key, err := h.svc.CreateCustomerKey(r.Context(), h.customerID(r), in.APIVersion)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(key.Raw)
}

// capturePayment charges source for amount with the shipping[...] fields
// of the form attached to the charge.
func (h *handler) capturePayment(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if h.svc == nil {
		h.writeError(w, r, errServiceUnavailable)
		return
	}
	var in captureInput
	if !h.decodeForm(w, r, &in) {
		return
	}
	amount, err := stripeapp.ParseAmount(in.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	addr, hasShipping := paysheet.DecodeShipping(r.PostForm)

	res, err := h.svc.CompleteCharge(r.Context(), stripeapp.ChargeRequest{
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
		CustomerID:     h.customerID(r),
		Source:         in.Source,
		Amount:         amount,
		Shipping:       addr,
		HasShipping:    hasShipping,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// healthz reports the serving status of the gRPC health server.
func (h *handler) healthz(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	resp := &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}
	if h.health != nil {
		var err error
		resp, err = h.health.Check(r.Context(), &healthpb.HealthCheckRequest{})
		if err != nil {
			resp = &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_UNKNOWN}
		}
	}
	b, err := protojson.Marshal(resp)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

var errServiceUnavailable = &gw.BackendError{Code: http.StatusServiceUnavailable, Message: "payment service is not configured"}

func (h *handler) customerID(r *http.Request) string {
	if id := r.Header.Get(customerHeader); id != "" {
		return id
	}
	return h.defaultCustomer
}

// decodeForm parses the urlencoded body into dst and validates it. It writes
// the error response itself and reports whether the handler may continue.
func (h *handler) decodeForm(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", stripeapp.ErrBadRequest, err))
		return false
	}
	if err := h.decoder.Decode(dst, r.PostForm); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", stripeapp.ErrBadRequest, err))
		return false
	}
	if verr := h.validator.Struct(dst); verr != nil {
		h.writeError(w, r, &gw.BackendError{Code: http.StatusBadRequest, Message: verr.First()})
		return false
	}
	return true
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := h.marshaler.Marshal(v)
	if err != nil {
		h.logger.Errorw("failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.marshaler.ContentType(v))
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// writeError answers with {"code":..,"message":..}, the body the backend
// client decodes.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	be := stripeapp.AsBackendError(err)
	status := be.Code
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		h.logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else if !errors.Is(err, stripeapp.ErrBadRequest) {
		h.logger.Infow("request rejected", "method", r.Method, "path", r.URL.Path, "code", be.Code, "error", err)
	}
	h.writeJSON(w, status, be)
}
