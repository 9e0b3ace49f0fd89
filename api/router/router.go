package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/form/v4"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	"google.golang.org/protobuf/encoding/protojson"

	bootstrap "github.com/tbeaudouin05/stripe-paysheet/api/bootstrap"
	"github.com/tbeaudouin05/stripe-paysheet/api/config"
	stripeapp "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/app"
	"github.com/tbeaudouin05/stripe-paysheet/api/validator"
)

// Deps is everything the HTTP surface needs. Store and Rate are optional;
// without a Store requests are not rate limited.
type Deps struct {
	Service           stripeapp.Service
	Payment           *config.PaymentConfiguration
	DefaultCustomerID string
	Health            *health.Server
	Store             limiter.Store
	Rate              limiter.Rate
	Logger            *zap.SugaredLogger
}

// NewRouter returns the central HTTP router wired from bootstrap.
func NewRouter() http.Handler {
	// Initialize app dependencies (non-fatal if it fails here; handlers re-check).
	if err := bootstrap.Ensure(); err != nil {
		zap.S().Errorw("bootstrap ensure failed", "error", err)
	}
	return New(Deps{
		Service:           bootstrap.GetStripeService(),
		Payment:           config.Shared(),
		DefaultCustomerID: defaultCustomerID(),
		Health:            bootstrap.GetHealth(),
		Store:             bootstrap.GetLimiterStore(),
		Rate:              bootstrap.GetRate(),
		Logger:            bootstrap.GetLogger(),
	})
}

func defaultCustomerID() string {
	if config.AppConfig == nil {
		return ""
	}
	return config.AppConfig.DefaultCustomerID
}

// New builds the router: chi middleware in front of a grpc-gateway ServeMux
// that carries the payment routes.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop().Sugar()
	}
	h := &handler{
		svc:             d.Service,
		payment:         d.Payment,
		defaultCustomer: d.DefaultCustomerID,
		health:          d.Health,
		decoder:         form.NewDecoder(),
		validator:       validator.New(),
		logger:          d.Logger,
		marshaler: &runtime.JSONPb{MarshalOptions: protojson.MarshalOptions{
			UseProtoNames:   true,
			EmitUnpopulated: true,
		}},
	}

	mux := runtime.NewServeMux()
	mustHandle(mux, http.MethodGet, "/api/config", h.getConfig)
	mustHandle(mux, http.MethodPost, "/api/ephemeral_keys", h.createEphemeralKey)
	mustHandle(mux, http.MethodPost, "/api/capture_payment", h.capturePayment)
	mustHandle(mux, http.MethodGet, "/healthz", h.healthz)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", customerHeader},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if d.Store != nil {
		r.Use(rateLimit(d.Store, d.Rate, h).Handler)
	}
	r.Handle("/*", mux)
	return r
}

func mustHandle(mux *runtime.ServeMux, method, path string, fn runtime.HandlerFunc) {
	if err := mux.HandlePath(method, path, fn); err != nil {
		panic(err)
	}
}
