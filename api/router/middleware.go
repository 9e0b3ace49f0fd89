package router

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"go.uber.org/zap"

	gw "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway"
)

func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Infow("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// ipKey keys the limiter on the client IP; RealIP has already rewritten
// RemoteAddr when a proxy header was present.
func ipKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rateLimit(store limiter.Store, rate limiter.Rate, h *handler) *stdlib.Middleware {
	l := limiter.New(store, rate)
	return stdlib.NewMiddleware(l,
		stdlib.WithKeyGetter(ipKey),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			h.writeError(w, r, &gw.BackendError{Code: http.StatusTooManyRequests, Message: "rate limit exceeded"})
		}),
	)
}
