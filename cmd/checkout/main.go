// Command checkout runs one payment session against a merchant backend: it
// fetches an ephemeral key, quotes shipping for the given address and charges
// the given payment token.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tbeaudouin05/stripe-paysheet/api/config"
	"github.com/tbeaudouin05/stripe-paysheet/api/paysheet"
	"github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway/httpbackend"
)

var shippingMethods = []paysheet.ShippingMethod{
	{Amount: 0, Label: "Standard", Detail: "5-7 business days", Identifier: "standard"},
	{Amount: 999, Label: "Express", Detail: "1-2 business days", Identifier: "express"},
}

func main() {
	zl, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := zl.Sugar()
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatalw("checkout failed", "error", err)
	}
}

func run(logger *zap.SugaredLogger) error {
	payment, err := config.PaymentConfigFromEnv()
	if err != nil {
		return err
	}
	if err := config.SetShared(payment); err != nil {
		return err
	}

	var (
		backendURL = flag.String("backend", os.Getenv("BACKEND_URL"), "merchant backend base URL, e.g. http://localhost:8080/api")
		token      = flag.String("token", os.Getenv("BACKEND_TOKEN"), "bearer token for the backend")
		source     = flag.String("source", "tok_visa", "payment method token to charge")
		label      = flag.String("label", "Visa 4242", "payment method label")
		amount     = flag.Int64("amount", 1999, "order amount in minor units, shipping excluded")
		method     = flag.String("shipping-method", "", "shipping method identifier; defaults to the first offered")
		countries  = flag.String("countries", "US,CA", "comma-separated countries shipping is offered to")
		timeout    = flag.Duration("timeout", paysheet.DefaultTimeout, "per-call backend timeout")
		addr       paysheet.Address
	)
	flag.StringVar(&addr.Name, "name", "", "shipping name")
	flag.StringVar(&addr.Phone, "phone", "", "shipping phone")
	flag.StringVar(&addr.Line1, "line1", "", "shipping address line 1")
	flag.StringVar(&addr.Line2, "line2", "", "shipping address line 2")
	flag.StringVar(&addr.City, "city", "", "shipping city")
	flag.StringVar(&addr.State, "state", "", "shipping state")
	flag.StringVar(&addr.PostalCode, "postal-code", "", "shipping postal code")
	flag.StringVar(&addr.Country, "country", "", "shipping country (ISO 3166-1 alpha-2)")
	flag.Parse()

	if *backendURL == "" {
		return fmt.Errorf("backend URL is required (-backend or BACKEND_URL)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := httpbackend.NewClient(httpbackend.ClientConfig{
		BaseURL:        *backendURL,
		Token:          *token,
		RequestTimeout: *timeout,
	}, logger)
	provider := paysheet.NewStaticShippingProvider(shippingMethods, strings.Split(*countries, ",")...)
	listener := paysheet.LogListener{Provider: provider, Logger: logger}

	session := paysheet.NewSession(nil, backend, listener,
		paysheet.WithTimeout(*timeout),
		paysheet.WithLogger(logger),
	)
	defer session.Close()
	go func() {
		<-ctx.Done()
		session.Close()
	}()

	if _, err := session.Start(ctx); err != nil {
		return err
	}

	total := *amount
	if payment.RequiresShipping() || addr != (paysheet.Address{}) {
		res, err := session.SetShippingAddress(ctx, addr)
		if err != nil {
			return err
		}
		if !res.IsValid {
			return fmt.Errorf("address rejected: %s", res.ValidationError)
		}
		if *method != "" {
			if err := session.SelectShippingMethod(*method); err != nil {
				return err
			}
		}
		if info := session.Data().ShippingInfo; info != nil {
			total += info.Amount
		}
	}

	if err := session.SelectPaymentMethod(paysheet.PaymentMethod{ID: *source, Label: *label}); err != nil {
		return err
	}

	start := time.Now()
	if err := session.Complete(ctx, total); err != nil {
		return err
	}
	logger.Infow("checkout complete", "session_id", session.ID(), "amount", total, "duration", time.Since(start))
	return nil
}
