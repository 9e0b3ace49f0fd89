package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ProdDbId is the identifier for the production database
	ProdDbId = "old-cloud"

	// DefaultAPIVersion is the Stripe API version requested for ephemeral keys
	DefaultAPIVersion = "2020-08-27"

	DefaultCurrency       = "usd"
	DefaultRateLimit      = "20-M"
	DefaultGatewayTimeout = 10 * time.Second
)

// ErrNoDatabase is returned by CheckNotProdDB when no database is configured.
var ErrNoDatabase = errors.New("DatabaseURL is not configured")

// CheckNotProdDB refuses database URLs that contain ProdDbId.
// Call it at the start of any test that interacts with the database.
func CheckNotProdDB(databaseURL string) error {
	if databaseURL == "" {
		return ErrNoDatabase
	}
	if strings.Contains(databaseURL, ProdDbId) {
		return fmt.Errorf("tests aborted: DatabaseURL contains production identifier %s", ProdDbId)
	}
	return nil
}
