package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the global application configuration
var AppConfig *Config

// Config holds the backend server configuration
type Config struct {
	DatabaseURL     string
	RedisURL        string
	StripeSecretKey string
	// Three-letter ISO currency charged by the backend
	Currency string
	// Customer used for ephemeral keys when the request carries none
	DefaultCustomerID string
	// Host backend consumed by the checkout client
	BackendURL   string
	BackendToken string
	// Optional: base URL for running remote HTTP integration tests (e.g., https://api.example.com)
	IntegrationBaseURL string
	// Server ports
	HTTPPort string
	GRPCPort string
	// Limiter rate in ulule/limiter format, e.g. "20-M"
	RateLimit string

	GatewayTimeoutRaw string
	// Parsed GatewayTimeoutRaw
	GatewayTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	vars := []struct {
		name     string
		envVar   string
		display  string
		required bool
	}{
		{"StripeSecretKey", "STRIPE_SECRET_KEY", "Stripe Secret Key", true},
		{"DatabaseURL", "DATABASE_URL", "Database URL", false},
		{"RedisURL", "REDIS_URL", "Redis URL", false},
		{"Currency", "CURRENCY", "Currency", false},
		{"DefaultCustomerID", "DEFAULT_CUSTOMER_ID", "Default Customer ID", false},
		{"BackendURL", "BACKEND_URL", "Backend URL", false},
		{"BackendToken", "BACKEND_TOKEN", "Backend Token", false},
		{"IntegrationBaseURL", "INTEGRATION_BASE_URL", "Integration Base URL", false},
		{"HTTPPort", "PORT", "HTTP Port", false},
		{"GRPCPort", "GRPC_PORT", "gRPC Port", false},
		{"RateLimit", "RATE_LIMIT", "Rate Limit", false},
		{"GatewayTimeoutRaw", "GATEWAY_TIMEOUT", "Gateway Timeout", false},
	}

	for _, v := range vars {
		value := os.Getenv(v.envVar)
		if v.required && value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", v.display)
		}
		configField := reflect.ValueOf(config).Elem().FieldByName(v.name)
		configField.SetString(value)
	}

	// Defaults
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}
	if config.GRPCPort == "" {
		config.GRPCPort = "50051"
	}
	if config.Currency == "" {
		config.Currency = DefaultCurrency
	}
	if config.RateLimit == "" {
		config.RateLimit = DefaultRateLimit
	}
	if config.GatewayTimeoutRaw == "" {
		config.GatewayTimeout = DefaultGatewayTimeout
	} else {
		d, err := time.ParseDuration(config.GatewayTimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT %q: %w", config.GatewayTimeoutRaw, err)
		}
		config.GatewayTimeout = d
	}

	return config, nil
}

// loadDotEnv loads the first .env found walking up from the working directory.
func loadDotEnv() error {
	currentDir, _ := os.Getwd()
	for currentDir != "/" && currentDir != "." {
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("failed to load .env file: %v", err)
			}
			return nil
		}
		currentDir = filepath.Dir(currentDir)
	}
	return nil
}
