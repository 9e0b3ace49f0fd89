package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"

	"github.com/tbeaudouin05/stripe-paysheet/api/config"
	"github.com/tbeaudouin05/stripe-paysheet/api/database"
	stripeapp "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/app"
	stripedb "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/db"
	stripegw "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway/stripe"
)

var (
	stripeService stripeapp.Service
	healthServer  *health.Server
	limiterStore  limiter.Store
	rate          limiter.Rate
	logger        *zap.SugaredLogger
)

var initOnce sync.Once
var initErr error

// Init initializes config, database, and third-party clients, and wires services.
func Init() error {
	// If a service has already been injected (e.g., tests), do not override or init heavy deps.
	if stripeService != nil {
		return nil
	}
	var err error
	if config.AppConfig == nil {
		config.AppConfig, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg := config.AppConfig

	if logger == nil {
		zl, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		zap.ReplaceGlobals(zl)
		logger = zl.Sugar()
	}

	payment, err := config.PaymentConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load payment configuration: %w", err)
	}
	if err := config.SetShared(payment); err != nil && !errors.Is(err, config.ErrAlreadyConfigured) {
		return err
	}
	if err := payment.Validate(); err != nil {
		logger.Warnw("payment configuration incomplete; clients cannot start sessions", "error", err)
	}

	store, err := chargeStore(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	if rate, err = limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}
	if limiterStore, err = newLimiterStore(cfg.RedisURL); err != nil {
		return err
	}

	healthServer = health.NewServer()

	stripegw.SetKey(cfg.StripeSecretKey)
	var account string
	if s := config.Shared(); s != nil && s.StripeAccount != nil {
		account = *s.StripeAccount
	}
	stripeService = stripeapp.NewService(stripegw.New(account), store, cfg.Currency, logger)
	return nil
}

// chargeStore returns the Postgres ledger when a database is configured and
// an in-memory one otherwise.
func chargeStore(dsn string) (stripeapp.ChargeStore, error) {
	if dsn == "" {
		logger.Warnw("DATABASE_URL not set; charge ledger is in memory")
		return stripedb.NewMemoryStore(), nil
	}
	if err := database.Initialize(dsn); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, database.GetDB()); err != nil {
		return nil, err
	}
	return stripedb.NewPostgresStore(database.GetDB()), nil
}

func newLimiterStore(redisURL string) (limiter.Store, error) {
	if redisURL == "" {
		return memory.NewStore(), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	store, err := sredis.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{
		Prefix: "paysheet:limiter",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}
	return store, nil
}

func GetStripeService() stripeapp.Service { return stripeService }

// SetStripeService allows tests to inject a stub implementation.
func SetStripeService(s stripeapp.Service) { stripeService = s }

func GetHealth() *health.Server { return healthServer }

func GetLimiterStore() limiter.Store { return limiterStore }

func GetRate() limiter.Rate { return rate }

// GetLogger returns the process logger, or a no-op logger before Init.
func GetLogger() *zap.SugaredLogger {
	if logger == nil {
		return zap.NewNop().Sugar()
	}
	return logger
}

// Ensure runs Init() once per process and returns any initialization error.
func Ensure() error {
	initOnce.Do(func() {
		initErr = Init()
	})
	return initErr
}
