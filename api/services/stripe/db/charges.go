package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

type ChargeStatus string

const (
	ChargePending   ChargeStatus = "pending"
	ChargeSucceeded ChargeStatus = "succeeded"
	ChargeFailed    ChargeStatus = "failed"
)

var (
	// ErrDuplicate is returned by Begin when the key is pending or already succeeded.
	ErrDuplicate = errors.New("charge already recorded")
	ErrNotFound  = errors.New("charge not found")
)

// Charge is one ledger row, keyed by the client's idempotency key.
type Charge struct {
	IdempotencyKey string
	CustomerID     string
	Source         string
	Amount         int64
	Currency       string
	StripeChargeID string
	Status         ChargeStatus
	// Attempt counts Begin calls for the key, starting at 1. A failed key
	// retried by the client moves on to the next attempt.
	Attempt   int
	CreatedAt time.Time
}

// PostgresStore keeps the ledger in the charge table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

// Begin inserts c as pending. A failed row with the same key is reset to
// pending with its attempt incremented; any other existing row is returned
// together with ErrDuplicate.
func (s *PostgresStore) Begin(ctx context.Context, c Charge) (Charge, error) {
	row := s.db.QueryRowContext(ctx, `
INSERT INTO charge (idempotency_key, customer_id, source, amount, currency, status)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (idempotency_key) DO UPDATE
    SET customer_id = EXCLUDED.customer_id,
        source = EXCLUDED.source,
        amount = EXCLUDED.amount,
        currency = EXCLUDED.currency,
        status = EXCLUDED.status,
        stripe_charge_id = '',
        attempt = charge.attempt + 1,
        updated_at = now()
    WHERE charge.status = $7
RETURNING attempt, created_at`,
		c.IdempotencyKey, c.CustomerID, c.Source, c.Amount, c.Currency, ChargePending, ChargeFailed)

	c.Status = ChargePending
	err := row.Scan(&c.Attempt, &c.CreatedAt)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Charge{}, fmt.Errorf("begin charge: %w", err)
	}
	existing, err := s.Get(ctx, c.IdempotencyKey)
	if err != nil {
		return Charge{}, err
	}
	return existing, ErrDuplicate
}

// Finish records the outcome of the Stripe call.
func (s *PostgresStore) Finish(ctx context.Context, key string, status ChargeStatus, stripeChargeID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE charge SET status = $2, stripe_charge_id = $3, updated_at = now() WHERE idempotency_key = $1`,
		key, status, stripeChargeID)
	if err != nil {
		return fmt.Errorf("finish charge: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Charge, error) {
	var c Charge
	err := s.db.QueryRowContext(ctx, `
SELECT idempotency_key, customer_id, source, amount, currency, stripe_charge_id, status, attempt, created_at
FROM charge WHERE idempotency_key = $1`, key).
		Scan(&c.IdempotencyKey, &c.CustomerID, &c.Source, &c.Amount, &c.Currency, &c.StripeChargeID, &c.Status, &c.Attempt, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Charge{}, ErrNotFound
	}
	if err != nil {
		return Charge{}, fmt.Errorf("get charge: %w", err)
	}
	return c, nil
}

// MemoryStore is an in-process ledger for tests and database-less runs.
type MemoryStore struct {
	mu      sync.Mutex
	charges map[string]Charge
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{charges: make(map[string]Charge), now: time.Now}
}

func (s *MemoryStore) Begin(_ context.Context, c Charge) (Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.charges[c.IdempotencyKey]
	if ok && existing.Status != ChargeFailed {
		return existing, ErrDuplicate
	}
	c.Attempt = existing.Attempt + 1
	c.Status = ChargePending
	c.StripeChargeID = ""
	c.CreatedAt = s.now()
	s.charges[c.IdempotencyKey] = c
	return c, nil
}

func (s *MemoryStore) Finish(_ context.Context, key string, status ChargeStatus, stripeChargeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.charges[key]
	if !ok {
		return ErrNotFound
	}
	c.Status = status
	c.StripeChargeID = stripeChargeID
	s.charges[key] = c
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.charges[key]
	if !ok {
		return Charge{}, ErrNotFound
	}
	return c, nil
}
