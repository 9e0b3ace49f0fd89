package paysheet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/tbeaudouin05/stripe-paysheet/api/config"
	gw "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateCharging
	StateSucceeded
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	case StateCharging:
		return "charging"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further events are accepted.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateClosed
}

const DefaultTimeout = 30 * time.Second

type Option func(*Session)

// WithTimeout bounds every backend and shipping-provider call.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Session) { s.logger = l }
}

// Session drives one checkout: it fetches the ephemeral key, collects the
// address and selections, and completes the charge through the backend.
//
// Listener callbacks are delivered while the session lock is held, so a
// listener must not call back into the same session.
type Session struct {
	id       string
	cfg      *config.PaymentConfiguration
	backend  gw.BackendAPI
	listener Listener
	logger   *zap.SugaredLogger
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	key      gw.EphemeralKey
	address  *Address
	shipping ShippingMethods
	method   *PaymentMethod
	selected *ShippingMethod
	last     *PaymentData
}

// NewSession creates an idle session. A nil cfg falls back to config.Shared().
func NewSession(cfg *config.PaymentConfiguration, backend gw.BackendAPI, listener Listener, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.Shared()
	}
	s := &Session{
		id:       ulid.Make().String(),
		cfg:      cfg,
		backend:  backend,
		listener: listener,
		logger:   zap.NewNop().Sugar(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Data returns the current snapshot.
func (s *Session) Data() PaymentData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Start fetches the ephemeral key. If it fails the session stays idle and
// the payment UI must not be shown.
func (s *Session) Start(ctx context.Context) (gw.EphemeralKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return gw.EphemeralKey{}, ErrSessionClosed
	}
	if s.state != StateIdle {
		return s.key, nil
	}
	if err := s.cfg.Validate(); err != nil {
		return gw.EphemeralKey{}, err
	}

	cctx, cancel := s.callContext(ctx)
	defer cancel()
	key, err := s.backend.CreateCustomerKey(cctx, s.cfg.APIVersion)
	if err != nil {
		s.logger.Warnw("create customer key failed", "session_id", s.id, "api_version", s.cfg.APIVersion, "error", err)
		return gw.EphemeralKey{}, fmt.Errorf("%w: create customer key: %w", ErrGateway, err)
	}
	s.key = key
	s.state = StateOpen
	s.logger.Infow("payment session opened", "session_id", s.id)
	return key, nil
}

// SetShippingAddress asks the listener for shipping methods for addr. The
// listener is consulted once per distinct address; repeats return the
// previous result.
func (s *Session) SetShippingAddress(ctx context.Context, addr Address) (ShippingMethods, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return ShippingMethods{}, err
	}
	if s.address != nil && *s.address == addr {
		return s.shipping, nil
	}

	pctx, cancel := s.callContext(ctx)
	res := s.listener.ProvideShippingMethods(pctx, addr)
	cancel()
	if err := res.Validate(); err != nil {
		s.logger.Errorw("shipping provider broke contract", "session_id", s.id, "error", err)
		return ShippingMethods{}, err
	}

	a := addr
	s.address = &a
	s.shipping = res
	s.selected = nil
	if res.IsValid && res.SelectedShippingMethod != nil {
		sel := *res.SelectedShippingMethod
		s.selected = &sel
	}
	s.publish()
	return res, nil
}

// SelectPaymentMethod records the instrument the user picked.
func (s *Session) SelectPaymentMethod(pm PaymentMethod) error {
	if pm.ID == "" {
		return ErrInvalidPaymentMethod
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return err
	}
	s.method = &pm
	s.publish()
	return nil
}

// SelectShippingMethod picks one of the methods offered for the current address.
func (s *Session) SelectShippingMethod(identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return err
	}
	if s.address == nil || !s.shipping.IsValid {
		return fmt.Errorf("%w: %q", ErrUnknownShippingMethod, identifier)
	}
	m, ok := s.shipping.Find(identifier)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownShippingMethod, identifier)
	}
	s.selected = &m
	s.publish()
	return nil
}

// Complete charges amount (minor units) through the backend. Only one charge
// may be in flight; success or failure ends the session.
func (s *Session) Complete(ctx context.Context, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	s.mu.Lock()
	if err := s.mutable(); err != nil {
		s.mu.Unlock()
		return err
	}
	if !s.snapshot().IsReadyToCharge {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.state = StateCharging
	token := s.method.ID
	var shippingHash string
	if s.address != nil {
		shippingHash = EncodeShipping(*s.address)
	}
	s.mu.Unlock()

	cctx, cancel := s.callContext(gw.WithIdempotencyKey(ctx, s.id))
	err := s.backend.CompleteCharge(cctx, token, amount, shippingHash)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCharging {
		return ErrSessionClosed
	}
	defer s.cancel()

	if err != nil {
		s.state = StateFailed
		code, msg := gw.CodeOf(err)
		s.logger.Warnw("charge failed", "session_id", s.id, "amount", amount, "code", code, "error", err)
		s.listener.OnError(code, msg)
		return fmt.Errorf("%w: complete charge: %w", ErrGateway, err)
	}

	s.state = StateSucceeded
	s.logger.Infow("charge completed", "session_id", s.id, "amount", amount)
	s.listener.OnPaymentSuccess()
	return nil
}

// Fail ends the session with an error reported by the payment SDK.
func (s *Session) Fail(code int, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return ErrSessionClosed
	}
	s.state = StateFailed
	s.cancel()
	s.listener.OnError(code, message)
	return nil
}

// Close abandons the session without any callback.
func (s *Session) Close() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Terminal() {
		s.state = StateClosed
	}
}

func (s *Session) mutable() error {
	switch {
	case s.state.Terminal():
		return ErrSessionClosed
	case s.state == StateIdle:
		return ErrNotStarted
	case s.state == StateCharging:
		return ErrChargeInFlight
	}
	return nil
}

func (s *Session) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Session) snapshot() PaymentData {
	d := PaymentData{}
	if s.method != nil {
		pm := *s.method
		d.PaymentMethod = &pm
	}
	if s.selected != nil {
		sm := *s.selected
		d.ShippingInfo = &sm
	}
	d.IsReadyToCharge = s.method != nil && s.shippingReady()
	return d
}

func (s *Session) shippingReady() bool {
	if s.address == nil {
		return !s.cfg.RequiresShipping()
	}
	return s.shipping.IsValid && s.selected != nil
}

func (s *Session) publish() {
	snap := s.snapshot()
	if s.last != nil && s.last.Equal(snap) {
		return
	}
	s.last = &snap
	s.listener.OnPaymentDataChanged(snap)
}
