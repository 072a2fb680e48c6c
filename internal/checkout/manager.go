package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/farmbasket/checkout-service/internal/cart"
	"github.com/farmbasket/checkout-service/internal/gateway"
	"github.com/farmbasket/checkout-service/internal/metrics"
	"github.com/farmbasket/checkout-service/internal/orders"
)

const (
	defaultSessionTTL    = 30 * time.Minute
	defaultSweepInterval = 5 * time.Minute
)

// Manager holds at most one checkout session per cart owner. Abandoned
// sessions are swept after a TTL; abandonment has no side effects on the
// cart or any order.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Controller

	deps       ManagerDeps
	now        func() time.Time
	sessionTTL time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// ManagerDeps are the collaborators shared by every session the manager
// creates. The cart store is per owner and supplied at Begin.
type ManagerDeps struct {
	Gateway         gateway.Adapter
	Collector       *gateway.Collector
	Orders          orders.Submitter
	Stock           StockChecker
	Recorder        EventRecorder
	SignatureSecret string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSessionTTL overrides how long an inactive session survives.
func WithSessionTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.sessionTTL = ttl
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager and starts its sweep loop.
func NewManager(deps ManagerDeps, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:   make(map[string]*Controller),
		deps:       deps,
		now:        time.Now,
		sessionTTL: defaultSessionTTL,
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	go m.sweepLoop()
	return m
}

// Begin starts a fresh checkout session for the owner from a snapshot of the
// given cart store. Any previous session for the owner is discarded, which
// is also how an abandoned attempt is restarted — except while the previous
// session is still collecting an online payment: replacing it then would
// leave a capture with no session to verify it against.
func (m *Manager) Begin(ctx context.Context, ownerID string, store cart.Store) (State, error) {
	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		return State{}, err
	}
	if snapshot.IsEmpty() {
		return State{}, ErrEmptyCart
	}

	deps := Deps{
		Cart:            store,
		Gateway:         m.deps.Gateway,
		Collector:       m.deps.Collector,
		Orders:          m.deps.Orders,
		Stock:           m.deps.Stock,
		Recorder:        m.deps.Recorder,
		SignatureSecret: m.deps.SignatureSecret,
	}
	ctrl := newController(ownerID, snapshot, deps, m.now)

	m.mu.Lock()
	if prev, ok := m.sessions[ownerID]; ok && prev.paymentPending() {
		m.mu.Unlock()
		return State{}, ErrPaymentInFlight
	}
	m.sessions[ownerID] = ctrl
	metrics.ActiveCheckoutSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	if m.deps.Recorder != nil {
		st := ctrl.State()
		m.deps.Recorder.Record(ctx, TransitionEvent{
			OwnerID:   ownerID,
			SessionID: st.SessionID,
			To:        st.Step,
			Detail:    "checkout started",
		})
	}
	return ctrl.State(), nil
}

// Session returns the owner's active checkout controller.
func (m *Manager) Session(ownerID string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctrl, ok := m.sessions[ownerID]
	if !ok {
		return nil, ErrNoSession
	}
	return ctrl, nil
}

// SessionByGatewayOrder finds the controller whose online payment is pending
// on the given gateway order. Used by the gateway callback endpoints, which
// carry the gateway's reference rather than the owner's.
func (m *Manager) SessionByGatewayOrder(gatewayOrderID string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ctrl := range m.sessions {
		if ctrl.gatewayOrderRef() == gatewayOrderID {
			return ctrl, nil
		}
	}
	return nil, ErrNoSession
}

// Drop discards the owner's session, if any.
func (m *Manager) Drop(ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, ownerID)
	metrics.ActiveCheckoutSessions.Set(float64(len(m.sessions)))
}

// Close stops the sweep loop.
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(defaultSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

// sweep drops sessions idle past the TTL and confirmed sessions past a
// short grace period for receipt reads.
func (m *Manager) sweep() {
	cutoff := m.now().Add(-m.sessionTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for ownerID, ctrl := range m.sessions {
		st := ctrl.State()
		if st.UpdatedAt.Before(cutoff) {
			delete(m.sessions, ownerID)
		}
	}
	metrics.ActiveCheckoutSessions.Set(float64(len(m.sessions)))
}
