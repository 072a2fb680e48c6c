package cart

import (
	"sync"
	"time"

	"github.com/farmbasket/checkout-service/internal/pricing"
	"github.com/farmbasket/checkout-service/internal/repository"
)

const (
	defaultGuestTTL      = 30 * time.Minute
	defaultSweepInterval = 5 * time.Minute
)

// Registry hands out cart stores by owner. Guest owners get in-process
// stores; authenticated owners get Mongo-backed stores when a repository is
// configured. The checkout controller is agnostic to which backing is active.
//
// Guest stores live only as long as someone keeps using them: a sweep loop
// evicts stores idle past the TTL, so anonymous traffic cannot grow the map
// without bound.
type Registry struct {
	calc *pricing.Calculator
	repo repository.CartsRepositoryInterface

	mu     sync.Mutex
	guests map[string]*guestEntry

	now      func() time.Time
	guestTTL time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type guestEntry struct {
	store    *MemoryStore
	lastSeen time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithGuestTTL overrides how long an untouched guest cart survives.
func WithGuestTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) {
		if ttl > 0 {
			r.guestTTL = ttl
		}
	}
}

// WithRegistryClock overrides the time source, for tests.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a cart registry and starts its guest sweep loop. repo
// may be nil; authenticated owners then fall back to in-process carts.
func NewRegistry(calc *pricing.Calculator, repo repository.CartsRepositoryInterface, opts ...RegistryOption) *Registry {
	r := &Registry{
		calc:     calc,
		repo:     repo,
		guests:   make(map[string]*guestEntry),
		now:      time.Now,
		guestTTL: defaultGuestTTL,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.sweepLoop()
	return r
}

// ForOwner returns the store for the given owner, creating it on first use.
func (r *Registry) ForOwner(ownerID string, authenticated bool) Store {
	if authenticated && r.repo != nil {
		// Server-backed stores are stateless per request; the document in
		// MongoDB is the shared state.
		return NewMongoStore(ownerID, r.repo, r.calc)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.guests[ownerID]
	if !ok {
		entry = &guestEntry{store: NewMemoryStore(r.calc)}
		r.guests[ownerID] = entry
	}
	entry.lastSeen = r.now()
	return entry.store
}

// Drop discards a guest owner's in-process cart, used on logout.
func (r *Registry) Drop(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.guests, ownerID)
}

// Close stops the guest sweep loop.
func (r *Registry) Close() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}

func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(defaultSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stop:
			return
		}
	}
}

// sweep evicts guest carts untouched past the TTL. A swept cart is simply
// gone; the next request with the same session id starts empty.
func (r *Registry) sweep() {
	cutoff := r.now().Add(-r.guestTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	for ownerID, entry := range r.guests {
		if entry.lastSeen.Before(cutoff) {
			delete(r.guests, ownerID)
		}
	}
}
