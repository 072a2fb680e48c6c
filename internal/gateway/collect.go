package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/farmbasket/checkout-service/internal/domain/model"
)

var (
	// ErrDismissed is returned when the buyer closes the widget without
	// paying. It is benign: no charge was made.
	ErrDismissed = errors.New("gateway collection dismissed")
	// ErrUnknownCollection is returned when an outcome arrives for a gateway
	// order with no pending collection.
	ErrUnknownCollection = errors.New("no pending collection for gateway order")
)

// outcome is the terminal result of one collection.
type outcome struct {
	result    model.GatewayResult
	dismissed bool
	err       error
}

// Collector tracks pending widget collections keyed by gateway order ID.
// Opening a collection suspends the caller of Collect until the external UI
// reports success, failure, or dismissal through Resolve/Fail/Dismiss. This
// turns the processor's callback surface into a single awaited result.
type Collector struct {
	mu      sync.Mutex
	pending map[string]chan outcome
}

// NewCollector creates an empty collection registry.
func NewCollector() *Collector {
	return &Collector{pending: make(map[string]chan outcome)}
}

// Open registers a pending collection for the gateway order. Re-opening an
// order replaces any previous pending collection.
func (c *Collector) Open(gatewayOrderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[gatewayOrderID] = make(chan outcome, 1)
}

// Pending reports whether a collection is open for the gateway order.
func (c *Collector) Pending(gatewayOrderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[gatewayOrderID]
	return ok
}

// Resolve completes a pending collection with the widget's signed result.
func (c *Collector) Resolve(gatewayOrderID string, result model.GatewayResult) error {
	return c.complete(gatewayOrderID, outcome{result: result})
}

// Dismiss completes a pending collection as dismissed: no charge was made.
func (c *Collector) Dismiss(gatewayOrderID string) error {
	return c.complete(gatewayOrderID, outcome{dismissed: true})
}

// Fail completes a pending collection with the gateway's failure detail.
func (c *Collector) Fail(gatewayOrderID string, err error) error {
	return c.complete(gatewayOrderID, outcome{err: err})
}

func (c *Collector) complete(gatewayOrderID string, o outcome) error {
	c.mu.Lock()
	ch, ok := c.pending[gatewayOrderID]
	if ok {
		delete(c.pending, gatewayOrderID)
	}
	c.mu.Unlock()

	if !ok {
		return ErrUnknownCollection
	}
	ch <- o
	return nil
}

// Collect waits for the collection outcome. It returns ErrDismissed on
// dismissal, the gateway's error on failure, or ctx.Err() if the caller
// gives up first (the pending entry is then discarded).
func (c *Collector) Collect(ctx context.Context, gatewayOrderID string) (model.GatewayResult, error) {
	c.mu.Lock()
	ch, ok := c.pending[gatewayOrderID]
	c.mu.Unlock()
	if !ok {
		return model.GatewayResult{}, ErrUnknownCollection
	}

	select {
	case o := <-ch:
		if o.dismissed {
			return model.GatewayResult{}, ErrDismissed
		}
		if o.err != nil {
			return model.GatewayResult{}, o.err
		}
		return o.result, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, gatewayOrderID)
		c.mu.Unlock()
		return model.GatewayResult{}, ctx.Err()
	}
}
