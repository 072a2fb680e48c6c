package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ResolveDeliversResult(t *testing.T) {
	c := NewCollector()
	c.Open("order_1")
	require.True(t, c.Pending("order_1"))

	done := make(chan struct{})
	var got model.GatewayResult
	var err error
	go func() {
		defer close(done)
		got, err = c.Collect(context.Background(), "order_1")
	}()

	// Collect blocks until the callback lands.
	require.NoError(t, c.Resolve("order_1", model.GatewayResult{
		GatewayOrderID:   "order_1",
		GatewayPaymentID: "pay_9",
		Signature:        "sig",
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collect did not return after resolve")
	}

	require.NoError(t, err)
	assert.Equal(t, "pay_9", got.GatewayPaymentID)
	assert.False(t, c.Pending("order_1"))
}

func TestCollector_Dismiss(t *testing.T) {
	c := NewCollector()
	c.Open("order_1")

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Collect(context.Background(), "order_1")
		errCh <- err
	}()

	require.NoError(t, c.Dismiss("order_1"))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrDismissed)
	case <-time.After(time.Second):
		t.Fatal("collect did not return after dismiss")
	}
}

func TestCollector_Fail(t *testing.T) {
	c := NewCollector()
	c.Open("order_1")

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Collect(context.Background(), "order_1")
		errCh <- err
	}()

	wantErr := errors.New("processor declined")
	require.NoError(t, c.Fail("order_1", wantErr))
	assert.ErrorIs(t, <-errCh, wantErr)
}

func TestCollector_UnknownCollection(t *testing.T) {
	c := NewCollector()
	_, err := c.Collect(context.Background(), "never-opened")
	assert.ErrorIs(t, err, ErrUnknownCollection)
	assert.ErrorIs(t, c.Resolve("never-opened", model.GatewayResult{}), ErrUnknownCollection)
}

func TestCollector_ContextCancellation(t *testing.T) {
	c := NewCollector()
	c.Open("order_1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Collect(ctx, "order_1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.Pending("order_1"), "cancelled collection is discarded")
}
