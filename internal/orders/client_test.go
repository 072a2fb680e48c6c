package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farmbasket/checkout-service/internal/circuitbreaker"
	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() model.Address {
	return model.Address{
		FullName:    "Asha Patil",
		Phone:       "9876543210",
		AddressLine: "14 Market Road",
		City:        "Pune",
		State:       "Maharashtra",
		Zip:         "411001",
		Country:     "India",
	}
}

func TestClient_CreateCashOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/order/cash", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(220), req["amount"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]string{"_id": "64ffa1", "orderId": "ord-8f3a"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	order, err := c.CreateCashOrder(context.Background(), 220, testAddress(), []model.CartLine{{ProductID: "p1", Quantity: 2}})
	require.NoError(t, err)

	assert.Equal(t, "ord-8f3a", order.OrderID)
	assert.Equal(t, model.PaymentCash, order.PaymentMethod)
	assert.Equal(t, model.OrderStatusConfirmed, order.Status)
	assert.Equal(t, int64(220), order.Amount)
}

func TestClient_CreateCashOrder_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "address serviceability check failed",
		})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).CreateCashOrder(context.Background(), 220, testAddress(), nil)
	require.ErrorIs(t, err, ErrOrderRejected)
	assert.Contains(t, err.Error(), "serviceability")
}

func TestClient_CreateOrderDetails_SendsIdempotencyKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/order-details", r.URL.Path)
		assert.Equal(t, "ord-8f3a", r.Header.Get("Idempotency-Key"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).CreateOrderDetails(context.Background(), model.Order{
		OrderID:       "ord-8f3a",
		PaymentMethod: model.PaymentOnline,
		Status:        model.OrderStatusConfirmed,
		Amount:        220,
	})
	require.NoError(t, err)
}

func TestClient_CreateOrderDetails_FailureIsDistinct(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "backend error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "db down", http.StatusInternalServerError)
			},
		},
		{
			name: "backend reports failure",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "write conflict"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			err := NewClient(srv.URL, time.Second).CreateOrderDetails(context.Background(), model.Order{OrderID: "ord-1"})
			assert.ErrorIs(t, err, ErrOrderRecordFailed)
		})
	}
}

func TestClient_CircuitBreakerWrapsCalls(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]string{"_id": "64ffa1", "orderId": "ord-8f3a"},
		})
	}))
	defer srv.Close()

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "order-backend",
	})
	c := NewClient(srv.URL, time.Second, WithCircuitBreaker(cb))

	_, err := c.CreateCashOrder(context.Background(), 220, testAddress(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())

	// Trip the breaker; the next call must short-circuit without reaching
	// the backend.
	_ = cb.Execute(context.Background(), func() error { return assert.AnError })
	require.Equal(t, circuitbreaker.StateOpen, cb.State())

	_, err = c.CreateCashOrder(context.Background(), 220, testAddress(), nil)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 1, calls)
}
