package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farmbasket/checkout-service/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockClient_CheckStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/product/availability", r.URL.Path)

		var req struct {
			ProductIDs []string `json:"productIds"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, req.ProductIDs)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []Availability{
				{ProductID: "p1", Stock: 5},
				{ProductID: "p2", Stock: 0},
			},
		})
	}))
	defer srv.Close()

	c := NewStockClient(srv.URL, time.Second)
	stock, err := c.CheckStock(context.Background(), []string{"p1", "p2", "p3"})
	require.NoError(t, err)

	assert.Equal(t, int64(5), stock["p1"])
	assert.Equal(t, int64(0), stock["p2"])
	// Unknown products count as out of stock.
	assert.Equal(t, int64(0), stock["p3"])
}

func TestStockClient_EmptyInput(t *testing.T) {
	c := NewStockClient("http://unreachable.invalid", time.Second)
	stock, err := c.CheckStock(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stock)
}

func TestStockClient_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewStockClient(srv.URL, time.Second).CheckStock(context.Background(), []string{"p1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestStockClient_CircuitBreakerWrapsCalls(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []Availability{{ProductID: "p1", Stock: 5}},
		})
	}))
	defer srv.Close()

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "order-backend",
	})
	c := NewStockClient(srv.URL, time.Second, WithCircuitBreaker(cb))

	stock, err := c.CheckStock(context.Background(), []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock["p1"])
	assert.Equal(t, 1, calls)

	// Trip the breaker; the next lookup must short-circuit without reaching
	// the backend.
	_ = cb.Execute(context.Background(), func() error { return assert.AnError })
	require.Equal(t, circuitbreaker.StateOpen, cb.State())

	_, err = c.CheckStock(context.Background(), []string{"p1"})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 1, calls)
}
