package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CredentialCachedUntilExpiry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment/gateway/key", r.URL.Path)
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]string{"key": "rzp_test_abc"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, WithCredentialTTL(time.Hour))
	ctx := context.Background()

	first, err := c.Credential(ctx)
	require.NoError(t, err)
	second, err := c.Credential(ctx)
	require.NoError(t, err)

	assert.Equal(t, "rzp_test_abc", first.Key)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "credential fetched once")

	c.InvalidateCredential()
	_, err = c.Credential(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "re-fetched after invalidation")
}

func TestClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment/gateway/order", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(220), req["amount"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"gatewayOrderId": "order_N4Xkz1",
			"amount":         220,
			"currency":       "INR",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	order, err := c.CreateOrder(context.Background(), 220, "rcpt-1")
	require.NoError(t, err)
	assert.Equal(t, Order{GatewayOrderID: "order_N4Xkz1", Amount: 220, Currency: "INR"}, order)
}

func TestClient_CreateOrder_EmptyReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"amount": 220})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).CreateOrder(context.Background(), 220, "rcpt-1")
	assert.Error(t, err)
}

func TestClient_Verify(t *testing.T) {
	tests := []struct {
		name    string
		success bool
		wantErr error
	}{
		{name: "verification success", success: true},
		{name: "captured but unverified", success: false, wantErr: ErrVerificationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/payment/gateway/verify", r.URL.Path)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success": tt.success,
					"orderId": "ord-8f3a",
				})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second)
			v, err := c.Verify(context.Background(), model.GatewayResult{
				GatewayOrderID:   "order_N4Xkz1",
				GatewayPaymentID: "pay_77",
				Signature:        "sig",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, v.Success)
				return
			}
			require.NoError(t, err)
			assert.True(t, v.Success)
			assert.Equal(t, "ord-8f3a", v.OrderID)
		})
	}
}

func TestClient_BackendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).CreateOrder(context.Background(), 100, "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSignature(t *testing.T) {
	secret := "whsec_test"
	sig := Signature(secret, "order_1", "pay_1")

	ok := model.GatewayResult{GatewayOrderID: "order_1", GatewayPaymentID: "pay_1", Signature: sig}
	assert.NoError(t, CheckSignature(secret, ok))

	bad := ok
	bad.Signature = "forged"
	assert.ErrorIs(t, CheckSignature(secret, bad), ErrBadSignature)
}
