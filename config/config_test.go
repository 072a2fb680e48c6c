package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)

	assert.Equal(t, "INR", cfg.Pricing.Currency)
	assert.Equal(t, int64(40), cfg.Pricing.ShippingFee)
	assert.Equal(t, int64(200), cfg.Pricing.FreeShippingThreshold)

	assert.Equal(t, "http://localhost:4000/gateway", cfg.Gateway.BaseURL)
	assert.Equal(t, time.Hour, cfg.Gateway.CredentialTTL)

	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "checkout_service", cfg.Database.DatabaseName)
	assert.Equal(t, 5, cfg.Database.CircuitBreaker.FailureThreshold)
	assert.Equal(t, 30*time.Second, cfg.Gateway.CircuitBreaker.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PRICING_SHIPPING_FEE", "50")
	t.Setenv("PRICING_FREE_SHIPPING_THRESHOLD", "500")
	t.Setenv("GATEWAY_CALLBACK_KEYS", "key-a, key-b")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("GATEWAY_CB_FAILURE_THRESHOLD", "3")
	t.Setenv("BACKEND_CB_TIMEOUT", "10s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int64(50), cfg.Pricing.ShippingFee)
	assert.Equal(t, int64(500), cfg.Pricing.FreeShippingThreshold)
	assert.Equal(t, map[string]bool{"key-a": true, "key-b": true}, cfg.Gateway.CallbackKeys)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)

	// Each outbound dependency tunes its breaker independently.
	assert.Equal(t, 3, cfg.Gateway.CircuitBreaker.FailureThreshold)
	assert.Equal(t, 5, cfg.Backend.CircuitBreaker.FailureThreshold)
	assert.Equal(t, 10*time.Second, cfg.Backend.CircuitBreaker.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Database.CircuitBreaker.Timeout)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "not-a-number")
	t.Setenv("PRICING_SHIPPING_FEE", "forty")
	t.Setenv("MONGODB_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 100, cfg.Server.RateLimit)
	assert.Equal(t, int64(40), cfg.Pricing.ShippingFee)
	assert.False(t, cfg.Database.Enabled)
}

func TestParseCORSOrigins(t *testing.T) {
	origins := parseCORSOrigins("https://shop.example.com, https://admin.example.com")

	assert.Contains(t, origins, "http://localhost:3000")
	assert.Contains(t, origins, "https://shop.example.com")
	assert.Contains(t, origins, "https://admin.example.com")
}
