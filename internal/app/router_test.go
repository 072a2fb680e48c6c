package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmbasket/checkout-service/config"
)

func routerTestConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:       "8080",
			RateLimit:  100,
			RateWindow: time.Minute,
		},
		Gateway: config.GatewayConfig{
			BaseURL:   "http://localhost:4000/gateway",
			KeySecret: "whsec_test",
			Timeout:   time.Second,
		},
		Backend: config.BackendConfig{
			BaseURL: "http://localhost:4000",
			Timeout: time.Second,
		},
		Auth: config.AuthConfig{
			JWTSecretKey: "test-secret",
		},
	}
}

func TestInitializeRouter(t *testing.T) {
	cfg := routerTestConfig()
	services := InitializeServices(cfg.Pricing)
	clients := InitializeClients(cfg)

	t.Run("without database components", func(t *testing.T) {
		components := InitializeRouter(services, clients, nil, cfg)
		require.NotNil(t, components)
		t.Cleanup(components.Manager.Close)
		t.Cleanup(components.Registry.Close)

		assert.NotNil(t, components.CartHandler)
		assert.NotNil(t, components.CheckoutHandler)
		assert.NotNil(t, components.HealthHandler)
		assert.Equal(t, "test-secret", components.Config.JWTSecret)
		assert.True(t, components.Config.EnableIdempotency)
	})

	t.Run("callback keys flow into router config", func(t *testing.T) {
		keyed := cfg
		keyed.Gateway.CallbackKeys = map[string]bool{"cb-key": true}

		components := InitializeRouter(services, clients, nil, keyed)
		require.NotNil(t, components)
		t.Cleanup(components.Manager.Close)
		t.Cleanup(components.Registry.Close)

		assert.True(t, components.Config.CallbackAPIKeys["cb-key"])
	})
}

func TestInitializeClients(t *testing.T) {
	clients := InitializeClients(routerTestConfig())
	require.NotNil(t, clients)

	assert.NotNil(t, clients.Gateway)
	assert.NotNil(t, clients.Orders)
	assert.NotNil(t, clients.Stock)
	assert.True(t, clients.GatewayBreaker.GetStats().IsHealthy)
	assert.True(t, clients.BackendBreaker.GetStats().IsHealthy)
}
