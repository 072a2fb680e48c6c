package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmbasket/checkout-service/config"
)

func TestInitializeApp(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{
			name: "creates router with default config",
			cfg: config.Config{
				Server: config.ServerConfig{
					Port:       "8080",
					RateLimit:  100,
					RateWindow: time.Minute,
				},
				Pricing: config.PricingConfig{
					ShippingFee:           40,
					FreeShippingThreshold: 200,
				},
			},
		},
		{
			name: "creates router with callback keys configured",
			cfg: config.Config{
				Server: config.ServerConfig{
					Port: "8080",
				},
				Gateway: config.GatewayConfig{
					KeySecret:    "whsec_test",
					CallbackKeys: map[string]bool{"cb-key": true},
				},
			},
		},
		{
			name: "creates router with database disabled",
			cfg: config.Config{
				Server: config.ServerConfig{
					Port: "8080",
				},
				Database: config.DatabaseConfig{
					Enabled: false,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			application := InitializeApp(tt.cfg)
			require.NotNil(t, application)
			t.Cleanup(application.Close)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			application.Router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
