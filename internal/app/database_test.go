//go:build !integration

package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/farmbasket/checkout-service/config"
)

func TestInitializeDatabase(t *testing.T) {
	t.Run("returns nil when disabled", func(t *testing.T) {
		components := InitializeDatabase(config.DatabaseConfig{Enabled: false})
		assert.Nil(t, components)
	})

	t.Run("returns nil when connection fails", func(t *testing.T) {
		components := InitializeDatabase(config.DatabaseConfig{
			Enabled:      true,
			URI:          "mongodb://127.0.0.1:1",
			DatabaseName: "checkout_test",
			EventsTTL:    time.Hour,
		})
		assert.Nil(t, components)
	})
}
