// Package config provides configuration management for the checkout service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Pricing  PricingConfig
	Gateway  GatewayConfig
	Backend  BackendConfig
	Auth     AuthConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
}

// PricingConfig holds cart pricing configuration.
// Monetary amounts are expressed in minor currency units.
type PricingConfig struct {
	Currency              string
	ShippingFee           int64
	FreeShippingThreshold int64
}

// CircuitBreakerConfig tunes one named circuit breaker.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// GatewayConfig holds payment gateway configuration.
type GatewayConfig struct {
	BaseURL        string
	KeyID          string
	KeySecret      string
	CredentialTTL  time.Duration
	Timeout        time.Duration
	CallbackKeys   map[string]bool
	CircuitBreaker CircuitBreakerConfig
}

// BackendConfig holds configuration for the storefront order backend.
type BackendConfig struct {
	BaseURL        string
	Timeout        time.Duration
	CircuitBreaker CircuitBreakerConfig
}

// AuthConfig holds authentication configuration for cart-mode selection.
type AuthConfig struct {
	Enabled      bool
	JWTSecretKey string
}

// DatabaseConfig holds MongoDB configuration for authenticated carts.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	Enabled      bool
	// EventsTTL bounds how long checkout transition events are retained.
	EventsTTL      time.Duration
	CircuitBreaker CircuitBreakerConfig
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			RateLimit:   getEnvInt("RATE_LIMIT", 100),
			RateWindow:  getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins: parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser: getEnv("SWAGGER_USER", ""),
			SwaggerPass: getEnv("SWAGGER_PASS", ""),
		},
		Pricing: PricingConfig{
			Currency:              getEnv("PRICING_CURRENCY", "INR"),
			ShippingFee:           getEnvInt64("PRICING_SHIPPING_FEE", 40),
			FreeShippingThreshold: getEnvInt64("PRICING_FREE_SHIPPING_THRESHOLD", 200),
		},
		Gateway: GatewayConfig{
			BaseURL:        getEnv("GATEWAY_BASE_URL", "http://localhost:4000/gateway"),
			KeyID:          getEnv("GATEWAY_KEY_ID", ""),
			KeySecret:      getEnv("GATEWAY_KEY_SECRET", ""),
			CredentialTTL:  getEnvDuration("GATEWAY_CREDENTIAL_TTL", time.Hour),
			Timeout:        getEnvDuration("GATEWAY_TIMEOUT", 15*time.Second),
			CallbackKeys:   parseAPIKeys(os.Getenv("GATEWAY_CALLBACK_KEYS")),
			CircuitBreaker: loadCircuitBreaker("GATEWAY"),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:4000"),
			Timeout:        getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
			CircuitBreaker: loadCircuitBreaker("BACKEND"),
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", false),
			JWTSecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
		},
		Database: DatabaseConfig{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:   getEnv("MONGODB_DATABASE", "checkout_service"),
			Enabled:        getEnvBool("MONGODB_ENABLED", false),
			EventsTTL:      getEnvDuration("CHECKOUT_EVENTS_TTL", 720*time.Hour),
			CircuitBreaker: loadCircuitBreaker("MONGODB"),
		},
	}
}

// loadCircuitBreaker reads <PREFIX>_CB_* variables, so each outbound
// dependency is tuned independently.
func loadCircuitBreaker(prefix string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: getEnvInt(prefix+"_CB_FAILURE_THRESHOLD", 5),
		SuccessThreshold: getEnvInt(prefix+"_CB_SUCCESS_THRESHOLD", 2),
		Timeout:          getEnvDuration(prefix+"_CB_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
