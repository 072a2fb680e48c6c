// Package app provides service initialization.
package app

import (
	"github.com/farmbasket/checkout-service/config"
	"github.com/farmbasket/checkout-service/internal/pricing"
)

// ServiceComponents holds business logic components.
type ServiceComponents struct {
	Calculator *pricing.Calculator
}

// InitializeServices initializes the pricing engine from configuration.
func InitializeServices(cfg config.PricingConfig) *ServiceComponents {
	var opts []pricing.Option

	if cfg.ShippingFee > 0 {
		opts = append(opts, pricing.WithShippingFee(cfg.ShippingFee))
	}
	if cfg.FreeShippingThreshold > 0 {
		opts = append(opts, pricing.WithFreeShippingThreshold(cfg.FreeShippingThreshold))
	}

	return &ServiceComponents{
		Calculator: pricing.NewCalculator(opts...),
	}
}
