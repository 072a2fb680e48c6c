// Package main is the entry point for the checkout-service application.
//
// @title           Checkout Service API
// @version         1.0.0
// @description     Cart and checkout API for the farmers' storefront.
//
//	Carts price themselves from captured line data; checkout walks a fixed
//	step sequence through address, payment selection and confirmation, with
//	cash and gateway-collected online payments.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/farmbasket/checkout-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token identifying an authenticated shopper. Optional; guests are tracked by the X-Cart-Session header.
//
// @securityDefinitions.apikey  CallbackKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for gateway callback endpoints. Required when callback keys are configured.
//
// @tag.name        Cart
// @tag.description Cart line and pricing operations
//
// @tag.name        Checkout
// @tag.description Checkout session steps and confirmation
//
// @tag.name        Gateway
// @tag.description Payment widget outcome callbacks
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	_ "github.com/farmbasket/checkout-service/docs" // swagger docs

	"github.com/rs/zerolog/log"

	"github.com/farmbasket/checkout-service/config"
	"github.com/farmbasket/checkout-service/internal/app"
)

func main() {
	cfg := config.Load()

	application := app.InitializeApp(cfg)
	server := app.NewServer(application.Router, cfg.Server.Port)

	err := server.Run()
	application.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
