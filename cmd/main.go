// Package main is the entry point for the loadplan-service application.
//
// @title           Load Plan Service API
// @version         1.0.0
// @description     API for planning how items are loaded into containers.
//
//	The service picks container layouts, spreads order quantities over
//	shipments and exports the result as CSV, XLSX or PDF load labels.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/loadplan-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 HS256 bearer token ("Bearer <token>") carrying a space separated scope claim.
//
// @tag.name        Plans
// @tag.description Load planning, projection and export
//
// @tag.name        Catalog
// @tag.description Stored container and item types
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"

	_ "github.com/guttosm/loadplan-service/docs" // swagger docs

	"github.com/guttosm/loadplan-service/config"
	"github.com/guttosm/loadplan-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()
	application, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server.Port,
		app.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		app.WithRequestTimeout(cfg.Server.RequestTimeout),
		app.WithOnShutdown(application.Close),
	)

	if err := server.Run(ctx); err != nil {
		_ = application.Close(ctx)
		log.Fatal().Err(err).Msg("Server error")
	}
}
