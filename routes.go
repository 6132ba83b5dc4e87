package main

import (
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/datamigration"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/health"
	apphttp "github.com/consensuslabs/pavilion-network/datamigrate/internal/http"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/http/middleware"
)

// setupRoutes configures all the routes for the application
func (a *App) setupRoutes() {
	log := a.components.Logger
	responseHandler := apphttp.NewResponseHandler(log)

	a.router.Use(middleware.RequestLoggerMiddleware(log))
	a.router.Use(apphttp.RecoveryMiddleware(responseHandler, log))

	sqlDB, err := a.components.DB.DB()
	if err != nil {
		log.LogFatal(err, "Failed to get database instance")
	}
	healthHandler := health.NewHandler(responseHandler, sqlDB)
	a.router.GET("/health", healthHandler.HandleHealthCheck)

	v1 := a.router.Group("/api/v1")
	datamigration.NewHandler(a.components.Runner, responseHandler).RegisterRoutes(v1)
}
