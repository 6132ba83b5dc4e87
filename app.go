package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/app"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 30 * time.Second

// App serves the data migration status API
type App struct {
	components *app.Components
	router     *gin.Engine
	server     *http.Server
}

// NewApp creates a new application instance
func NewApp(components *app.Components) *App {
	if components.Config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{
		components: components,
		router:     gin.New(),
	}
	a.setupRoutes()
	return a
}

// Run serves HTTP until ctx is done. With the server disabled it only waits.
func (a *App) Run(ctx context.Context) error {
	cfg := a.components.Config.Server
	if !cfg.Enabled {
		a.components.Logger.LogInfo("HTTP server disabled", nil)
		<-ctx.Done()
		return nil
	}

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: a.router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.components.Logger.LogInfo("Starting server", map[string]interface{}{"port": cfg.Port})
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			return a.components.Logger.LogError(err, "server failed to start")
		}
		return nil
	}
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	log := a.components.Logger
	log.LogInfo("Initiating graceful shutdown", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			log.LogWarn("Error shutting down HTTP server", map[string]interface{}{
				"error": err.Error(),
			})
			shutdownErr = err
		}
	}

	if err := a.components.Close(); err != nil {
		log.LogWarn("Error closing database connections", map[string]interface{}{
			"error": err.Error(),
		})
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	if shutdownErr == nil {
		log.LogInfo("Application shutdown complete", nil)
	}
	return shutdownErr
}
