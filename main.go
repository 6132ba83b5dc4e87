package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: error loading .env file: %v", err)
	}

	configPath := os.Getenv("DATAMIGRATE_CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	components, err := app.Bootstrap(configPath)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := NewApp(components)

	// Data must be in shape before anything is served.
	if err := components.RunMigrations(ctx); err != nil {
		_ = components.Close()
		components.Logger.LogFatal(err, "Data migrations failed")
	}

	if err := application.Run(ctx); err != nil {
		components.Logger.LogError(err, "Application error")
	}

	if err := application.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
		os.Exit(1)
	}
}
