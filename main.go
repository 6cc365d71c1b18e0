package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/orbitads/orbit/backend/internal/config"
	"github.com/orbitads/orbit/backend/internal/logger"
)

func main() {
	ctx := context.Background()

	// Initialize logger for bootstrapping
	loggerService, err := logger.NewLogger(&logger.Config{Level: logger.InfoLevel})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Load configuration
	configService := config.NewConfigService(loggerService)
	cfg, err := configService.Load(".")
	if err != nil {
		loggerService.LogFatal(err, "Failed to load configuration")
	}

	// Create a context that will be canceled on interrupt
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		loggerService.LogInfo("Received shutdown signal", nil)
		cancel()
	}()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		loggerService.LogFatal(err, "Failed to initialize application")
	}

	if err := app.Run(); err != nil {
		loggerService.LogFatal(err, "Failed to start application")
	}

	<-ctx.Done()

	if err := app.Shutdown(); err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
		os.Exit(1)
	}
}
