// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"venue-booking/cmd"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/usecase"
	"venue-booking/internal/wire"
	"venue-booking/pkg/cache"
	"venue-booking/pkg/database"
	"venue-booking/pkg/events"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/payment"
	"venue-booking/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("events_driver", config.Events.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis only backs rate limiting; nil means run without it
	rdb := cache.NewRedisClient(config.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	publisher, err := events.NewPublisher(config.Events, logger)
	if err != nil {
		logger.Fatal("Failed to init event publisher", zap.Error(err))
	}
	defer publisher.Close()

	var m *metrics.Metrics
	if config.Metrics.Enabled {
		m = metrics.New(config.App.Name)
	} else {
		m = metrics.NewWithRegisterer(config.App.Name, prometheus.NewRegistry())
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, usecase.Dependencies{
		Publisher: publisher,
		Gateway:   payment.NewClient(config.Payment.BaseURL, config.Payment.AccessToken, config.Payment.Timeout, logger),
		Metrics:   m,
	}, wire.Infra{DB: db, Redis: rdb}, logger)

	go cmd.SessionJanitor(ctx, repos.Session, time.Hour, logger)

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return
	}

	logger.Info("Server stopped")
}
