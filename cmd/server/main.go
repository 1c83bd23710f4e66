package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kushiservices/admin-backend/internal/config"
	"github.com/kushiservices/admin-backend/internal/db"
	"github.com/kushiservices/admin-backend/internal/events"
	httpapi "github.com/kushiservices/admin-backend/internal/http"
	"github.com/kushiservices/admin-backend/internal/service"
	"github.com/kushiservices/admin-backend/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "admin-backend").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *db.Store
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("no database configured, workflow auditing disabled")
	} else {
		store, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare schema")
		}
	}

	var client upstream.Client
	if cfg.UpstreamURL == "" {
		client = upstream.NewMockClient()
		logger.Info().Msg("using mock upstream client")
	} else {
		client = upstream.HTTPClient{
			BaseURL: cfg.UpstreamURL,
			Client:  &http.Client{Timeout: cfg.RequestTimeout},
		}
	}

	bus := events.NewBus()
	feed := &service.ActivityFeed{
		Upstream: client,
		Interval: cfg.ActivityPollInterval,
		Logger:   logger,
	}
	go feed.Run(ctx)

	router := httpapi.Router(cfg, client, store, bus, feed, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
