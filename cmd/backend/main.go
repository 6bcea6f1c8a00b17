// Package main is the entry point of the Shortly URL shortener service.
package main

import (
	"Shortly-Backend/internal/analytics"
	"Shortly-Backend/internal/config"
	"Shortly-Backend/internal/database"
	httpHandler "Shortly-Backend/internal/handler/http"
	"Shortly-Backend/internal/repository"
	"Shortly-Backend/internal/repository/cache"
	"Shortly-Backend/internal/repository/gormstore"
	"Shortly-Backend/internal/service"
	"Shortly-Backend/pkg/logger"
	"Shortly-Backend/pkg/useragent"
	"context"
	"errors"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting Shortly service", zap.String("env", cfg.Env))

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		log.Info("running database migrations (auto_migrate: true)")
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	var storage repository.Storage = gormstore.New(db, log, cfg.Database.QueryTimeout)

	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, mapping cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			defer client.Close()
			storage = cache.New(storage, client, cfg.Redis.TTL, log)
			log.Info("mapping cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
		}
	}

	uaParser, err := useragent.NewParser(cfg.Analytics.UserAgentRegexes, log)
	if err != nil {
		log.Warn("failed to initialize User-Agent parser, using keyword fallback", zap.Error(err))
	}

	processor := analytics.NewProcessor(storage, uaParser, log, analytics.ProcessorConfig{
		WorkerCount:     cfg.Analytics.WorkerCount,
		BufferSize:      cfg.Analytics.BufferSize,
		RetryAttempts:   cfg.Analytics.RetryAttempts,
		RetryDelay:      cfg.Analytics.RetryDelay,
		WriteTimeout:    cfg.Analytics.WriteTimeout,
		ShutdownTimeout: cfg.Analytics.ShutdownTimeout,
	})
	if err := processor.Start(); err != nil {
		log.Fatal("failed to start visit processor", zap.Error(err))
	}

	var reporter *analytics.Reporter
	if cfg.Analytics.StatsReportInterval > 0 {
		reporter, err = analytics.NewReporter(processor, cfg.Analytics.StatsReportInterval, log)
		if err != nil {
			log.Fatal("failed to schedule visit stats reporter", zap.Error(err))
		}
		reporter.Start()
	}

	urlShortenerService := service.NewURLShortener(storage, &cfg.URLShortener, processor, log)

	dbReady := func() error { return database.HealthCheck(db) }
	apiServer := httpHandler.NewServer(storage, urlShortenerService, processor, dbReady, log, cfg.URLShortener.BaseURL, cfg.HTTPServer.AllowedOrigins)

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      apiServer.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("starting HTTP server",
		zap.String("address", cfg.HTTPServer.Address),
		zap.String("base_url", cfg.URLShortener.BaseURL),
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down Shortly service", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	// сначала перестаем принимать запросы, потом дописываем очередь визитов
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	if err := processor.Stop(); err != nil {
		log.Error("visit processor did not drain cleanly", zap.Error(err))
	}

	if reporter != nil {
		reporter.Stop()
	}
}
