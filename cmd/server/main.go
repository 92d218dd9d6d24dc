package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio/site/internal/config"
	"portfolio/site/internal/database"
	"portfolio/site/internal/logging"
	"portfolio/site/internal/profile"
	"portfolio/site/internal/router"
	"portfolio/site/internal/seed"
	"portfolio/site/internal/telemetry"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

func init() {
	if err := config.LoadConfig(); err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}
}

// @title           Portfolio API
// @version         1.0
// @description     Content API and live change feed for the portfolio site.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	logging.Setup(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logging.Fatal("failed to set up tracing", "error", err)
	}

	// Connect to the database
	if err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	if cfg.AdminPassword != "" {
		if err := seed.EnsureAdmin(database.DB, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logging.Fatal("failed to provision admin account", "error", err)
		}
	}

	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		logging.Fatal("failed to load profile", "path", cfg.ProfilePath, "error", err)
	}

	handler, err := router.New(router.Options{Config: cfg, Profile: prof})
	if err != nil {
		logging.Fatal("failed to build router", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("failed to flush traces", "error", err)
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
