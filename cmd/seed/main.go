// Command seed fills the configured database with the demo technologies and
// projects, and provisions the admin account when ADMIN_PASSWORD is set.
package main

import (
	"context"
	"log/slog"
	"time"

	"portfolio/site/internal/config"
	"portfolio/site/internal/database"
	"portfolio/site/internal/logging"
	"portfolio/site/internal/seed"

	"github.com/spf13/pflag"
)

func main() {
	skipAdmin := pflag.Bool("skip-admin", false, "do not create or update the admin account")
	timeout := pflag.Duration("timeout", time.Minute, "abort the seed after this long")
	pflag.Parse()

	if err := config.LoadConfig(); err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}
	cfg := config.AppConfig
	logging.Setup(cfg.LogLevel)

	if err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}

	opts := seed.Options{AdminUsername: cfg.AdminUsername, AdminPassword: cfg.AdminPassword}
	if *skipAdmin {
		opts.AdminPassword = ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := seed.Run(ctx, database.DB, opts); err != nil {
		logging.Fatal("seed failed", "error", err)
	}
	slog.Info("database seeded", "admin", opts.AdminPassword != "")
}
