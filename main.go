package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Eursukkul/seasonal-booking/config"
	"github.com/Eursukkul/seasonal-booking/pkg/database"
	"github.com/Eursukkul/seasonal-booking/pkg/log"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	cmd := &cli.Command{
		Name:  "seasonal-booking",
		Usage: "Booking requests, admin workflow and public calendar for seasonal events",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema and exit",
				Action: runMigrate,
			},
			{
				Name:  "seed",
				Usage: "Insert the default catalog and admin user and exit",
				Action: func(ctx context.Context, _ *cli.Command) error {
					cfg, db, err := bootstrap()
					if err != nil {
						return err
					}
					return seed(ctx, cfg, db)
				},
			},
		},
		Action: runServe,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, sets up logging, connects and migrates.
func bootstrap() (config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	log.Setup(cfg.LogLevel)

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		return cfg, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return cfg, nil, err
	}
	return cfg, db, nil
}

func runMigrate(_ context.Context, _ *cli.Command) error {
	if _, _, err := bootstrap(); err != nil {
		return err
	}
	log.WithModule("migrate").Info("schema is up to date")
	return nil
}

func seed(ctx context.Context, cfg config.Config, db *gorm.DB) error {
	logger := log.WithModule("seed")
	if cfg.SeedAdminPassword == "" {
		logger.Warn("SEED_ADMIN_PASSWORD not set, skipping admin user")
	}
	err := database.Seed(ctx, db, database.SeedOptions{
		AdminEmail:    cfg.SeedAdminEmail,
		AdminPassword: cfg.SeedAdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Info("catalog seeded")
	return nil
}
