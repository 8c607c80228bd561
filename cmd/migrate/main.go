package main

import (
	"fmt"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/database"
	"github.com/johnquangdev/erp-issue-hub/pkg/config"
	"github.com/johnquangdev/erp-issue-hub/pkg/logger"
)

func main() {
	flags := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	command := flags.StringP("command", "c", "up", "migration command: up, down or status")
	steps := flags.IntP("steps", "n", 0, "maximum number of migrations to apply (0 = all; down defaults to 1)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: migrate [flags]\n\n%s", flags.FlagUsages())
	}
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.NewPostgresDB(cfg, zl)
	if err != nil {
		zl.Fatal("migrate.connect_failed", zap.Error(err))
	}
	defer func() { _ = database.CloseDB(db) }()

	switch *command {
	case "up":
		n, err := database.Migrate(db, migrate.Up, *steps)
		if err != nil {
			zl.Fatal("migrate.up_failed", zap.Error(err))
		}
		zl.Info("migrate.up", zap.Int("applied", n))
	case "down":
		max := *steps
		if max <= 0 {
			max = 1
		}
		n, err := database.Migrate(db, migrate.Down, max)
		if err != nil {
			zl.Fatal("migrate.down_failed", zap.Error(err))
		}
		zl.Info("migrate.down", zap.Int("rolled_back", n))
	case "status":
		pending, err := database.PendingMigrations(db)
		if err != nil {
			zl.Fatal("migrate.status_failed", zap.Error(err))
		}
		zl.Info("migrate.status", zap.Int("pending", len(pending)), zap.Strings("migrations", pending))
	default:
		flags.Usage()
		os.Exit(2)
	}
}
