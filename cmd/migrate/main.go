package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/pkg/config"
	"github.com/noah-isme/studyhub-api/pkg/database"
	"github.com/noah-isme/studyhub-api/pkg/logger"
	"github.com/noah-isme/studyhub-api/pkg/migrate"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	migrator, err := migrate.NewMigrator(db)
	if err != nil {
		logr.Fatal("failed to load migrations", zap.Error(err))
	}

	switch command {
	case "up":
		applied, err := migrator.Up(ctx)
		if err != nil {
			logr.Fatal("failed to apply migrations", zap.Int("applied", applied), zap.Error(err))
		}
		logr.Info("migrations applied", zap.Int("count", applied))
	case "down":
		version, err := migrator.Down(ctx)
		if err != nil {
			logr.Fatal("failed to roll back migration", zap.Error(err))
		}
		if version == 0 {
			logr.Info("nothing to roll back")
			return
		}
		logr.Info("migration rolled back", zap.Int("version", version))
	case "status", "version":
		status, err := migrator.Status(ctx)
		if err != nil {
			logr.Fatal("failed to read schema status", zap.Error(err))
		}
		fmt.Printf("current: %d\nlatest:  %d\npending: %v\n", status.Current, status.Latest, status.Pending)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stdout, `Usage: migrate <command>

Commands:
  up        Apply all pending migrations
  down      Roll back the latest migration
  status    Show current and pending schema versions
  help      Show this help message

Database settings are read from the environment or .env (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME).
`)
}
