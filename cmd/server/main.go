// Package main implements the entry point for the notecards API server,
// which hosts user-authored flashcard decks and score-based practice
// sessions over them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/notecards-app/notecards-api/internal/config"
	"github.com/notecards-app/notecards-api/internal/platform/logger"
)

// cliFlags holds the parsed command line options.
type cliFlags struct {
	migrateCmd    string
	migrationsDir string
}

func parseFlags(args []string) (*cliFlags, error) {
	flags := &cliFlags{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&flags.migrateCmd, "migrate", "",
		"run a migration command (up, down, status) and exit")
	fs.StringVar(&flags.migrationsDir, "migrations-dir", defaultMigrationsDir,
		"directory containing SQL migration files")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run wires configuration, logging, the database, and the application
// together so that main stays a thin error boundary.
func run() error {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"suggestions_enabled", cfg.SuggestEnabled())

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if flags.migrateCmd != "" {
		defer closeDatabase(db, appLogger)
		return runMigrationCommand(db, flags.migrateCmd, flags.migrationsDir, appLogger)
	}

	if err := migrateUp(db, flags.migrationsDir, appLogger); err != nil {
		closeDatabase(db, appLogger)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		closeDatabase(db, appLogger)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
