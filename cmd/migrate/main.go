// Command migrate manages the nc_news database schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sorei9240/be-nc-news/internal/config"
	"github.com/sorei9240/be-nc-news/internal/database"
	"github.com/sorei9240/be-nc-news/internal/observability"
)

const usageText = `migrate manages the nc_news database schema.

Usage:
  migrate [-path dir] <command>

Commands:
  up         apply all pending migrations
  down       roll back every migration (drops the news tables)
  step N     apply N migrations; negative N rolls back
  status     print the current schema version
  force N    mark the schema as version N without running anything

Connection settings are read from NCNEWS_DATABASE_* variables or
config.yaml, the same sources the API server uses.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("migrate", flag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	pathFlag := flags.String("path", "", "override the migrations directory")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return fmt.Errorf("no command given")
	}
	command := flags.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Console output reads better for a one-shot CLI than the server's JSON.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: time.RFC3339,
	}).With().Str("component", "migrate").Logger()

	migrationDir := cfg.Database.MigrationPath
	if *pathFlag != "" {
		migrationDir = *pathFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to %s/%s: %w", cfg.Database.Host, cfg.Database.Name, err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db, migrationDir, logger)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("closing migrator")
		}
	}()

	switch command {
	case "up":
		if err := migrator.Up(); err != nil {
			return err
		}

	case "down":
		logger.Warn().Msg("this removes the topics, users, articles, and comments tables")
		if err := migrator.Down(); err != nil {
			return err
		}

	case "step":
		n, err := commandArg(flags.Args(), command)
		if err != nil {
			return err
		}
		if err := migrator.Steps(n); err != nil {
			return err
		}

	case "status":
		// Version is reported below for every command.

	case "force":
		n, err := commandArg(flags.Args(), command)
		if err != nil {
			return err
		}
		if err := migrator.Force(n); err != nil {
			return err
		}

	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", command)
	}

	reportVersion(migrator, logger)
	return nil
}

// commandArg extracts the numeric argument that follows a command.
func commandArg(args []string, command string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a numeric argument", command)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s requires a numeric argument, got %q", command, args[1])
	}
	return n, nil
}

// reportVersion logs the schema version the database is now at.
func reportVersion(migrator *database.Migrator, logger zerolog.Logger) {
	v, dirty, err := migrator.Version()
	if err != nil {
		logger.Warn().Err(err).Msg("schema version unknown")
		return
	}
	logger.Info().Uint("version", v).Bool("dirty", dirty).Msg("schema version")
}
