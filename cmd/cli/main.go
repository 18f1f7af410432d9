package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/akeren/college-forms/config"
	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/storage"
	"github.com/akeren/college-forms/pkg/migrations"
	"github.com/akeren/college-forms/pkg/retry"
	"github.com/akeren/college-forms/pkg/utils"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		if err := runMigrations(logger); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("Database migrations completed")
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runMigrations(logger *log.Logger) error {
	dbCfg, err := config.NewDBConfigFromEnv()
	if err != nil {
		return err
	}
	if err := dbCfg.Validate(); err != nil {
		return err
	}

	dialect, err := migrations.DialectForDriver(dbCfg.Driver)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	attempts, err := connectAttempts()
	if err != nil {
		return err
	}

	store, err := waitForStore(ctx, logger, dbCfg, attempts)
	if err != nil {
		return err
	}
	defer config.CloseStore(store, logger)

	sqlDB, err := store.SQLDB()
	if err != nil {
		return fmt.Errorf("get SQL DB instance: %w", err)
	}

	baseDir := utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations")

	return migrations.Up(ctx, sqlDB, migrations.Config{
		Dir:     migrations.DialectDir(baseDir, dialect),
		Dialect: dialect,
		Logger:  logger,
	})
}

func connectAttempts() (int, error) {
	raw := utils.GetEnvTrimmed("MIGRATE_CONNECT_ATTEMPTS")
	if raw == "" {
		return retry.DefaultConfig().MaxAttempts, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid MIGRATE_CONNECT_ATTEMPTS %q", raw)
	}
	return n, nil
}

// waitForStore opens a fresh store per attempt, since a Failed store is never
// reconnected. Migrations commonly run while the database container is still
// starting.
func waitForStore(ctx context.Context, logger *log.Logger, dbCfg *config.DBConfig, attempts int) (*storage.Store, error) {
	policy := retry.DefaultConfig()
	policy.MaxAttempts = attempts

	return retry.Do(ctx, policy, func(attempt int) (*storage.Store, error) {
		store, err := config.OpenStore(logger, dbCfg)
		if err != nil {
			return nil, err
		}

		if _, err := store.Conn(ctx); err != nil {
			return nil, err
		}

		return store, nil
	}, func(attempt int, err error, next time.Duration) {
		logger.Warn("Database not ready for migrations",
			"attempt", attempt,
			"max_attempts", attempts,
			"retry_in", next.String(),
			"error", err,
		)
	})
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate  Apply SQL migrations from MIGRATIONS_DIR/<dialect> and exit")
	fmt.Println("  help     Show this message")
}
