package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/akeren/launch-waitlist/config"
	"github.com/akeren/launch-waitlist/domain"
	"github.com/akeren/launch-waitlist/domain/waitlist"
	"github.com/akeren/launch-waitlist/internal/log"
	"github.com/akeren/launch-waitlist/pkg/migrations"
	"github.com/akeren/launch-waitlist/pkg/utils"
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
	case "migrate", "migrate-down", "migrate-status":
		if err := runMigrations(logger, args[0]); err != nil {
			logger.Error("Database migration failed", "command", args[0], "error", err.Error())
			os.Exit(1)
		}
		return

	case "stats":
		if err := printStats(logger); err != nil {
			logger.Error("Failed to read waitlist stats", "error", err.Error())
			os.Exit(1)
		}
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

func runMigrations(logger *log.Logger, command string) error {
	db, err := config.NewDatabase(logger, nil)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get SQL DB instance: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	cfg := migrations.Config{
		Dir:    utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", migrations.DefaultDir),
		Logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch command {
	case "migrate-down":
		return migrations.Down(ctx, sqlDB, cfg)

	case "migrate-status":
		status, err := migrations.Version(ctx, sqlDB, cfg)
		if err != nil {
			return err
		}
		if !status.Applied {
			fmt.Println("No migrations applied")
			return nil
		}
		fmt.Printf("Schema version %d (dirty: %t)\n", status.Version, status.Dirty)
		return nil

	default:
		if err := migrations.Up(ctx, sqlDB, cfg); err != nil {
			return err
		}
		logger.Info("Database migrations completed")
		return nil
	}
}

// printStats writes the same summary GET /api/waitlist serves, plus launch progress, to stdout.
func printStats(logger *log.Logger) error {
	appConfig, err := config.NewAppConfig()
	if err != nil {
		return err
	}

	db, redisConn, err := config.OpenStore(logger, appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if db != nil {
			config.CloseDatabase(db, logger)
		}
		_ = config.CloseRedis(redisConn, logger)
	}()

	factory := waitlist.NewWaitlistServiceFactory(db, config.GetRedisClient(redisConn), logger, domain.WaitlistSettings(appConfig))
	service := factory.CreateService()

	ctx, cancel := context.WithTimeout(context.Background(), appConfig.RequestTimeout)
	defer cancel()

	summary, err := service.GetSummary(ctx)
	if err != nil {
		return err
	}

	progress, err := service.GetLaunchProgress(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		*waitlist.WaitlistSummary
		Launch *waitlist.LaunchProgress `json:"launch"`
	}{summary, progress})
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate         Apply pending database migrations and exit")
	fmt.Println("  migrate-down    Roll back the most recent migration")
	fmt.Println("  migrate-status  Print the current schema version")
	fmt.Println("  stats           Print the waitlist count, recent signups and launch progress as JSON")
	fmt.Println("  help            Show this message")
}
