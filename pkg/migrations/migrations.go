package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	DefaultDir             = "migrations"
	DefaultMigrationsTable = "schema_migrations"
)

type migrator interface {
	Up() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

var migratorFactory = func(sourceURL string, driver database.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Dir             string
	MigrationsTable string
	Logger          Logger
}

// Status is the schema version recorded in the migrations table.
type Status struct {
	Version uint
	Dirty   bool
	Applied bool
}

func (cfg Config) info(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Info(msg, args...)
	}
}

func (cfg Config) warn(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Warn(msg, args...)
	}
}

// Up applies every pending migration in cfg.Dir.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	return run(ctx, db, cfg, "up", func(m migrator) error {
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			cfg.info("No migrations to apply")
			return nil
		}
		if err == nil {
			cfg.info("Migrations applied successfully")
		}
		return err
	})
}

// Down rolls back the most recently applied migration.
func Down(ctx context.Context, db *sql.DB, cfg Config) error {
	return run(ctx, db, cfg, "down", func(m migrator) error {
		err := m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			cfg.info("No migrations to roll back")
			return nil
		}
		if err == nil {
			cfg.info("Rolled back one migration")
		}
		return err
	})
}

// Version reports the current schema version without changing it.
func Version(ctx context.Context, db *sql.DB, cfg Config) (Status, error) {
	var status Status

	err := run(ctx, db, cfg, "version", func(m migrator) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return err
		}
		status = Status{Version: version, Dirty: dirty, Applied: true}
		return nil
	})

	return status, err
}

func run(ctx context.Context, db *sql.DB, cfg Config, op string, fn func(migrator) error) error {
	if db == nil {
		return fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = DefaultDir
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = DefaultMigrationsTable
	}

	sourceURL, err := fileSourceURL(cfg.Dir)
	if err != nil {
		return err
	}

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return fmt.Errorf("migrations: postgres driver: %w", err)
	}

	m, err := migratorFactory(sourceURL, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}

	var closeOnce sync.Once
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				cfg.warn("Migrations source close error", "error", srcErr)
			}
			if dbErr != nil {
				cfg.warn("Migrations db close error", "error", dbErr)
			}
		})
	}
	defer closeMigrator()

	cfg.info("Running SQL migrations", "op", op, "source", sourceURL, "table", cfg.MigrationsTable)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(m)
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing is the only way to interrupt it.
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("migrations: %s: %w", op, err)
		}
	}

	return nil
}

// fileSourceURL builds an escaped file:// URL with forward slashes.
func fileSourceURL(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("migrations: resolve dir: %w", err)
	}

	return (&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absDir),
	}).String(), nil
}
