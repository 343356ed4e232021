package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/turtacn/CX-Insight/internal/config"
)

// MigrateUp applies all pending schema migrations. A database already at the
// latest version is not an error.
func MigrateUp(cfg config.DatabaseConfig) error {
	m, err := migrate.New(cfg.MigrationPath, URL(cfg))
	if err != nil {
		return fmt.Errorf("postgres: failed to init migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migration up failed: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(cfg config.DatabaseConfig) error {
	m, err := migrate.New(cfg.MigrationPath, URL(cfg))
	if err != nil {
		return fmt.Errorf("postgres: failed to init migrator: %w", err)
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migration down failed: %w", err)
	}
	return nil
}

// MigrationVersion reports the current schema version and dirty flag.
func MigrationVersion(cfg config.DatabaseConfig) (uint, bool, error) {
	m, err := migrate.New(cfg.MigrationPath, URL(cfg))
	if err != nil {
		return 0, false, fmt.Errorf("postgres: failed to init migrator: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("postgres: failed to read migration version: %w", err)
	}
	return version, dirty, nil
}
