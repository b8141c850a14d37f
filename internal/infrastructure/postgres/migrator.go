package postgres

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrator applies schema migrations. An empty path uses the migrations
// compiled into the binary.
type Migrator struct {
	databaseURL string
	path        string
	logger      zerolog.Logger
}

// NewMigrator creates a Migrator.
func NewMigrator(databaseURL, path string, logger zerolog.Logger) *Migrator {
	return &Migrator{databaseURL: databaseURL, path: path, logger: logger}
}

func (m *Migrator) instance() (*migrate.Migrate, error) {
	if m.path == "" {
		source, err := iofs.New(embeddedMigrations, "migrations")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
		}
		mig, err := migrate.NewWithSourceInstance("iofs", source, m.databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return mig, nil
	}

	sourceURL := m.path
	if !strings.Contains(sourceURL, "://") {
		sourceURL = "file://" + sourceURL
	}

	mig, err := migrate.New(sourceURL, m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	mig, err := m.instance()
	if err != nil {
		return err
	}
	defer mig.Close()

	if err := mig.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info().Msg("database migrations: no change")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.logger.Info().Msg("database migrations: applied successfully")
	return nil
}

// Down rolls back the last migration.
func (m *Migrator) Down() error {
	mig, err := m.instance()
	if err != nil {
		return err
	}
	defer mig.Close()

	if err := mig.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	m.logger.Info().Msg("database migrations: rolled back successfully")
	return nil
}
