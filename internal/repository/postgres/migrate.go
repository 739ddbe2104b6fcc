package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// upMigrator is the subset of *migrate.Migrate used by applyUp.
type upMigrator interface {
	Up() error
	Version() (uint, bool, error)
}

func migrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}
	return src, nil
}

// Migrate brings the schema up to the latest embedded migration and returns
// the resulting schema version. Migrations run on a dedicated connection so
// closing the migrator leaves the pool open.
func Migrate(ctx context.Context, db *DB) (uint, error) {
	src, err := migrationSource()
	if err != nil {
		return 0, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire migration connection: %w", err)
	}

	driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{})
	if err != nil {
		_ = conn.Close()
		return 0, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return 0, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("postgres: close migrator")
		}
	}()

	return applyUp(m)
}

func applyUp(m upMigrator) (uint, error) {
	err := m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info().Msg("postgres: no migrations to apply")
	case err != nil:
		return 0, fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}

	log.Info().Uint("version", version).Msg("postgres: schema migrated")
	return version, nil
}
