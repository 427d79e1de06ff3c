package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// newMigrator builds a migrate instance over an open handle, using the
// migration set of the backend dialect.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error
	var dialect string

	switch backend {
	case schema.SQLiteBackend:
		dialect = "sqlite"
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		dialect = "mysql"
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		dialect = "postgres"
		driver, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "phasma", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// migrateUp brings a freshly opened store to the latest schema.
// The migrator is not closed since it shares the store handle.
func migrateUp(db *sql.DB, backend schema.DatabaseBackend) error {
	m, err := newMigrator(db, backend)
	if err != nil {
		return err
	}
	if _, dirty, err := m.Version(); err == nil && dirty {
		return fmt.Errorf("database is in a dirty state. Run db migrate with a target version to repair")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate to latest version: %w", err)
	}
	return nil
}

// Migrate runs database migrations on the primary store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations.
// - If targetVersion > 0, it migrates to the specified version.
// It returns a human readable summary of what happened.
func Migrate(backend schema.DatabaseBackend, connStr string, targetVersion int) (string, error) {
	db, err := open(backend, connStr)
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return "", fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := newMigrator(db, backend)
	if err != nil {
		return "", err
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return "", fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return "", fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			return "No migration needed. Database is already at the latest version.", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		newVersion, _, _ := m.Version()
		return fmt.Sprintf("Successfully migrated from version %d to version %d", currentVersion, newVersion), nil

	case targetVersion == 0:
		err = m.Down()
		if errors.Is(err, migrate.ErrNoChange) {
			return "No migration needed. Database is already at version 0", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		return fmt.Sprintf("Successfully rolled back from version %d to version 0", currentVersion), nil

	default:
		err = m.Migrate(uint(targetVersion))
		if errors.Is(err, migrate.ErrNoChange) {
			return fmt.Sprintf("No migration needed. Database is already at version %d", targetVersion), nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		return fmt.Sprintf("Successfully migrated from version %d to version %d", currentVersion, targetVersion), nil
	}
}
