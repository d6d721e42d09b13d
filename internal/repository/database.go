package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"jobguard/migrations"
)

func init() {
	// sqlx does not know the modernc driver name out of the box.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// NewPostgresDB establishes a new connection to the PostgreSQL database.
func NewPostgresDB(dataSourceName string, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to the database!")
	return db, nil
}

// NewSQLiteDB opens (creating if necessary) the SQLite database at
// path. A single connection serialises all access; WAL mode and a
// busy timeout keep concurrent request handlers from tripping over
// each other.
func NewSQLiteDB(path string, logger *zap.Logger) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Successfully connected to the database!", zap.String("path", path))
	return db, nil
}

// MigrateDB runs database migrations for the given driver using the
// embedded migration files.
func MigrateDB(db *sqlx.DB, driverName string, logger *zap.Logger) error {
	src, err := iofs.New(migrations.FS, driverName)
	if err != nil {
		return fmt.Errorf("couldn't load embedded migrations for %s: %w", driverName, err)
	}

	m, err := newMigrator(db, driverName, src)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("couldn't run database migration: %w", err)
	}

	logger.Info("Database migration was run successfully")
	return nil
}

func newMigrator(db *sqlx.DB, driverName string, src source.Driver) (*migrate.Migrate, error) {
	switch driverName {
	case "postgres":
		driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
		if err != nil {
			return nil, fmt.Errorf("couldn't get database instance for running migrations: %w", err)
		}
		return migrate.NewWithInstance("iofs", src, "jobguard", driver)
	case "sqlite":
		driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("couldn't get database instance for running migrations: %w", err)
		}
		return migrate.NewWithInstance("iofs", src, "jobguard", driver)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}
}
