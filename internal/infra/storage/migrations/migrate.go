package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

var (
	// ErrLoadMigrations ошибка чтения встроенных файлов миграций
	ErrLoadMigrations = errors.New("migrations: failed to load migration files")

	// ErrApplyMigrations ошибка применения миграций
	ErrApplyMigrations = errors.New("migrations: failed to apply migrations")

	// ErrDirty база осталась в dirty-состоянии после прерванной миграции
	ErrDirty = errors.New("migrations: database is in dirty state")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Up применяет все ещё не выполненные миграции схемы bookings
func Up(db *sql.DB, logger Logger) error {
	source, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadMigrations, err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("%w: create driver: %v", ErrApplyMigrations, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("%w: init: %v", ErrApplyMigrations, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: %v", ErrApplyMigrations, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("%w: read version: %v", ErrApplyMigrations, err)
	}
	if dirty {
		logger.Warn("Migrations: database is dirty at version %d", version)
		return fmt.Errorf("%w: version %d", ErrDirty, version)
	}

	logger.Info("Migrations: schema is at version %d", version)
	return nil
}
