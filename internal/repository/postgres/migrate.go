package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"suru/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate накатывает все миграции. Работает через database/sql и lib/pq,
// потому что драйвер golang-migrate принимает только *sql.DB.
func Migrate(databaseURL string) error {
	return withMigrator(databaseURL, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// MigrateDown откатывает steps миграций, steps <= 0 - откатить всё
func MigrateDown(databaseURL string, steps int) error {
	return withMigrator(databaseURL, func(m *migrate.Migrate) error {
		if steps <= 0 {
			return m.Down()
		}
		return m.Steps(-steps)
	})
}

func withMigrator(databaseURL string, run func(*migrate.Migrate) error) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("открытие базы для миграций: %w", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("драйвер миграций: %w", err)
	}
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("источник миграций: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("создание мигратора: %w", err)
	}

	if err := run(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка миграции", err)
		return fmt.Errorf("миграция: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("версия схемы: %w", err)
	}
	logger.Info("Repository: Миграции применены", zap.Uint("schema_version", version), zap.Bool("dirty", dirty))
	return nil
}
