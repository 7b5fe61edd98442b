// Package orm - общий слой gorm для команд, проектов и пользователей.
// В проде работает поверх PostgreSQL, в тестах и локально поверх SQLite.
package orm

import (
	"context"
	"errors"
	"fmt"
	"suru/internal/logger"
	repo "suru/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open открывает базу через gorm. Для sqlite используется драйвер modernc без cgo.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = gormpg.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	default:
		return nil, fmt.Errorf("неизвестный драйвер orm: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		logger.Error("Repository: Ошибка открытия базы orm", err, zap.String("driver", driver))
		return nil, fmt.Errorf("открытие базы %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// sqlite не переносит параллельную запись из нескольких соединений
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("включение внешних ключей: %w", err)
		}
	}

	logger.Info("Repository: Успешное подключение orm", zap.String("driver", driver))
	return db, nil
}

// AutoMigrate создаёт таблицы по записям. Для PostgreSQL схему ведут миграции golang-migrate.
func AutoMigrate(db *gorm.DB) error {
	models := []any{
		&TeamRecord{},
		&MemberRecord{},
		&ProjectRecord{},
		&UserRecord{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("автомиграция: %w", err)
	}
	return nil
}

// Close закрывает пул под gorm
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// Tx выполняет fn в транзакции, откат при любой ошибке
func Tx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// Insert вставляет запись с начальной версией. Занятый id - это конфликт версий.
func Insert(tx *gorm.DB, record any) error {
	res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).Create(record)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrVersionConflict
	}
	return nil
}

// CompareAndSwap обновляет строку, только если в базе лежит версия version-1
func CompareAndSwap(tx *gorm.DB, model any, id uuid.UUID, version int, values map[string]any) error {
	values["version"] = version
	res := tx.Model(model).Where("id = ? AND version = ?", id, version-1).Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("проверка существования записи: %w", err)
	}
	if count == 0 {
		return repo.ErrNotFound
	}
	return repo.ErrVersionConflict
}

// DeleteByID удаляет строку, отсутствие строки - ErrNotFound
func DeleteByID(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func Exists(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// First читает одну запись, пустой результат - ErrNotFound
func First(ctx context.Context, db *gorm.DB, dest any, id uuid.UUID) error {
	err := db.WithContext(ctx).Where("id = ?", id).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	return err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicate
	}
	return err
}

// Paginate - scope с LIMIT и OFFSET, лимит приводится к допустимому
func Paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(repo.NormalizeLimit(limit)).Offset(offset)
	}
}
