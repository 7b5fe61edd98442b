// Package postgres - общий пул pgx и миграции схемы
package postgres

import (
	"context"
	"errors"
	"fmt"
	"suru/internal/logger"
	repo "suru/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SlowQuery - порог, после которого запрос пишется в лог как медленный
const SlowQuery = 50 * time.Millisecond

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

var DefaultPoolConfig = PoolConfig{
	MaxConns:        10,
	MinConns:        2,
	MaxConnIdleTime: 5 * time.Minute,
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, cfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = cfg.MaxConns
	config.MinConns = cfg.MinConns
	config.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// ResolveMiss объясняет, почему UPDATE ... WHERE version = $n не задел ни одной строки:
// строки нет совсем или её версия уже другая
func (s *Storage) ResolveMiss(ctx context.Context, table string, id uuid.UUID) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, pgx.Identifier{table}.Sanitize())
	if err := s.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("проверка существования записи: %w", err)
	}
	if !exists {
		return repo.ErrNotFound
	}
	return repo.ErrVersionConflict
}

// Observe пишет в лог медленные запросы
func Observe(op string, start time.Time, fields ...zap.Field) {
	elapsed := time.Since(start)
	if elapsed > SlowQuery {
		fields = append(fields, zap.String("op", op), zap.Duration("ms", elapsed))
		logger.Warn("Repository: Медленный запрос", fields...)
	}
}

// IsNoRows - обёртка, чтобы адаптерам не импортировать pgx ради одной ошибки
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
