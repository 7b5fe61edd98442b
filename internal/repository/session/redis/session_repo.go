// Package redis хранит сессии в Redis: запись сессии, индекс по refresh-токену,
// множество сессий пользователя и два упорядоченных множества для выборок
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"suru/internal/logger"
	"suru/internal/models/auth"
	repo "suru/internal/repository"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyCreated = "sessions:created"
	keyExpiry  = "sessions:expiry"
)

func sessionKey(id uuid.UUID) string  { return "session:" + id.String() }
func tokenKey(token string) string    { return "session:token:" + token }
func userKey(userID uuid.UUID) string { return "session:user:" + userID.String() }

type record struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsRevoked    bool      `json:"is_revoked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

type SessionStorage struct {
	rdb *goredis.Client
}

func NewSessionStorage(rdb *goredis.Client) *SessionStorage {
	return &SessionStorage{rdb: rdb}
}

// Connect создаёт клиента и проверяет соединение
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		logger.Error("Repository: Redis недоступен", err, zap.String("addr", addr))
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("Repository: Успешное подключение к Redis", zap.String("addr", addr))
	return rdb, nil
}

func (s *SessionStorage) HealthCheck(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Save держит WATCH на ключе сессии: любая параллельная запись обрывает транзакцию,
// и это тот же конфликт версий, что и в остальных хранилищах
func (s *SessionStorage) Save(ctx context.Context, session *auth.Session) error {
	snap := session.Snapshot()
	key := sessionKey(snap.ID)

	err := s.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := load(ctx, tx, key)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			if snap.Version != auth.SessionInitialVersion {
				return repo.ErrNotFound
			}
		case err != nil:
			return err
		case snap.Version == auth.SessionInitialVersion || current.Version != snap.Version-1:
			return repo.ErrVersionConflict
		}

		raw, err := json.Marshal(toRecord(snap))
		if err != nil {
			return fmt.Errorf("кодирование сессии: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			if current != nil && current.RefreshToken != snap.RefreshToken {
				pipe.Del(ctx, tokenKey(current.RefreshToken))
			}
			pipe.Set(ctx, key, raw, 0)
			pipe.Set(ctx, tokenKey(snap.RefreshToken), snap.ID.String(), 0)
			pipe.SAdd(ctx, userKey(snap.UserID), snap.ID.String())
			pipe.ZAdd(ctx, keyCreated, goredis.Z{Score: float64(snap.CreatedAt.UnixMicro()), Member: snap.ID.String()})
			pipe.ZAdd(ctx, keyExpiry, goredis.Z{Score: float64(snap.ExpiresAt.UnixMicro()), Member: snap.ID.String()})
			return nil
		})
		return err
	}, key)

	if errors.Is(err, goredis.TxFailedErr) {
		err = repo.ErrVersionConflict
	}
	if err != nil && !errors.Is(err, repo.ErrVersionConflict) && !errors.Is(err, repo.ErrNotFound) {
		logger.Error("Repository: Не удалось сохранить сессию", err, zap.String("session_id", snap.ID.String()))
		return fmt.Errorf("сохранение сессии: %w", err)
	}
	return err
}

func (s *SessionStorage) FindByID(ctx context.Context, id uuid.UUID) (*auth.Session, error) {
	rec, err := load(ctx, s.rdb, sessionKey(id))
	if err != nil {
		return nil, err
	}
	return rec.session(), nil
}

func (s *SessionStorage) FindByRefreshToken(ctx context.Context, token string) (*auth.Session, error) {
	raw, err := s.rdb.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("поиск по токену: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("битый индекс токена: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *SessionStorage) FindMany(ctx context.Context, filter auth.SessionFilter) ([]*auth.Session, int, error) {
	var ids []string
	var err error
	if filter.UserID != nil {
		ids, err = s.rdb.SMembers(ctx, userKey(*filter.UserID)).Result()
	} else {
		ids, err = s.rdb.ZRange(ctx, keyCreated, 0, -1).Result()
	}
	if err != nil {
		return nil, 0, fmt.Errorf("получение сессий: %w", err)
	}

	records, err := s.loadMany(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID.String() < records[j].ID.String()
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	now := time.Now()
	matched := make([]*auth.Session, 0, len(records))
	for _, rec := range records {
		session := rec.session()
		if filter.Matches(session, now) {
			matched = append(matched, session)
		}
	}
	return repo.Window(matched, filter.Limit, filter.Offset), len(matched), nil
}

func (s *SessionStorage) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := load(ctx, s.rdb, sessionKey(id))
	if err != nil {
		return err
	}
	return s.remove(ctx, rec)
}

func (s *SessionStorage) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	ids, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("сессии пользователя: %w", err)
	}
	return s.removeIDs(ctx, ids)
}

// DeleteExpired: счёт в множестве сроков хранится в микросекундах, граничные записи
// перепроверяются по самой сессии
func (s *SessionStorage) DeleteExpired(ctx context.Context, now time.Time, limit int) (int, error) {
	by := &goredis.ZRangeBy{Min: "-inf", Max: strconv.FormatInt(now.UnixMicro(), 10)}
	if limit > 0 {
		by.Count = int64(limit)
	}
	ids, err := s.rdb.ZRangeByScore(ctx, keyExpiry, by).Result()
	if err != nil {
		return 0, fmt.Errorf("поиск истёкших сессий: %w", err)
	}
	records, err := s.loadMany(ctx, ids)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range records {
		if rec.ExpiresAt.After(now) {
			continue
		}
		if err := s.remove(ctx, rec); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *SessionStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStorage) removeIDs(ctx context.Context, ids []string) (int, error) {
	records, err := s.loadMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, rec := range records {
		if err := s.remove(ctx, rec); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *SessionStorage) remove(ctx context.Context, rec *record) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(rec.ID), tokenKey(rec.RefreshToken))
		pipe.SRem(ctx, userKey(rec.UserID), rec.ID.String())
		pipe.ZRem(ctx, keyCreated, rec.ID.String())
		pipe.ZRem(ctx, keyExpiry, rec.ID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("удаление сессии: %w", err)
	}
	return nil
}

// loadMany пропускает идентификаторы, запись которых уже удалена
func (s *SessionStorage) loadMany(ctx context.Context, ids []string) ([]*record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "session:" + id
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("чтение сессий: %w", err)
	}

	records := make([]*record, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("декодирование сессии: %w", err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

func load(ctx context.Context, c goredis.Cmdable, key string) (*record, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("чтение сессии: %w", err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("декодирование сессии: %w", err)
	}
	return &rec, nil
}

func toRecord(s auth.SessionSnapshot) record {
	return record{
		ID:           s.ID,
		UserID:       s.UserID,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		IsRevoked:    s.IsRevoked,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Version:      s.Version,
	}
}

func (r *record) session() *auth.Session {
	return auth.ReconstituteSession(auth.SessionSnapshot{
		ID:           r.ID,
		UserID:       r.UserID,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
		IsRevoked:    r.IsRevoked,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	})
}
