package postgres

import (
	"context"
	"fmt"
	"suru/internal/logger"
	"suru/internal/models/notification"
	repo "suru/internal/repository"
	"suru/internal/repository/postgres"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const notificationColumns = `id, user_id, type, title, message, related_entity_id, related_entity_type,
	is_read, read_at, created_at, updated_at, version`

type NotificationStorage struct {
	db *postgres.Storage
}

func NewNotificationStorage(db *postgres.Storage) *NotificationStorage {
	return &NotificationStorage{db: db}
}

// Save: меняться у уведомления может только отметка о прочтении
func (s *NotificationStorage) Save(ctx context.Context, n *notification.Notification) error {
	start := time.Now()
	defer postgres.Observe("notification.save", start, zap.String("notification_id", n.ID().String()))

	snap := n.Snapshot()
	if snap.Version == notification.InitialVersion {
		query := `INSERT INTO notifications (` + notificationColumns + `)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (id) DO NOTHING`
		tag, err := s.db.Pool().Exec(ctx, query,
			snap.ID,
			snap.UserID,
			snap.Type,
			snap.Title,
			snap.Message,
			snap.RelatedEntityID,
			snap.RelatedEntityType,
			snap.IsRead,
			snap.ReadAt,
			snap.CreatedAt,
			snap.UpdatedAt,
			snap.Version,
		)
		if err != nil {
			logger.Error("Repository: Не удалось добавить уведомление", err)
			return fmt.Errorf("добавление уведомления: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repo.ErrVersionConflict
		}
		return nil
	}

	query := `UPDATE notifications
			SET is_read = $2,
				read_at = $3,
				updated_at = $4,
				version = $5
			WHERE id = $1 AND version = $6`
	tag, err := s.db.Pool().Exec(ctx, query, snap.ID, snap.IsRead, snap.ReadAt, snap.UpdatedAt, snap.Version, snap.Version-1)
	if err != nil {
		logger.Error("Repository: Не удалось обновить уведомление", err)
		return fmt.Errorf("обновление уведомления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.db.ResolveMiss(ctx, "notifications", snap.ID)
	}
	return nil
}

func (s *NotificationStorage) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	row := s.db.Pool().QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить уведомление", err)
		return nil, fmt.Errorf("получение уведомления: %w", err)
	}
	return n, nil
}

func (s *NotificationStorage) FindMany(ctx context.Context, filter notification.Filter) ([]*notification.Notification, int, error) {
	start := time.Now()
	defer postgres.Observe("notification.find_many", start)

	var where postgres.Where
	if filter.UserID != "" {
		where.Add("user_id = ?", filter.UserID)
	}
	if filter.Type != nil {
		where.Add("type = ?", *filter.Type)
	}
	if filter.IsRead != nil {
		where.Add("is_read = ?", *filter.IsRead)
	}

	var total int
	if err := s.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		logger.Error("Repository: Не удалось посчитать уведомления", err)
		return nil, 0, fmt.Errorf("подсчёт уведомлений: %w", err)
	}

	page, args := where.Page(repo.NormalizeLimit(filter.Limit), filter.Offset)
	rows, err := s.db.Pool().Query(ctx, `SELECT `+notificationColumns+` FROM notifications`+where.SQL()+` ORDER BY created_at, id`+page, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить уведомления", err)
		return nil, 0, fmt.Errorf("получение уведомлений: %w", err)
	}
	defer rows.Close()

	items := []*notification.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("сканирование уведомления: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("итерация по строкам: %w", err)
	}
	return items, total, nil
}

func (s *NotificationStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("подсчёт непрочитанных: %w", err)
	}
	return count, nil
}

func (s *NotificationStorage) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool().Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить уведомление", err)
		return fmt.Errorf("удаление уведомления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *NotificationStorage) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	tag, err := s.db.Pool().Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		logger.Error("Repository: Не удалось очистить уведомления", err, zap.String("user_id", userID))
		return 0, fmt.Errorf("очистка уведомлений: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *NotificationStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := s.db.Pool().QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("проверка уведомления: %w", err)
	}
	return exists, nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var snap notification.Snapshot
	err := row.Scan(
		&snap.ID,
		&snap.UserID,
		&snap.Type,
		&snap.Title,
		&snap.Message,
		&snap.RelatedEntityID,
		&snap.RelatedEntityType,
		&snap.IsRead,
		&snap.ReadAt,
		&snap.CreatedAt,
		&snap.UpdatedAt,
		&snap.Version,
	)
	if err != nil {
		return nil, err
	}
	return notification.Reconstitute(snap), nil
}
