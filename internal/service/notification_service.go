package service

import (
	"context"
	"suru/internal/dto"
	"suru/internal/errs"
	"suru/internal/logger"
	"suru/internal/models/notification"
	"suru/internal/models/vo"

	"go.uber.org/zap"
)

const resourceNotification = "Notification"

// NotificationService: уведомления видит и меняет только их получатель
type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

type NotificationQuery struct {
	Type       string
	UnreadOnly bool
	Page       int
	PageSize   int
}

// CreateNotification вызывается другими сервисами, получатель задаётся в параметрах
func (s *NotificationService) CreateNotification(ctx context.Context, p notification.CreateParams) (dto.NotificationDTO, error) {
	n, err := notification.New(p)
	if err != nil {
		return dto.NotificationDTO{}, err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return dto.NotificationDTO{}, translate(err, resourceNotification, n.ID().String())
	}
	logger.Info("Service: Уведомление создано",
		zap.String("notification_id", n.ID().String()),
		zap.String("user_id", n.UserID()),
		zap.String("type", n.Type().String()),
	)
	return dto.FromNotification(n), nil
}

func (s *NotificationService) GetNotification(ctx context.Context, caller Caller, id string) (dto.NotificationDTO, error) {
	n, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return dto.NotificationDTO{}, err
	}
	return dto.FromNotification(n), nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, caller Caller, q NotificationQuery) (dto.Page[dto.NotificationDTO], error) {
	if err := caller.require(); err != nil {
		return dto.Page[dto.NotificationDTO]{}, err
	}
	filter := notification.Filter{UserID: caller.UserID}
	if q.Type != "" {
		typ, err := notification.ParseType(q.Type)
		if err != nil {
			return dto.Page[dto.NotificationDTO]{}, err
		}
		filter.Type = &typ
	}
	if q.UnreadOnly {
		unread := false
		filter.IsRead = &unread
	}
	page, limit, offset := pageWindow(q.Page, q.PageSize)
	filter.Limit, filter.Offset = limit, offset

	items, total, err := s.repo.FindMany(ctx, filter)
	if err != nil {
		return dto.Page[dto.NotificationDTO]{}, translate(err, resourceNotification, "list")
	}
	return dto.NewPage(dto.FromNotifications(items), total, page, limit), nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, caller Caller, id string) (dto.NotificationDTO, error) {
	return s.mutate(ctx, caller, id, (*notification.Notification).MarkAsRead)
}

func (s *NotificationService) MarkAsUnread(ctx context.Context, caller Caller, id string) (dto.NotificationDTO, error) {
	return s.mutate(ctx, caller, id, (*notification.Notification).MarkAsUnread)
}

// MarkAllAsRead помечает прочитанными все непрочитанные уведомления пользователя.
// Конфликт на одном уведомлении не прерывает остальные, он просто пропускается.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, caller Caller) (int, error) {
	if err := caller.require(); err != nil {
		return 0, err
	}
	unread := false
	marked := 0
	for {
		batch, _, err := s.repo.FindMany(ctx, notification.Filter{
			UserID: caller.UserID,
			IsRead: &unread,
			Limit:  100,
		})
		if err != nil {
			return marked, translate(err, resourceNotification, "list")
		}
		if len(batch) == 0 {
			break
		}
		progressed := false
		for _, n := range batch {
			if err := n.MarkAsRead(); err != nil {
				continue
			}
			if err := s.repo.Save(ctx, n); err != nil {
				logger.Warn("Service: Уведомление не отмечено прочитанным",
					zap.String("notification_id", n.ID().String()),
					zap.Error(err),
				)
				continue
			}
			marked++
			progressed = true
		}
		if !progressed {
			break
		}
	}
	logger.Info("Service: Все уведомления прочитаны", zap.String("user_id", caller.UserID), zap.Int("marked", marked))
	return marked, nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, caller Caller, id string) error {
	n, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, n.ID()); err != nil {
		return translate(err, resourceNotification, id)
	}
	return nil
}

// ClearNotifications удаляет все уведомления пользователя
func (s *NotificationService) ClearNotifications(ctx context.Context, caller Caller) (int, error) {
	if err := caller.require(); err != nil {
		return 0, err
	}
	removed, err := s.repo.DeleteByUserID(ctx, caller.UserID)
	if err != nil {
		return 0, translate(err, resourceNotification, caller.UserID)
	}
	return removed, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, caller Caller) (int, error) {
	if err := caller.require(); err != nil {
		return 0, err
	}
	count, err := s.repo.CountUnread(ctx, caller.UserID)
	if err != nil {
		return 0, translate(err, resourceNotification, caller.UserID)
	}
	return count, nil
}

func (s *NotificationService) mutate(ctx context.Context, caller Caller, id string, apply func(*notification.Notification) error) (dto.NotificationDTO, error) {
	n, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return dto.NotificationDTO{}, err
	}
	if err := apply(n); err != nil {
		return dto.NotificationDTO{}, err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return dto.NotificationDTO{}, translate(err, resourceNotification, id)
	}
	return dto.FromNotification(n), nil
}

func (s *NotificationService) loadOwned(ctx context.Context, caller Caller, rawID string) (*notification.Notification, error) {
	if err := caller.require(); err != nil {
		return nil, err
	}
	id, err := vo.ParseID("Notification ID", rawID)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, resourceNotification, rawID)
	}
	if n.UserID() != caller.UserID {
		return nil, errs.Forbidden("Notification belongs to another user")
	}
	return n, nil
}
