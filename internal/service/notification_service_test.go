package service_test

import (
	"context"
	"errors"
	"suru/internal/errs"
	"suru/internal/models/notification"
	notificationmem "suru/internal/repository/notification/inmemory"
	"suru/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notify(t *testing.T, svc *service.NotificationService, userID, kind string) string {
	t.Helper()
	out, err := svc.CreateNotification(context.Background(), notification.CreateParams{
		UserID:  userID,
		Type:    kind,
		Title:   "Heads up",
		Message: "Something happened",
	})
	require.NoError(t, err)
	return out.ID
}

func TestNotificationService_ReadFlow(t *testing.T) {
	ctx := context.Background()
	svc := service.NewNotificationService(notificationmem.NewNotificationStorage())
	id := notify(t, svc, "U1", "TASK_ASSIGNED")

	out, err := svc.MarkAsRead(ctx, owner, id)
	require.NoError(t, err)
	assert.True(t, out.IsRead)
	assert.NotNil(t, out.ReadAt)
	assert.Equal(t, 2, out.Version)

	_, err = svc.MarkAsRead(ctx, owner, id)
	assert.Equal(t, "Notification is already marked as read", errs.MessageOf(err))

	got, err := svc.GetNotification(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)

	out, err = svc.MarkAsUnread(ctx, owner, id)
	require.NoError(t, err)
	assert.False(t, out.IsRead)
	assert.Nil(t, out.ReadAt)
}

func TestNotificationService_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	svc := service.NewNotificationService(notificationmem.NewNotificationStorage())
	id := notify(t, svc, "U1", "SYSTEM_ALERT")
	stranger := service.NewCaller("U2")

	_, err := svc.GetNotification(ctx, stranger, id)
	assert.True(t, errs.Is(err, errs.KindForbidden))

	_, err = svc.MarkAsRead(ctx, stranger, id)
	assert.True(t, errs.Is(err, errs.KindForbidden))

	err = svc.DeleteNotification(ctx, stranger, id)
	assert.True(t, errs.Is(err, errs.KindForbidden))

	require.NoError(t, svc.DeleteNotification(ctx, owner, id))
	_, err = svc.GetNotification(ctx, owner, id)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestNotificationService_MarkAllAndCount(t *testing.T) {
	ctx := context.Background()
	svc := service.NewNotificationService(notificationmem.NewNotificationStorage())
	for i := 0; i < 3; i++ {
		notify(t, svc, "U1", "TEAM_INVITATION")
	}
	notify(t, svc, "U1", "PROJECT_CREATED")
	notify(t, svc, "U2", "SYSTEM_ALERT")

	count, err := svc.CountUnread(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	page, err := svc.ListNotifications(ctx, owner, service.NotificationQuery{Type: "TEAM_INVITATION"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	marked, err := svc.MarkAllAsRead(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 4, marked)

	count, err = svc.CountUnread(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	page, err = svc.ListNotifications(ctx, owner, service.NotificationQuery{UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)

	removed, err := svc.ClearNotifications(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	count, err = svc.CountUnread(ctx, service.NewCaller("U2"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotificationService_CreateValidation(t *testing.T) {
	tests := []struct {
		name        string
		params      notification.CreateParams
		setupMock   func(*MockNotificationRepository)
		expectError bool
		errorKind   errs.Kind
	}{
		{
			name:   "success",
			params: notification.CreateParams{UserID: "U1", Type: "TASK_COMMENTED", Title: "t", Message: "m"},
			setupMock: func(m *MockNotificationRepository) {
				m.On("Save", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil)
			},
		},
		{
			name:        "error - unknown type",
			params:      notification.CreateParams{UserID: "U1", Type: "SMS", Title: "t", Message: "m"},
			setupMock:   func(*MockNotificationRepository) {},
			expectError: true,
			errorKind:   errs.KindValidation,
		},
		{
			name:   "error - storage failure",
			params: notification.CreateParams{UserID: "U1", Type: "TASK_COMMENTED", Title: "t", Message: "m"},
			setupMock: func(m *MockNotificationRepository) {
				m.On("Save", mock.Anything, mock.Anything).Return(errors.New("db connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockNotificationRepository)
			tt.setupMock(mockRepo)

			svc := service.NewNotificationService(mockRepo)
			_, err := svc.CreateNotification(context.Background(), tt.params)

			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.errorKind, errs.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
