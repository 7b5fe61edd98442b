package postgres_test

import (
	"context"
	"suru/internal/models/notification"
	repo "suru/internal/repository"
	notificationpg "suru/internal/repository/notification/postgres"
	"suru/internal/repository/postgres"
	"suru/internal/repository/postgres/pgtest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type NotificationSuite struct {
	suite.Suite
	container *pgtest.Container
	db        *postgres.Storage
	storage   *notificationpg.NotificationStorage
	ctx       context.Context
}

func TestNotificationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(NotificationSuite))
}

func (s *NotificationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := pgtest.Start(s.ctx)
	require.NoError(s.T(), err)
	s.container = container

	require.NoError(s.T(), postgres.Migrate(container.URL))
	s.db, err = postgres.New(s.ctx, container.URL, postgres.DefaultPoolConfig)
	require.NoError(s.T(), err)
	s.storage = notificationpg.NewNotificationStorage(s.db)
}

func (s *NotificationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *NotificationSuite) SetupTest() {
	_, err := s.db.Pool().Exec(s.ctx, "DELETE FROM notifications")
	require.NoError(s.T(), err)
}

func (s *NotificationSuite) create(userID, kind string) *notification.Notification {
	n, err := notification.New(notification.CreateParams{
		UserID:  userID,
		Type:    kind,
		Title:   "Title",
		Message: "Message",
	})
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.storage.Save(s.ctx, n))
	return n
}

func (s *NotificationSuite) TestMarkAsReadCAS() {
	n := s.create("U1", "SYSTEM_ALERT")

	first, err := s.storage.FindByID(s.ctx, n.ID())
	require.NoError(s.T(), err)
	stale, err := s.storage.FindByID(s.ctx, n.ID())
	require.NoError(s.T(), err)

	require.NoError(s.T(), first.MarkAsRead())
	require.NoError(s.T(), s.storage.Save(s.ctx, first))

	require.NoError(s.T(), stale.MarkAsRead())
	assert.ErrorIs(s.T(), s.storage.Save(s.ctx, stale), repo.ErrVersionConflict)

	stored, err := s.storage.FindByID(s.ctx, n.ID())
	require.NoError(s.T(), err)
	assert.True(s.T(), stored.IsRead())
	assert.NotNil(s.T(), stored.ReadAt())
	assert.Equal(s.T(), 2, stored.Version())
}

func (s *NotificationSuite) TestFindManyAndCounters() {
	s.create("U1", "SYSTEM_ALERT")
	s.create("U1", "TASK_ASSIGNED")
	read := s.create("U1", "TASK_ASSIGNED")
	s.create("U2", "TASK_ASSIGNED")

	require.NoError(s.T(), read.MarkAsRead())
	require.NoError(s.T(), s.storage.Save(s.ctx, read))

	count, err := s.storage.CountUnread(s.ctx, "U1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, count)

	typ := notification.TypeTaskAssigned
	unread := false
	items, total, err := s.storage.FindMany(s.ctx, notification.Filter{UserID: "U1", Type: &typ, IsRead: &unread})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, total)
	require.Len(s.T(), items, 1)

	removed, err := s.storage.DeleteByUserID(s.ctx, "U1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, removed)

	_, total, err = s.storage.FindMany(s.ctx, notification.Filter{})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, total)
}

func (s *NotificationSuite) TestDeleteMissing() {
	n := s.create("U1", "SYSTEM_ALERT")
	require.NoError(s.T(), s.storage.Delete(s.ctx, n.ID()))

	assert.ErrorIs(s.T(), s.storage.Delete(s.ctx, n.ID()), repo.ErrNotFound)
	_, err := s.storage.FindByID(s.ctx, n.ID())
	assert.ErrorIs(s.T(), err, repo.ErrNotFound)
}
