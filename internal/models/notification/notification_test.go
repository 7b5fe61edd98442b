package notification_test

import (
	"strings"
	"suru/internal/errs"
	"suru/internal/models/notification"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotification(t *testing.T) *notification.Notification {
	t.Helper()
	n, err := notification.New(notification.CreateParams{
		UserID:            "U1",
		Type:              "TASK_ASSIGNED",
		Title:             " You have a new task ",
		Message:           "Task 'Deploy' was assigned to you",
		RelatedEntityID:   "task-1",
		RelatedEntityType: "task",
	})
	require.NoError(t, err)
	return n
}

func TestNew(t *testing.T) {
	n := newNotification(t)

	assert.Equal(t, 1, n.Version())
	assert.False(t, n.IsRead())
	assert.Nil(t, n.ReadAt())
	assert.Equal(t, "You have a new task", n.Title().String())
	assert.Equal(t, "Task 'Deploy' was assigned to you", n.Message().String())
	assert.Equal(t, notification.TypeTaskAssigned, n.Type())
	assert.Equal(t, n.CreatedAt(), n.UpdatedAt())
}

func TestNew_Validation(t *testing.T) {
	base := notification.CreateParams{UserID: "U1", Type: "SYSTEM_ALERT", Title: "t", Message: "m"}

	tests := []struct {
		name    string
		mutate  func(p *notification.CreateParams)
		message string
	}{
		{name: "type", mutate: func(p *notification.CreateParams) { p.Type = "EMAIL" }, message: "Invalid notification type: EMAIL"},
		{name: "title required", mutate: func(p *notification.CreateParams) { p.Title = "  " }, message: "Notification title is required"},
		{name: "message required", mutate: func(p *notification.CreateParams) { p.Message = "" }, message: "Notification message is required"},
		{name: "title length", mutate: func(p *notification.CreateParams) { p.Title = strings.Repeat("a", 201) }, message: "Notification title must be less than 200 characters"},
		{name: "message length", mutate: func(p *notification.CreateParams) { p.Message = strings.Repeat("a", 1001) }, message: "Notification message must be less than 1000 characters"},
		{name: "user", mutate: func(p *notification.CreateParams) { p.UserID = "" }, message: "User ID is required"},
		{name: "related pair", mutate: func(p *notification.CreateParams) { p.RelatedEntityID = "x" }, message: "Related entity id and type must be provided together"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := notification.New(p)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.KindValidation))
			assert.Equal(t, tt.message, errs.MessageOf(err))
		})
	}

	p := base
	p.Title = strings.Repeat("a", 200)
	p.Message = strings.Repeat("a", 1000)
	_, err := notification.New(p)
	assert.NoError(t, err)
}

func TestTitleAndMessage(t *testing.T) {
	title, err := notification.NewTitle("  Deploy finished ")
	require.NoError(t, err)
	assert.Equal(t, "Deploy finished", title.String())

	same, err := notification.NewTitle("Deploy finished")
	require.NoError(t, err)
	assert.True(t, title.Equals(same))

	other, err := notification.NewTitle("Deploy failed")
	require.NoError(t, err)
	assert.False(t, title.Equals(other))

	_, err = notification.NewTitle(strings.Repeat("я", 201))
	assert.Equal(t, "Notification title must be less than 200 characters", errs.MessageOf(err))

	msg, err := notification.NewMessage(strings.Repeat("я", 1000))
	require.NoError(t, err)
	assert.Equal(t, 1000, len([]rune(msg.String())))

	_, err = notification.NewMessage(" \t ")
	assert.Equal(t, "Notification message is required", errs.MessageOf(err))

	again, err := notification.NewMessage(msg.String())
	require.NoError(t, err)
	assert.True(t, msg.Equals(again))
}

func TestMarkAsRead_Twice(t *testing.T) {
	n := newNotification(t)

	require.NoError(t, n.MarkAsRead())
	assert.True(t, n.IsRead())
	require.NotNil(t, n.ReadAt())
	assert.Equal(t, 2, n.Version())

	err := n.MarkAsRead()
	assert.Equal(t, "Notification is already marked as read", errs.MessageOf(err))
	assert.Equal(t, 2, n.Version())

	require.NoError(t, n.MarkAsUnread())
	assert.Nil(t, n.ReadAt())
	assert.Equal(t, 3, n.Version())

	err = n.MarkAsUnread()
	assert.Equal(t, "Notification is already marked as unread", errs.MessageOf(err))
	assert.Equal(t, 3, n.Version())
}

func TestType_Groups(t *testing.T) {
	tests := []struct {
		raw                   string
		task, team, projectOK bool
	}{
		{raw: "TASK_ASSIGNED", task: true},
		{raw: "TASK_COMMENTED", task: true},
		{raw: "TEAM_INVITATION", team: true},
		{raw: "TEAM_REMOVED", team: true},
		{raw: "PROJECT_CREATED", projectOK: true},
		{raw: "PROJECT_ARCHIVED", projectOK: true},
		{raw: "SYSTEM_ALERT"},
	}
	for _, tt := range tests {
		typ, err := notification.ParseType(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.task, typ.IsTaskRelated(), tt.raw)
		assert.Equal(t, tt.team, typ.IsTeamRelated(), tt.raw)
		assert.Equal(t, tt.projectOK, typ.IsProjectRelated(), tt.raw)
	}
}

func TestReconstitute_RoundTrip(t *testing.T) {
	n := newNotification(t)
	require.NoError(t, n.MarkAsRead())

	restored := notification.Reconstitute(n.Snapshot())
	assert.Equal(t, n.Snapshot(), restored.Snapshot())
}

func TestFilter_Matches(t *testing.T) {
	n := newNotification(t)
	typ := notification.TypeTaskAssigned
	other := notification.TypeSystemAlert
	unread := false

	assert.True(t, notification.Filter{UserID: "U1", Type: &typ, IsRead: &unread}.Matches(n))
	assert.False(t, notification.Filter{UserID: "U2"}.Matches(n))
	assert.False(t, notification.Filter{Type: &other}.Matches(n))
}
