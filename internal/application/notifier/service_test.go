package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/careerhub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- mocks ---

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNotificationStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if n, _ := args.Get(0).([]domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) MarkAsRead(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}
func (m *mockNotificationStore) MarkAllAsRead(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockChannel struct{ mock.Mock }

func (m *mockChannel) Publish(ctx context.Context, subjectID, event string, payload interface{}) error {
	return m.Called(ctx, subjectID, event, payload).Error(0)
}

// --- Notify ---

func TestNotify_PersistsBeforePush(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	ch := &mockChannel{}
	ch.On("Publish", mock.Anything, "u1", "notification", mock.Anything).Return(nil)

	svc := NewService(repo, ch, zap.NewNop())

	n, err := svc.Notify(context.Background(), "u1", "Title", "Body", domain.NotificationJob, "/applications")

	require.NoError(t, err)
	assert.Equal(t, "u1", n.UserID)
	assert.False(t, n.IsRead)
	assert.NotEmpty(t, n.NotificationID)
	repo.AssertExpectations(t)
	ch.AssertExpectations(t)
}

func TestNotify_PersistFailure_NoPush(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(errors.New("table throttled"))

	ch := &mockChannel{}
	svc := NewService(repo, ch, zap.NewNop())

	_, err := svc.Notify(context.Background(), "u1", "Title", "Body", domain.NotificationJob, "")

	require.Error(t, err)
	ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotify_PushFailure_Tolerated(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	ch := &mockChannel{}
	ch.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("topic gone"))

	svc := NewService(repo, ch, zap.NewNop())

	n, err := svc.Notify(context.Background(), "u1", "Title", "Body", domain.NotificationCareer, "")

	require.NoError(t, err)
	require.NotNil(t, n)
}

func TestNotify_NoChannelConfigured(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, nil, zap.NewNop())

	n, err := svc.Notify(context.Background(), "u1", "Title", "Body", domain.NotificationDeadline, "")

	require.NoError(t, err)
	require.NotNil(t, n)
}

// --- MarkAsRead ---

func TestMarkAsRead_OtherSubjects_NotFound(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Get", mock.Anything, "n1").
		Return(&domain.Notification{NotificationID: "n1", UserID: "someone-else"}, nil)

	svc := NewService(repo, nil, zap.NewNop())

	_, err := svc.MarkAsRead(context.Background(), "n1", "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestMarkAsRead_Owner_Succeeds(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Get", mock.Anything, "n1").
		Return(&domain.Notification{NotificationID: "n1", UserID: "u1"}, nil)
	repo.On("MarkAsRead", mock.Anything, "n1").Return(nil)

	svc := NewService(repo, nil, zap.NewNop())

	n, err := svc.MarkAsRead(context.Background(), "n1", "u1")

	require.NoError(t, err)
	assert.True(t, n.IsRead)
	repo.AssertExpectations(t)
}

// --- MarkAllAsRead ---

func TestMarkAllAsRead_ScopedToSubject(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("MarkAllAsRead", mock.Anything, "u1").Return(nil)

	svc := NewService(repo, nil, zap.NewNop())

	require.NoError(t, svc.MarkAllAsRead(context.Background(), "u1"))
	repo.AssertExpectations(t)
}
