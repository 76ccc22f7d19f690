package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/careerhub-api/internal/domain"
	"github.com/careerhub-api/internal/pkg/effort"
	"github.com/careerhub-api/internal/pkg/id"
	"go.uber.org/zap"
)

type Service interface {
	// Notify persists a notification record and then attempts a real-time
	// push to the subject's channel. The persisted record is the source of
	// truth; a failed or dropped push never fails the call.
	Notify(ctx context.Context, subjectID, title, message, ntype, link string) (*domain.Notification, error)
	ListUnread(ctx context.Context, subjectID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, subjectID string) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, subjectID string) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type channelPublisher interface {
	Publish(ctx context.Context, subjectID, event string, payload interface{}) error
}

type service struct {
	repo    notificationStore
	channel channelPublisher // nil when the real-time channel is unconfigured
	log     *zap.Logger
}

func NewService(repo notificationStore, channel channelPublisher, log *zap.Logger) Service {
	return &service{repo: repo, channel: channel, log: log}
}

func (s *service) Notify(ctx context.Context, subjectID, title, message, ntype, link string) (*domain.Notification, error) {
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         subjectID,
		Title:          title,
		Message:        message,
		Type:           ntype,
		IsRead:         false,
		Link:           link,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	if s.channel != nil {
		effort.Try(s.log, "realtime push", func() error {
			return s.channel.Publish(ctx, subjectID, "notification", n)
		})
	}
	return n, nil
}

func (s *service) ListUnread(ctx context.Context, subjectID string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, subjectID)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, subjectID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	// Scoped lookup: another subject's notification is indistinguishable
	// from a missing one.
	if n.UserID != subjectID {
		return nil, fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	if err := s.repo.MarkAsRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

func (s *service) MarkAllAsRead(ctx context.Context, subjectID string) error {
	return s.repo.MarkAllAsRead(ctx, subjectID)
}
