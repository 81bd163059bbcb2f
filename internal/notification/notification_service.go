package notification

import (
	"context"
	"encoding/json"
	"time"

	"staffdesk/internal/domain"
	notificationerrors "staffdesk/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultFeedLimit = 50

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// Record writes one feed row; the consumer is the only caller.
	Record(ctx context.Context, recipientID, kind string, payload any) error
	List(ctx context.Context, actor domain.Actor) ([]NotificationResponse, error)
	UnreadCount(ctx context.Context, actor domain.Actor) (int64, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) error
	MarkAllRead(ctx context.Context, actor domain.Actor) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, recipientID, kind string, payload any) error {
	rid, err := uuid.Parse(recipientID)
	if err != nil {
		return notificationerrors.ErrInvalidRecipient
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	n := &Notification{
		ID:          uuid.New(),
		RecipientID: rid,
		Kind:        kind,
		Payload:     body,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Debug("notification recorded",
		zap.String("recipient_id", recipientID),
		zap.String("kind", kind),
	)
	return nil
}

func (s *service) List(ctx context.Context, actor domain.Actor) ([]NotificationResponse, error) {
	items, err := s.repo.FindByRecipient(ctx, actor.ID, defaultFeedLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = NotificationResponse{
			ID:        n.ID.String(),
			Kind:      n.Kind,
			Payload:   json.RawMessage(n.Payload),
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *service) UnreadCount(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.repo.CountUnread(ctx, actor.ID)
}

func (s *service) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	updated, err := s.repo.MarkRead(ctx, actor.ID, id)
	if err != nil {
		return err
	}
	if !updated {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, actor domain.Actor) error {
	return s.repo.MarkAllRead(ctx, actor.ID)
}
