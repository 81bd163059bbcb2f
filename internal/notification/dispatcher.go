package notification

import (
	"context"
	"encoding/json"

	"staffdesk/internal/messaging/kafka"
	"staffdesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outgoing is one workflow notification to hand off. Delivery is
// fire-and-forget: callers log and swallow a Dispatch error, the primary
// state transition is never rolled back for it.
type Outgoing struct {
	Topic         string
	Kind          string
	AggregateType string
	AggregateID   string
	Payload       any
}

//go:generate mockgen -source=dispatcher.go -destination=mock/dispatcher_mock.go -package=mock
type Dispatcher interface {
	Dispatch(ctx context.Context, out Outgoing) error
}

type outboxDispatcher struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewDispatcher(outbox kafka.OutboxRepository, logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &outboxDispatcher{outbox: outbox, logger: l}
}

func (d *outboxDispatcher) Dispatch(ctx context.Context, out Outgoing) error {
	payload, err := json.Marshal(out.Payload)
	if err != nil {
		return err
	}

	event := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: out.AggregateType,
		AggregateID:   out.AggregateID,
		EventType:     out.Kind,
		Topic:         out.Topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(event); err != nil {
		return err
	}

	if err := d.outbox.Create(ctx, event); err != nil {
		return err
	}

	d.logger.Debug("notification queued",
		zap.String("kind", out.Kind),
		zap.String("aggregate_id", out.AggregateID),
		zap.String("topic", out.Topic),
	)
	return nil
}
