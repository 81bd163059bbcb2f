package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"staffdesk/internal/events"
	notificationerrors "staffdesk/internal/notification/errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// WorkflowConsumer drains one workflow topic into the in-app feed. The api
// process never blocks on it; a transition's notification lands whenever the
// consumer catches up.
type WorkflowConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewWorkflowConsumer(
	broker string,
	topic string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *WorkflowConsumer {
	l := zap.L().Named("notification.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.consumer")
	}

	return &WorkflowConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          topic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *WorkflowConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("consume workflow event failed", zap.Error(err))
				continue
			}

			recipientID, kind, payload, err := decodeWorkflowEvent(msg.Value)
			if err != nil {
				c.logger.Error("decode workflow event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid workflow event failed", zap.Error(commitErr))
				}
				continue
			}

			if err := c.service.Record(ctx, recipientID, kind, payload); err != nil {
				c.logger.Error("record notification failed",
					zap.String("recipient_id", recipientID),
					zap.String("kind", kind),
					zap.Error(err),
				)
				// A validation failure never succeeds on redelivery; only
				// transient store errors are worth retrying.
				if permanentRecordFailure(err) {
					if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
						c.logger.Error("commit invalid workflow event failed", zap.Error(commitErr))
					}
				}
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit workflow event failed", zap.Error(err))
				continue
			}

			c.logger.Info("notification written from workflow event",
				zap.String("recipient_id", recipientID),
				zap.String("kind", kind),
			)
		}
	}()
}

func (c *WorkflowConsumer) Close() error {
	return c.reader.Close()
}

// decodeWorkflowEvent understands both workflow payload shapes; they share
// the kind and recipient_id fields the feed needs.
func decodeWorkflowEvent(value []byte) (recipientID, kind string, payload json.RawMessage, err error) {
	var envelope struct {
		Kind        string `json:"kind"`
		RecipientID string `json:"recipient_id"`
	}
	if err := json.Unmarshal(value, &envelope); err != nil {
		return "", "", nil, err
	}

	switch envelope.Kind {
	case events.KindLeaveRecommended, events.KindLeaveDecided, events.KindProgramDecided:
	default:
		return "", "", nil, errUnknownKind(envelope.Kind)
	}

	return envelope.RecipientID, envelope.Kind, json.RawMessage(value), nil
}

type errUnknownKind string

func (e errUnknownKind) Error() string {
	return "unknown workflow event kind: " + string(e)
}

// permanentRecordFailure reports whether recording the event can never
// succeed, so the message must be committed and dropped instead of redelivered
// forever.
func permanentRecordFailure(err error) bool {
	return errors.Is(err, notificationerrors.ErrInvalidRecipient)
}
