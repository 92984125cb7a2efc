package consumer

import (
	"context"
	"errors"

	userdataerrors "hashgate/internal/userdata/errors"
	"hashgate/internal/userdata/service"
	"hashgate/pkg/kafka"
	"hashgate/pkg/logger"

	"github.com/google/uuid"
)

const (
	Source              = "hashgate"
	EventTypeNormalized = "user_data.normalized"
)

// Publisher is the part of kafka.Producer the consumer needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type EventConsumer struct {
	service      service.UserDataService
	publisher    Publisher
	hashUserData bool
	log          *logger.Logger
}

func NewEventConsumer(service service.UserDataService, publisher Publisher, hashUserData bool, log *logger.Logger) *EventConsumer {
	return &EventConsumer{
		service:      service,
		publisher:    publisher,
		hashUserData: hashUserData,
		log:          log,
	}
}

// Handle normalizes one inbound event and publishes the result. Events that
// cannot be parsed fail permanently; publish failures are transient.
func (c *EventConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	out, err := c.service.NormalizeEvent(ctx, msg.Value, c.hashUserData)
	if err != nil {
		if errors.Is(err, userdataerrors.ErrInvalidEvent) {
			return kafka.NewPermanentError("invalid event", err)
		}
		return kafka.NewPermanentError("failed to normalize event", err)
	}

	outMsg := kafka.NewMessage().
		WithKey(routingKey(out, msg.Key)).
		WithRawValue(out).
		WithEventID(msg.GetEventID()).
		WithCorrelationID(msg.GetCorrelationID()).
		WithEventType(EventTypeNormalized).
		WithSource(Source).
		Build()

	if err := c.publisher.Publish(ctx, outMsg); err != nil {
		if kafka.ClassifyError(err) == kafka.ErrorTypeTransient {
			return err
		}
		return kafka.NewTransientError("failed to publish normalized event", err)
	}

	c.log.DebugContext(ctx, "Normalized event published",
		"event_id", outMsg.GetEventID(),
		"key", outMsg.Key,
	)
	return nil
}

func routingKey(event []byte, inboundKey string) string {
	if key := service.EventKey(event); key != "" {
		return key
	}
	if inboundKey != "" {
		return inboundKey
	}
	return uuid.NewString()
}
