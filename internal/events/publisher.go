package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	topicPrefix      = "booking."
	metadataEventKey = "event_name"
)

// Topic is the stream an event with the given name is published on.
func Topic(eventName string) string {
	return topicPrefix + eventName
}

// Publisher encodes domain events as JSON watermill messages.
type Publisher struct {
	publisher message.Publisher
}

func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{publisher: publisher}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", event.EventName(), err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(metadataEventKey, event.EventName())
	msg.SetContext(ctx)

	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))

	err = p.publisher.Publish(Topic(event.EventName()), msg)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventName(), err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.publisher.Close()
}
