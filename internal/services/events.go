package services

import (
	"context"
	"log"
)

// Event keys published by the services.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher is satisfied by the RabbitMQ client and the Kafka producer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// publish is best effort: a failure is logged and never fails the caller.
func publish(ctx context.Context, p EventPublisher, key string, event any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, key, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", key, err)
	}
}
