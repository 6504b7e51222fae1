package swaprequest

import (
	"context"
)

// SubjectCreated is the NATS subject created events are published on.
const SubjectCreated = "swaprequest.created"

// Bus is the transport the NATS publisher satisfies.
type Bus interface {
	Publish(ctx context.Context, subject string, v any) error
}

// BusPublisher publishes created events on a Bus.
type BusPublisher struct {
	bus Bus
}

func NewBusPublisher(bus Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

func (p *BusPublisher) PublishCreated(ctx context.Context, e CreatedEvent) error {
	return p.bus.Publish(ctx, SubjectCreated, e)
}

// NoopPublisher drops events. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishCreated(context.Context, CreatedEvent) error { return nil }
