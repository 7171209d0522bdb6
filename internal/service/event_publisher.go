package service

import (
	"context"

	"creative-flow-be/pkg/events"
)

// EventPublisher abstracts the NATS bus so services can be tested without a
// running broker. Satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
