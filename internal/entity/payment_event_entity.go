package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentEventCheckoutCompleted = "checkout.completed"
	PaymentEventInvoicePaid       = "invoice.paid"
	PaymentEventInvoiceFailed     = "invoice.payment_failed"
	PaymentEventSubscriptionEnded = "subscription.deleted"
	PaymentEventCapacityExceeded  = "checkout.capacity_exceeded"

	PaymentEventStatusProcessed = "processed"
	PaymentEventStatusRejected  = "rejected"
)

// PaymentEvent is an append-only audit row written once per processed
// provider lifecycle event. ExternalEventId doubles as the idempotency key.
type PaymentEvent struct {
	Id              uuid.UUID
	SubscriptionId  *uuid.UUID
	ExternalEventId string
	EventType       string
	Amount          float64
	Status          string
	Metadata        map[string]interface{}
	CreatedAt       time.Time
}
