package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Plans / Checkout ---

type PlanResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
}

type CheckoutRequest struct {
	PlanSlug  string `json:"plan_slug" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
}

type CheckoutResponse struct {
	SubscriptionId  uuid.UUID `json:"subscription_id"`
	SnapToken       string    `json:"snap_token"`
	SnapRedirectUrl string    `json:"snap_redirect_url"`
}

type SubscriptionStatusResponse struct {
	SubscriptionId   uuid.UUID `json:"subscription_id,omitempty"`
	PlanName         string    `json:"plan_name"`
	PlanSlug         string    `json:"plan_slug"`
	Status           string    `json:"status"`
	IsActive         bool      `json:"is_active"`
	CurrentPeriodEnd time.Time `json:"current_period_end,omitempty"`
	CancelAtEnd      bool      `json:"cancel_at_period_end"`
}

// --- Provider webhook envelope ---

// ProviderWebhookRequest is the raw lifecycle notification as delivered by
// the payment provider. The controller verifies its signature and maps it
// onto one of the typed events below before the billing service sees it.
type ProviderWebhookRequest struct {
	EventId      string            `json:"event_id"`
	EventType    string            `json:"event_type"`
	SignatureKey string            `json:"signature_key"`
	SessionId    string            `json:"session_id"`
	CustomerId   string            `json:"customer_id"`
	Subscription string            `json:"subscription_id"`
	InvoiceId    string            `json:"invoice_id"`
	Status       string            `json:"status"`
	GrossAmount  float64           `json:"gross_amount"`
	PeriodStart  int64             `json:"period_start"`
	PeriodEnd    int64             `json:"period_end"`
	CancelAtEnd  bool              `json:"cancel_at_period_end"`
	Metadata     map[string]string `json:"metadata"`
}

// --- Internal lifecycle event union ---
//
// The billing service is written against these narrow shapes so the core
// never depends on a provider SDK's payload layout.

type CheckoutCompletedEvent struct {
	EventId        string
	SessionId      string
	CustomerId     string
	SubscriptionId string
	UserId         uuid.UUID
	PlanSlug       string
	Amount         float64
}

type InvoicePaidEvent struct {
	EventId        string
	SubscriptionId string
	InvoiceId      string
	Amount         float64
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

type InvoicePaymentFailedEvent struct {
	EventId        string
	SubscriptionId string
	InvoiceId      string
	AmountDue      float64
	AttemptCount   int
}

type SubscriptionUpdatedEvent struct {
	EventId        string
	SubscriptionId string
	ProviderStatus string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	CancelAtEnd    bool
}

type SubscriptionDeletedEvent struct {
	EventId        string
	SubscriptionId string
}
