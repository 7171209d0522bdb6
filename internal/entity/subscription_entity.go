package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type BillingPeriod string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusUnpaid   SubscriptionStatus = "unpaid"

	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"

	// PlanSlugFree never consumes paid capacity.
	PlanSlugFree       = "free"
	PlanSlugPro        = "pro"
	PlanSlugEnterprise = "enterprise"
)

type Plan struct {
	Id            uuid.UUID
	Name          string
	Slug          string
	Description   string
	Price         float64
	TaxRate       float64
	BillingPeriod BillingPeriod
	// Feature flags
	ImageGenerationEnabled bool
	VideoGenerationEnabled bool
	ProModeEnabled         bool
	// Usage ceilings
	MaxRequestsPerMonth int // -1 = unlimited
	MaxFileSizeMB       int
	IsActive            bool
	SortOrder           int
}

// IsPaid reports whether a subscription on this plan consumes a capacity slot.
func (p *Plan) IsPaid() bool {
	return p.Slug != PlanSlugFree
}

// Subscription is the single billing row a user owns. It is never
// hard-deleted; lifecycle events only move its status.
type Subscription struct {
	Id                     uuid.UUID
	UserId                 uuid.UUID
	PlanId                 uuid.UUID
	Status                 SubscriptionStatus
	ExternalCustomerId     *string
	ExternalSubscriptionId *string
	CurrentPeriodStart     time.Time
	CurrentPeriodEnd       time.Time
	CancelAtPeriodEnd      bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
