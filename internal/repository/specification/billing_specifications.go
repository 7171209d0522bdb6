package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByExternalSubscriptionID struct {
	ExternalID string
}

func (s ByExternalSubscriptionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("external_subscription_id = ?", s.ExternalID)
}

type ByExternalEventID struct {
	ExternalID string
}

func (s ByExternalEventID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("external_event_id = ?", s.ExternalID)
}

type ByPlanSlug struct {
	Slug string
}

func (s ByPlanSlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type CreatedAfter struct {
	Time time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at > ?", s.Time)
}

// Waitlist specs

type NotifiedBefore struct {
	Time time.Time
}

func (s NotifiedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notified_at IS NOT NULL AND notified_at < ?", s.Time)
}
