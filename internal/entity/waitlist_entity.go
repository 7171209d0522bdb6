package entity

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistStatus string

const (
	WaitlistStatusPending   WaitlistStatus = "pending"
	WaitlistStatusNotified  WaitlistStatus = "notified"
	WaitlistStatusConverted WaitlistStatus = "converted"
	WaitlistStatusExpired   WaitlistStatus = "expired"
	WaitlistStatusCancelled WaitlistStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transitions except
// reactivation through a fresh Add (converted never reactivates).
func (s WaitlistStatus) IsTerminal() bool {
	return s == WaitlistStatusConverted || s == WaitlistStatusExpired || s == WaitlistStatusCancelled
}

type WaitlistEntry struct {
	Id         uuid.UUID
	Email      string
	Name       string
	Status     WaitlistStatus
	NotifiedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
