package dto

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistJoinRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty" validate:"omitempty,max=255"`
}

type WaitlistJoinResponse struct {
	Position int `json:"position"`
}

type WaitlistEntryResponse struct {
	Id         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name,omitempty"`
	Status     string     `json:"status"`
	Position   *int       `json:"position,omitempty"` // only for pending entries
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type WaitlistListResponse struct {
	Entries []*WaitlistEntryResponse `json:"entries"`
	Total   int64                    `json:"total"`
}

// WaitlistInviteMessage is the payload handed to the mail consumer for each
// notified entry.
type WaitlistInviteMessage struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CapacityStatsResponse struct {
	PaidUsersCount    int   `json:"paid_users_count"`
	MaxPaidUsers      int   `json:"max_paid_users"`
	AvailableSlots    int   `json:"available_slots"`
	WaitlistCount     int64 `json:"waitlist_count"`
	IsCapacityReached bool  `json:"is_capacity_reached"`
}
