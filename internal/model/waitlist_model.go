package model

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistEntry struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email      string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name       string     `gorm:"type:varchar(255)"`
	Status     string     `gorm:"type:varchar(50);not null;default:'pending';index"`
	NotifiedAt *time.Time `gorm:"index"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}
