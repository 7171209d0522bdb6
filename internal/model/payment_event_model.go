package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentEvent struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionId  *uuid.UUID     `gorm:"type:uuid;index"`
	ExternalEventId string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	EventType       string         `gorm:"type:varchar(100);not null;index"`
	Amount          float64        `gorm:"type:decimal(10,2);default:0"`
	Status          string         `gorm:"type:varchar(50);not null"`
	Metadata        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index"`
}

func (PaymentEvent) TableName() string {
	return "payment_events"
}
