package model

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Slug          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description   string    `gorm:"type:text"`
	Price         float64   `gorm:"type:decimal(10,2);not null"`
	TaxRate       float64   `gorm:"type:decimal(5,4);default:0"`
	BillingPeriod string    `gorm:"type:varchar(20);not null"`
	// Feature flags
	ImageGenerationEnabled bool `gorm:"default:false"`
	VideoGenerationEnabled bool `gorm:"default:false"`
	ProModeEnabled         bool `gorm:"default:false"`
	// Usage ceilings, -1 = unlimited
	MaxRequestsPerMonth int  `gorm:"default:50"`
	MaxFileSizeMB       int  `gorm:"default:10"`
	IsActive            bool `gorm:"default:true"`
	SortOrder           int  `gorm:"default:0"`
}

func (Plan) TableName() string {
	return "plans"
}

type Subscription struct {
	Id                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	PlanId                 uuid.UUID `gorm:"type:uuid;not null;index"`
	Status                 string    `gorm:"type:varchar(50);not null"`
	ExternalCustomerId     *string   `gorm:"type:varchar(255);index"`
	ExternalSubscriptionId *string   `gorm:"type:varchar(255);index"`
	CurrentPeriodStart     time.Time `gorm:"not null"`
	CurrentPeriodEnd       time.Time `gorm:"not null"`
	CancelAtPeriodEnd      bool      `gorm:"default:false"`
	CreatedAt              time.Time `gorm:"autoCreateTime"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
