package billing

import (
	"time"

	"github.com/google/uuid"
)

// Subscription caches the last entitlement answer from the billing provider.
type Subscription struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	IsActive    bool       `gorm:"column:is_active;not null" json:"is_active"`
	Entitlement string     `gorm:"column:entitlement;type:text" json:"entitlement,omitempty"`
	ExpiryDate  *time.Time `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	LastChecked time.Time  `gorm:"column:last_checked;not null" json:"last_checked"`
}

func (Subscription) TableName() string { return "subscription" }
