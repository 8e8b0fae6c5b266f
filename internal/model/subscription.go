package model

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one browser push endpoint registered by a device.
// The endpoint URL is globally unique; re-subscribing the same endpoint
// with fresh keys updates the row in place.
type PushSubscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Endpoint  string    `json:"endpoint" gorm:"uniqueIndex;not null"`
	P256dhKey string    `json:"p256dh_key" gorm:"not null"`
	AuthKey   string    `json:"auth_key" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the gorm default
func (PushSubscription) TableName() string {
	return "push_subscriptions"
}
