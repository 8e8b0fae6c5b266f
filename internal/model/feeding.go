package model

import (
	"time"

	"github.com/google/uuid"
)

// FeedingWindow is one slot in the daily feeding schedule. The wall-clock
// time ("HH:MM", 24h UTC) is the identity; the label is optional display
// text ("Breakfast").
type FeedingWindow struct {
	Time  string  `json:"time" gorm:"primaryKey;size:5"`
	Label *string `json:"label" gorm:"size:100"`
}

// TableName overrides the gorm default
func (FeedingWindow) TableName() string {
	return "feeding_schedule"
}

// Feeding is one recorded feeding event. At most one exists per
// (window_time, UTC calendar date); the service checks before insert and a
// partial unique index backs it up under concurrent submission.
type Feeding struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	WindowTime string    `json:"window_time" gorm:"size:5;not null"`
	PhotoKey   *string   `json:"photo_key" gorm:"size:500"`
	FedAt      time.Time `json:"fed_at" gorm:"not null;default:now()"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName overrides the gorm default
func (Feeding) TableName() string {
	return "feedings"
}

// WindowStatus is the derived per-window view for today: schedule entry
// joined against today's feedings. Never persisted.
type WindowStatus struct {
	Time     string     `json:"time"`
	Label    *string    `json:"label"`
	IsFed    bool       `json:"is_fed"`
	IsActive bool       `json:"is_active"`
	FedBy    *string    `json:"fed_by"`
	FedAt    *time.Time `json:"fed_at"`
	PhotoKey *string    `json:"photo_key"`
}

// DisplayName returns the window's label, falling back to its time.
func (w FeedingWindow) DisplayName() string {
	if w.Label != nil && *w.Label != "" {
		return *w.Label
	}
	return w.Time
}
