package model

// NotificationLogEntry records that a reminder batch was dispatched for a
// window on a given UTC calendar date ("YYYY-MM-DD"). Existence of the row
// is the dedup guard; rows are only ever inserted, never updated.
type NotificationLogEntry struct {
	ID               uint   `json:"id" gorm:"primaryKey"`
	WindowTime       string `json:"window_time" gorm:"size:5;not null;uniqueIndex:idx_window_date"`
	NotificationDate string `json:"notification_date" gorm:"size:10;not null;uniqueIndex:idx_window_date"`
}

// TableName overrides the gorm default
func (NotificationLogEntry) TableName() string {
	return "notification_log"
}
