package repository

import (
	"github.com/rupert648/feed-the-moose/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationLogRepository is the per-day, per-window dedup ledger for
// reminder notifications.
type NotificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// HasSent reports whether a reminder was already dispatched for the window
// on the given UTC date.
func (r *NotificationLogRepository) HasSent(windowTime, date string) (bool, error) {
	var count int64
	err := r.db.Model(&model.NotificationLogEntry{}).
		Where("window_time = ? AND notification_date = ?", windowTime, date).
		Count(&count).Error
	return count > 0, err
}

// MarkSent records that a reminder was dispatched. Calling it twice for the
// same key is a no-op; the unique constraint absorbs the duplicate.
func (r *NotificationLogRepository) MarkSent(windowTime, date string) error {
	entry := model.NotificationLogEntry{
		WindowTime:       windowTime,
		NotificationDate: date,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "window_time"}, {Name: "notification_date"}},
		DoNothing: true,
	}).Create(&entry).Error
}
