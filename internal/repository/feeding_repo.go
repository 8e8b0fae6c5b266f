package repository

import (
	"github.com/rupert648/feed-the-moose/internal/model"
	"gorm.io/gorm"
)

// FeedingRepository handles database operations for Feeding records.
// Day scoping is always the UTC calendar date, matching the evaluator.
type FeedingRepository struct {
	db *gorm.DB
}

func NewFeedingRepository(db *gorm.DB) *FeedingRepository {
	return &FeedingRepository{db: db}
}

// Create inserts a new feeding record
func (r *FeedingRepository) Create(feeding *model.Feeding) error {
	return r.db.Create(feeding).Error
}

// FindForDate returns all feedings on the given UTC date ("YYYY-MM-DD"),
// newest first, with the feeder's name joined in.
func (r *FeedingRepository) FindForDate(date string) ([]model.FeedingEntry, error) {
	var entries []model.FeedingEntry
	err := r.db.Model(&model.Feeding{}).
		Select("feedings.id, feedings.user_id, users.name AS user_name, feedings.window_time, feedings.photo_key, feedings.fed_at").
		Joins("JOIN users ON users.id = feedings.user_id").
		Where("(feedings.fed_at AT TIME ZONE 'UTC')::date = ?", date).
		Order("feedings.fed_at DESC").
		Scan(&entries).Error
	return entries, err
}

// ExistsForWindowOnDate reports whether the window already has a feeding
// on the given UTC date.
func (r *FeedingRepository) ExistsForWindowOnDate(windowTime, date string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Feeding{}).
		Where("window_time = ? AND (fed_at AT TIME ZONE 'UTC')::date = ?", windowTime, date).
		Count(&count).Error
	return count > 0, err
}

// History returns a page of feeding records, newest first, plus the total count
func (r *FeedingRepository) History(limit, offset int) ([]model.FeedingEntry, int64, error) {
	var total int64
	if err := r.db.Model(&model.Feeding{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.FeedingEntry
	err := r.db.Model(&model.Feeding{}).
		Select("feedings.id, feedings.user_id, users.name AS user_name, feedings.window_time, feedings.photo_key, feedings.fed_at").
		Joins("JOIN users ON users.id = feedings.user_id").
		Order("feedings.fed_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&entries).Error
	return entries, total, err
}
