package repository

import (
	"github.com/rupert648/feed-the-moose/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleRepository handles database operations for the feeding schedule
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetAll returns every schedule window ordered by time ascending
func (r *ScheduleRepository) GetAll() ([]model.FeedingWindow, error) {
	var windows []model.FeedingWindow
	err := r.db.Order("time").Find(&windows).Error
	return windows, err
}

// Add inserts a new window; a duplicate time is a no-op
func (r *ScheduleRepository) Add(window *model.FeedingWindow) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "time"}},
		DoNothing: true,
	}).Create(window).Error
}

// UpdateLabel sets the label for an existing window
func (r *ScheduleRepository) UpdateLabel(time string, label *string) error {
	result := r.db.Model(&model.FeedingWindow{}).
		Where("time = ?", time).
		Update("label", label)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Remove deletes a window from the schedule
func (r *ScheduleRepository) Remove(time string) error {
	return r.db.Where("time = ?", time).Delete(&model.FeedingWindow{}).Error
}
