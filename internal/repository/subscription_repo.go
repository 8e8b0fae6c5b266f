package repository

import (
	"github.com/google/uuid"
	"github.com/rupert648/feed-the-moose/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository handles database operations for push subscriptions
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert saves a subscription keyed on its endpoint URL. Re-subscribing an
// existing endpoint takes over the row with the new owner and keys.
func (r *SubscriptionRepository) Upsert(userID uuid.UUID, endpoint, p256dh, auth string) error {
	sub := model.PushSubscription{
		UserID:    userID,
		Endpoint:  endpoint,
		P256dhKey: p256dh,
		AuthKey:   auth,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"user_id":    userID,
			"p256dh_key": p256dh,
			"auth_key":   auth,
		}),
	}).Create(&sub).Error
}

// Remove deletes a subscription by endpoint
func (r *SubscriptionRepository) Remove(endpoint string) error {
	return r.db.Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{}).Error
}

// GetAll returns every registered subscription
func (r *SubscriptionRepository) GetAll() ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.db.Find(&subs).Error
	return subs, err
}
