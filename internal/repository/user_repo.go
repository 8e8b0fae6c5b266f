package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rupert648/feed-the-moose/internal/model"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID finds a user by UUID
func (r *UserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByName finds a user by display name
func (r *UserRepository) FindByName(name string) (*model.User, error) {
	var user model.User
	err := r.db.Where("name = ?", name).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreate finds a user by name or creates a new one
func (r *UserRepository) GetOrCreate(name string) (*model.User, error) {
	existing, err := r.FindByName(name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{Name: name}
	if err := r.db.Create(user).Error; err != nil {
		// Lost a race with another login for the same name
		if existing, findErr := r.FindByName(name); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return user, nil
}
