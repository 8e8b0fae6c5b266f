package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a household member. There is no per-user password:
// everyone logs in with the household shared secret plus a display name,
// and the name is the identity.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:50"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the gorm default
func (User) TableName() string {
	return "users"
}
