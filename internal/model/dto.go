package model

import (
	"time"

	"github.com/google/uuid"
)

// ========== Auth DTOs ==========

type LoginRequest struct {
	Secret string `json:"secret" binding:"required"`
	Name   string `json:"name" binding:"required,min=1,max=50"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ProfileResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}

// ========== Feeding DTOs ==========

type RecordFeedingResponse struct {
	Success  bool    `json:"success"`
	PhotoKey *string `json:"photo_key"`
}

// FeedingEntry is one row of feeding history with the feeder's name joined in.
type FeedingEntry struct {
	ID         uint      `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
	WindowTime string    `json:"window_time"`
	PhotoKey   *string   `json:"photo_key"`
	FedAt      time.Time `json:"fed_at"`
}

type FeedingHistoryResponse struct {
	Feedings []FeedingEntry `json:"feedings"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	HasMore  bool           `json:"has_more"`
}

// ========== Push DTOs ==========

type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

type SubscribeRequest struct {
	Endpoint string           `json:"endpoint" binding:"required,url"`
	Keys     SubscriptionKeys `json:"keys" binding:"required"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

type VAPIDKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

type TestPushResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Total   int    `json:"total"`
}

type CheckFeedingsResponse struct {
	Success           bool `json:"success"`
	NotificationsSent int  `json:"notificationsSent"`
}

// ========== Settings DTOs ==========

type AddWindowRequest struct {
	Time  string  `json:"time" binding:"required"`
	Label *string `json:"label" binding:"omitempty,max=100"`
}

type UpdateWindowLabelRequest struct {
	Time  string  `json:"time" binding:"required"`
	Label *string `json:"label" binding:"omitempty,max=100"`
}

type RemoveWindowRequest struct {
	Time string `json:"time" binding:"required"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
