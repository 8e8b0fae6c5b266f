package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rupert648/feed-the-moose/internal/middleware"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/internal/repository"
	"github.com/rupert648/feed-the-moose/internal/service"
	"github.com/rupert648/feed-the-moose/pkg/push"
)

// PushHandler handles subscription management, the public VAPID key, and
// the diagnostic test push.
type PushHandler struct {
	subscriptions  *repository.SubscriptionRepository
	dispatcher     service.PushSender
	vapidPublicKey string
}

func NewPushHandler(subscriptions *repository.SubscriptionRepository, dispatcher service.PushSender, vapidPublicKey string) *PushHandler {
	return &PushHandler{
		subscriptions:  subscriptions,
		dispatcher:     dispatcher,
		vapidPublicKey: vapidPublicKey,
	}
}

// Subscribe godoc
// @Summary Register or refresh a push subscription
// @Description Upserts keyed on the endpoint URL; re-subscribing an existing endpoint updates its keys in place.
// @Tags Push
// @Accept json
// @Produce json
// @Param body body model.SubscribeRequest true "Push subscription"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /push/subscribe [post]
func (h *PushHandler) Subscribe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req model.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid subscription data", Message: err.Error()})
		return
	}

	if err := h.subscriptions.Upsert(userID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to save subscription", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// Unsubscribe godoc
// @Summary Remove a push subscription by endpoint
// @Tags Push
// @Accept json
// @Produce json
// @Param body body model.UnsubscribeRequest true "Endpoint to remove"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /push/subscribe [delete]
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	var req model.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Endpoint is required", Message: err.Error()})
		return
	}

	if err := h.subscriptions.Remove(req.Endpoint); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to remove subscription", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// VAPIDKey godoc
// @Summary Public VAPID key for creating a subscription
// @Description Unauthenticated: the key is inherently public.
// @Tags Push
// @Produce json
// @Success 200 {object} model.VAPIDKeyResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /push/vapid-key [get]
func (h *PushHandler) VAPIDKey(c *gin.Context) {
	if h.vapidPublicKey == "" {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "VAPID public key not configured"})
		return
	}
	c.JSON(http.StatusOK, model.VAPIDKeyResponse{PublicKey: h.vapidPublicKey})
}

// TestPush godoc
// @Summary Send an unconditional test notification to all subscriptions
// @Tags Push
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.TestPushResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /push/test [post]
func (h *PushHandler) TestPush(c *gin.Context) {
	result, err := h.dispatcher.SendToAll(c.Request.Context(), push.Payload{
		Title: "Test notification",
		Body:  "Push notifications are working!",
		URL:   "/",
	})
	if err != nil {
		if errors.Is(err, push.ErrNotConfigured) {
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Server configuration error", Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to send test notification", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.TestPushResponse{
		Success: true,
		Message: "Test notification sent",
		Sent:    result.Sent,
		Failed:  result.Failed,
		Total:   result.Total,
	})
}
