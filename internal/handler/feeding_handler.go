package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rupert648/feed-the-moose/internal/middleware"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/internal/service"
)

// Max photo upload size: 10MB
const maxPhotoSize = 10 << 20

// FeedingHandler handles the feeding status, history, and recording endpoints
type FeedingHandler struct {
	feedingService *service.FeedingService
}

func NewFeedingHandler(feedingService *service.FeedingService) *FeedingHandler {
	return &FeedingHandler{feedingService: feedingService}
}

// Status godoc
// @Summary Today's window statuses
// @Description Returns every schedule window joined with today's feedings, ordered by time.
// @Tags Feedings
// @Produce json
// @Success 200 {array} model.WindowStatus
// @Failure 401 {object} model.ErrorResponse
// @Router /feedings/status [get]
func (h *FeedingHandler) Status(c *gin.Context) {
	statuses, err := h.feedingService.WindowStatuses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to load window statuses", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// History godoc
// @Summary Paged feeding history, newest first
// @Tags Feedings
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} model.FeedingHistoryResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /feedings [get]
func (h *FeedingHandler) History(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	resp, err := h.feedingService.History(page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to load feeding history", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Record godoc
// @Summary Record a feeding for a schedule window
// @Description Records that the window was fed, with an optional photo. Rejects with 409 if the window already has a feeding today.
// @Tags Feedings
// @Accept multipart/form-data
// @Produce json
// @Param windowTime formData string true "Schedule window time (HH:MM, UTC)"
// @Param photo formData file false "Photo evidence"
// @Success 200 {object} model.RecordFeedingResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /feedings [post]
func (h *FeedingHandler) Record(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoSize)

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	userName := c.MustGet(middleware.ContextUserName).(string)

	windowTime := c.PostForm("windowTime")
	if windowTime == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Window time is required"})
		return
	}

	var (
		photo       multipart.File
		photoSize   int64
		contentType string
	)
	file, header, err := c.Request.FormFile("photo")
	if err == nil {
		defer file.Close()
		photo = file
		photoSize = header.Size
		contentType = header.Header.Get("Content-Type")
	}

	resp, err := h.feedingService.RecordFeeding(c.Request.Context(), userID, userName, windowTime, photo, photoSize, contentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidWindowTime):
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid window time", Message: err.Error()})
		case errors.Is(err, service.ErrWindowAlreadyFed):
			c.JSON(http.StatusConflict, model.ErrorResponse{Error: "This feeding window has already been marked as fed"})
		default:
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to record feeding", Message: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
