package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/internal/repository"
	"github.com/rupert648/feed-the-moose/internal/service"
	"gorm.io/gorm"
)

// SettingsHandler manages the feeding schedule
type SettingsHandler struct {
	schedule *repository.ScheduleRepository
}

func NewSettingsHandler(schedule *repository.ScheduleRepository) *SettingsHandler {
	return &SettingsHandler{schedule: schedule}
}

// List godoc
// @Summary List schedule windows ordered by time
// @Tags Settings
// @Produce json
// @Success 200 {array} model.FeedingWindow
// @Failure 401 {object} model.ErrorResponse
// @Router /settings/schedule [get]
func (h *SettingsHandler) List(c *gin.Context) {
	windows, err := h.schedule.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to load schedule", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, windows)
}

// Add godoc
// @Summary Add a schedule window
// @Description Adding an existing time is a no-op.
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body model.AddWindowRequest true "Window to add"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /settings/schedule [post]
func (h *SettingsHandler) Add(c *gin.Context) {
	var req model.AddWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Time is required", Message: err.Error()})
		return
	}

	if _, err := service.ParseWindowTime(req.Time); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid window time", Message: err.Error()})
		return
	}

	if err := h.schedule.Add(&model.FeedingWindow{Time: req.Time, Label: req.Label}); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to add window", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// UpdateLabel godoc
// @Summary Update a window's label
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body model.UpdateWindowLabelRequest true "Window and new label"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /settings/schedule [patch]
func (h *SettingsHandler) UpdateLabel(c *gin.Context) {
	var req model.UpdateWindowLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Time is required", Message: err.Error()})
		return
	}

	if err := h.schedule.UpdateLabel(req.Time, req.Label); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "No such window"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to update label", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// Remove godoc
// @Summary Remove a schedule window
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body model.RemoveWindowRequest true "Window to remove"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /settings/schedule [delete]
func (h *SettingsHandler) Remove(c *gin.Context) {
	var req model.RemoveWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Time is required", Message: err.Error()})
		return
	}

	if err := h.schedule.Remove(req.Time); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to remove window", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}
