package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/internal/service"
)

// CronHandler exposes the scheduled check to the external trigger
type CronHandler struct {
	checkService *service.CheckService
}

func NewCronHandler(checkService *service.CheckService) *CronHandler {
	return &CronHandler{checkService: checkService}
}

// CheckFeedings godoc
// @Summary Evaluate due windows and dispatch reminders
// @Description Invoked periodically by the external scheduler. Dispatches at most one reminder batch per window per UTC day.
// @Tags Cron
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.CheckFeedingsResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /cron/check-feedings [get]
func (h *CronHandler) CheckFeedings(c *gin.Context) {
	count, err := h.checkService.RunScheduledCheck(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Scheduled check failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.CheckFeedingsResponse{Success: true, NotificationsSent: count})
}
