package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/pkg/storage"
)

// PhotoHandler streams feeding photos from object storage
type PhotoHandler struct {
	photos storage.PhotoStore
}

func NewPhotoHandler(photos storage.PhotoStore) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// Get godoc
// @Summary Stream a feeding photo by object key
// @Tags Photos
// @Produce image/jpeg
// @Param key path string true "Photo object key"
// @Success 200 {file} binary
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /photos/{key} [get]
func (h *PhotoHandler) Get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Photo key is required"})
		return
	}

	reader, info, err := h.photos.GetPhoto(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Photo not found"})
		return
	}
	defer reader.Close()

	c.Header("Cache-Control", "private, max-age=86400")
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, reader, nil)
}
