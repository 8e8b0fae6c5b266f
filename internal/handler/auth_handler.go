package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rupert648/feed-the-moose/internal/middleware"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/internal/service"
)

// AuthHandler handles the login/logout/profile endpoints
type AuthHandler struct {
	authService   *service.AuthService
	cookieMaxAge  int
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, cookieMaxAge int, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		cookieMaxAge:  cookieMaxAge,
		secureCookies: secureCookies,
	}
}

// Login godoc
// @Summary Log in with the household secret and a display name
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.LoginRequest true "Login request"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Secret and name are required", Message: err.Error()})
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSecret) {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Invalid secret"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, resp.Token, h.cookieMaxAge, "/", "", h.secureCookies, true)

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} model.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

// Profile godoc
// @Summary Return the authenticated user's identity
// @Tags Auth
// @Produce json
// @Success 200 {object} model.ProfileResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	name := c.MustGet(middleware.ContextUserName).(string)

	c.JSON(http.StatusOK, model.ProfileResponse{UserID: userID, Name: name})
}
