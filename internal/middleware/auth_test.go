package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rupert648/feed-the-moose/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter(sessions *auth.SessionManager) *gin.Engine {
	r := gin.New()
	r.GET("/protected", SessionMiddleware(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.MustGet(ContextUserID),
			"name":   c.MustGet(ContextUserName),
		})
	})
	return r
}

func TestSessionMiddleware_CookieAccepted(t *testing.T) {
	sessions := auth.NewSessionManager("hunter2", time.Hour)
	userID := uuid.New()
	token, err := sessions.Generate(userID, "rupert")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	sessionRouter(sessions).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "rupert")
}

func TestSessionMiddleware_BearerFallback(t *testing.T) {
	sessions := auth.NewSessionManager("hunter2", time.Hour)
	token, err := sessions.Generate(uuid.New(), "rupert")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	sessionRouter(sessions).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionMiddleware_MissingToken(t *testing.T) {
	sessions := auth.NewSessionManager("hunter2", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	sessionRouter(sessions).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddleware_RejectsForgedToken(t *testing.T) {
	sessions := auth.NewSessionManager("hunter2", time.Hour)
	forger := auth.NewSessionManager("not-the-secret", time.Hour)
	token, err := forger.Generate(uuid.New(), "mallory")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	sessionRouter(sessions).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddleware_RejectsExpiredToken(t *testing.T) {
	sessions := auth.NewSessionManager("hunter2", -time.Minute)
	token, err := sessions.Generate(uuid.New(), "rupert")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	sessionRouter(sessions).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func secretRouter(secret string) *gin.Engine {
	r := gin.New()
	r.POST("/trigger", SharedSecretMiddleware(secret), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestSharedSecretMiddleware_Accepted(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/trigger", nil)
	req.Header.Set("Authorization", "Bearer hunter2")
	w := httptest.NewRecorder()
	secretRouter("hunter2").ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSharedSecretMiddleware_WrongSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/trigger", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	secretRouter("hunter2").ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSharedSecretMiddleware_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/trigger", nil)
	w := httptest.NewRecorder()
	secretRouter("hunter2").ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSharedSecretMiddleware_UnconfiguredSecretNeverMatches(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/trigger", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()
	secretRouter("").ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
