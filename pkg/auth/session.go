package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSession is returned for any token that fails verification:
// malformed layout, bad encoding, signature mismatch, or elapsed expiry.
// Callers treat it uniformly as "no session".
var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims is the payload embedded in a session token. All session
// state lives in the token; there is no server-side session table and no
// revocation short of rotating the secret.
type SessionClaims struct {
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	ExpiresAt int64     `json:"exp"` // unix seconds
}

// SessionManager signs and verifies stateless session tokens. A token is
// two base64url parts, payload and HMAC-SHA256 signature, joined by a dot.
type SessionManager struct {
	secret []byte
	expiry time.Duration
}

// NewSessionManager creates a new session manager
func NewSessionManager(secret string, expiry time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Generate creates a signed session token for a user
func (m *SessionManager) Generate(userID uuid.UUID, name string) (string, error) {
	claims := SessionClaims{
		UserID:    userID,
		Name:      name,
		ExpiresAt: time.Now().Add(m.expiry).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString(m.sign(payload)), nil
}

// Verify parses and validates a session token. Any malformed or tampered
// token yields ErrInvalidSession; Verify never panics on bad input.
func (m *SessionManager) Verify(token string) (*SessionClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, ErrInvalidSession
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalidSession
	}
	signature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidSession
	}

	if !hmac.Equal(signature, m.sign(payload)) {
		return nil, ErrInvalidSession
	}

	var claims SessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidSession
	}

	if claims.ExpiresAt <= time.Now().Unix() {
		return nil, ErrInvalidSession
	}

	return &claims, nil
}

func (m *SessionManager) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
