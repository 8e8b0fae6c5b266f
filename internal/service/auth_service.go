package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/pkg/auth"
)

// ErrInvalidSecret means the presented household secret was wrong.
var ErrInvalidSecret = errors.New("invalid shared secret")

// UserStore is the user-table access the auth flow needs.
type UserStore interface {
	GetOrCreate(name string) (*model.User, error)
}

// AuthService handles the household login flow: anyone who knows the
// shared secret picks a display name and gets a session token.
type AuthService struct {
	users        UserStore
	sessions     *auth.SessionManager
	sharedSecret string
	logger       zerolog.Logger
}

func NewAuthService(users UserStore, sessions *auth.SessionManager, sharedSecret string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:        users,
		sessions:     sessions,
		sharedSecret: sharedSecret,
		logger:       logger,
	}
}

// Login verifies the shared secret, gets or creates the named user, and
// issues a session token.
func (s *AuthService) Login(req model.LoginRequest) (*model.LoginResponse, error) {
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.sharedSecret)) != 1 {
		return nil, ErrInvalidSecret
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 50 {
		return nil, errors.New("name must be between 1 and 50 characters")
	}

	user, err := s.users.GetOrCreate(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	token, err := s.sessions.Generate(user.ID, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.logger.Info().Str("user", user.Name).Msg("user logged in")

	return &model.LoginResponse{Token: token, User: *user}, nil
}
