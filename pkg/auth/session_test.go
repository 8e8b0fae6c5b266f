package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_RoundTrip(t *testing.T) {
	m := NewSessionManager("household-secret", 30*24*time.Hour)
	userID := uuid.New()

	token, err := m.Generate(userID, "Rupert")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Rupert", claims.Name)
}

func TestSessionManager_TokenIsOpaqueTwoPartASCII(t *testing.T) {
	m := NewSessionManager("s", time.Hour)

	token, err := m.Generate(uuid.New(), "Moose")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 2)
	for _, part := range parts {
		_, err := base64.RawURLEncoding.DecodeString(part)
		assert.NoError(t, err)
	}
}

func TestSessionManager_WrongSecret(t *testing.T) {
	signer := NewSessionManager("A", time.Hour)
	verifier := NewSessionManager("B", time.Hour)

	token, err := signer.Generate(uuid.New(), "Rupert")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_TamperedPayload(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	token, err := m.Generate(uuid.New(), "Rupert")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)

	// Flip one bit in every payload byte position in turn.
	for i := range payload {
		tampered := make([]byte, len(payload))
		copy(tampered, payload)
		tampered[i] ^= 0x01

		bad := base64.RawURLEncoding.EncodeToString(tampered) + "." + parts[1]
		_, err := m.Verify(bad)
		assert.ErrorIs(t, err, ErrInvalidSession, "flipped bit in payload byte %d", i)
	}
}

func TestSessionManager_TamperedSignature(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	token, err := m.Generate(uuid.New(), "Rupert")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	signature, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	for i := range signature {
		tampered := make([]byte, len(signature))
		copy(tampered, signature)
		tampered[i] ^= 0x01

		bad := parts[0] + "." + base64.RawURLEncoding.EncodeToString(tampered)
		_, err := m.Verify(bad)
		assert.ErrorIs(t, err, ErrInvalidSession, "flipped bit in signature byte %d", i)
	}
}

func TestSessionManager_Expired(t *testing.T) {
	m := NewSessionManager("secret", -time.Minute)

	token, err := m.Generate(uuid.New(), "Rupert")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_Malformed(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	cases := []string{
		"",
		"onlyonepart",
		"a.b.c",
		"!!!.???",
		"bm90LWpzb24.c2ln", // valid base64, not valid JSON / signature
	}
	for _, token := range cases {
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSession, "token %q", token)
	}
}
