package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/mihailobuhov/contacts-api/internal/errors"
)

func TestNewTokenService(t *testing.T) {
	ts := NewTokenService("secret-key", 15, 10080)

	assert.NotNil(t, ts)
	assert.Equal(t, []byte("secret-key"), ts.Secret)
	assert.Equal(t, 15*time.Minute, ts.AccessTokenExpiry)
	assert.Equal(t, 10080*time.Minute, ts.RefreshTokenExpiry)
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := NewTokenService("test-secret-key-123", 15, 10080)
	subject := "user@example.com"

	tests := []struct {
		name  string
		issue func(string) (string, error)
		scope string
	}{
		{"access token", ts.IssueAccess, ScopeAccess},
		{"refresh token", ts.IssueRefresh, ScopeRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issue(subject)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			decoded, err := ts.Decode(token, tt.scope)
			require.NoError(t, err)
			assert.Equal(t, subject, decoded)
		})
	}
}

func TestTokenService_ScopeMismatch(t *testing.T) {
	ts := NewTokenService("test-secret-key-123", 15, 10080)
	subject := "user@example.com"

	accessToken, err := ts.IssueAccess(subject)
	require.NoError(t, err)
	refreshToken, err := ts.IssueRefresh(subject)
	require.NoError(t, err)

	t.Run("access token rejected on refresh exchange", func(t *testing.T) {
		_, err := ts.Decode(accessToken, ScopeRefresh)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		_, err := ts.Decode(refreshToken, ScopeAccess)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("email token rejected as access token", func(t *testing.T) {
		emailToken, err := ts.IssueEmailToken(subject)
		require.NoError(t, err)

		_, err = ts.Decode(emailToken, ScopeAccess)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	})
}

func TestTokenService_Decode(t *testing.T) {
	ts := NewTokenService("test-secret-key-123", 15, 10080)

	t.Run("malformed token", func(t *testing.T) {
		_, err := ts.Decode("not-a-jwt", ScopeAccess)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("a-different-secret", 15, 10080)
		token, err := other.IssueAccess("user@example.com")
		require.NoError(t, err)

		_, err = ts.Decode(token, ScopeAccess)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenService("test-secret-key-123", -1, 10080)
		token, err := expired.IssueAccess("user@example.com")
		require.NoError(t, err)

		_, err = ts.Decode(token, ScopeAccess)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := ts.IssueAccess("")
		require.NoError(t, err)

		_, err = ts.Decode(token, ScopeAccess)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		// alg=none tokens must never pass HMAC verification.
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "user@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ts.Decode(token, ScopeAccess)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	})
}

func TestTokenService_EmailFromToken(t *testing.T) {
	ts := NewTokenService("test-secret-key-123", 15, 10080)

	t.Run("valid email token", func(t *testing.T) {
		token, err := ts.IssueEmailToken("user@example.com")
		require.NoError(t, err)

		email, err := ts.EmailFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", email)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ts.EmailFromToken("garbage")
		assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	})
}
