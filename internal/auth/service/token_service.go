package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/mihailobuhov/contacts-api/internal/auth/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperr "github.com/mihailobuhov/contacts-api/internal/errors"
)

// Token scopes. A token may only satisfy the operation its scope names:
// an access token never passes a refresh exchange and vice versa. Email
// tokens carry no scope claim and are distinguished by the endpoint
// consuming them.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
)

const emailTokenExpiry = 7 * 24 * time.Hour

type TokenGenerator interface {
	IssueAccess(email string) (string, error)
	IssueRefresh(email string) (string, error)
	IssueEmailToken(email string) (string, error)
	Decode(tokenString, expectedScope string) (string, error)
	EmailFromToken(tokenString string) (string, error)
}

type TokenService struct {
	Secret             []byte
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

func NewTokenService(secret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		Secret:             []byte(secret),
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

func (ts *TokenService) IssueAccess(email string) (string, error) {
	return ts.sign(email, ScopeAccess, ts.AccessTokenExpiry)
}

func (ts *TokenService) IssueRefresh(email string) (string, error) {
	return ts.sign(email, ScopeRefresh, ts.RefreshTokenExpiry)
}

// IssueEmailToken issues the scope-less token used by both email
// confirmation and password reset links.
func (ts *TokenService) IssueEmailToken(email string) (string, error) {
	return ts.sign(email, "", emailTokenExpiry)
}

func (ts *TokenService) sign(email, scope string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.Secret)
}

// Decode parses and validates a token, enforcing that its scope claim
// matches expectedScope. It returns the subject email.
func (ts *TokenService) Decode(tokenString, expectedScope string) (string, error) {
	claims, err := ts.parse(tokenString)
	if err != nil {
		return "", err
	}

	if claims.Scope != expectedScope {
		return "", apperr.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", apperr.ErrInvalidToken
	}

	return claims.Subject, nil
}

// EmailFromToken extracts the subject without a scope check; callers
// are the email-confirmation and password-reset endpoints.
func (ts *TokenService) EmailFromToken(tokenString string) (string, error) {
	claims, err := ts.parse(tokenString)
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", apperr.ErrInvalidToken
	}

	return claims.Subject, nil
}

func (ts *TokenService) parse(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.Secret, nil
	})

	if err != nil {
		return nil, apperr.ErrInvalidToken
	}

	if !token.Valid {
		return nil, apperr.ErrInvalidToken
	}

	return claims, nil
}
