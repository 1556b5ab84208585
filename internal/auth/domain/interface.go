package domain

import (
	"context"
	"io"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateRefreshToken(ctx context.Context, email string, token *string) error
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email string, url string) (*User, error)
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
}

// UserCache is advisory: a miss is never an error and every consumer
// falls back to the UserRepository.
type UserCache interface {
	Get(ctx context.Context, email string) (*User, error)
	Set(ctx context.Context, user *User) error
	Invalidate(ctx context.Context, email string) error
}

type Mailer interface {
	SendVerificationEmail(to, username, token string) error
	SendPasswordResetEmail(to, username, token string) error
}

type FileStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
