package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/mihailobuhov/contacts-api/internal/auth/domain UserRepository,UserCache,Mailer,FileStore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mihailobuhov/contacts-api/internal/auth/domain"
	"github.com/mihailobuhov/contacts-api/internal/auth/dto"
	apperr "github.com/mihailobuhov/contacts-api/internal/errors"
)

type UserService struct {
	repo   domain.UserRepository
	cache  domain.UserCache
	tokens TokenGenerator
	mailer domain.Mailer
	files  domain.FileStore
	logger *logrus.Logger
}

func NewUserService(repo domain.UserRepository, cache domain.UserCache, tokens TokenGenerator,
	mailer domain.Mailer, files domain.FileStore, logger *logrus.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cache:  cache,
		tokens: tokens,
		mailer: mailer,
		files:  files,
		logger: logger,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// verifyPassword reports whether password matches digest. A corrupt
// digest is indistinguishable from a wrong password.
func verifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// gravatarURL derives the default avatar for a fresh account.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:]))
}

func (s *UserService) Signup(ctx context.Context, input dto.SignupInput) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrEmailAlreadyInUse
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	avatar := gravatarURL(input.Email)

	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashed,
		Confirmed:    false,
		Avatar:       &avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendVerificationEmail(user)

	return user, nil
}

// sendVerificationEmail issues an email token and dispatches the
// message in the background; failures are logged, never surfaced.
func (s *UserService) sendVerificationEmail(user *domain.User) {
	token, err := s.tokens.IssueEmailToken(user.Email)
	if err != nil {
		s.logger.WithError(err).WithField("email", user.Email).Error("failed to issue verification token")
		return
	}

	go func() {
		if err := s.mailer.SendVerificationEmail(user.Email, user.Username, token); err != nil {
			s.logger.WithError(err).WithField("email", user.Email).Error("failed to send verification email")
		}
	}()
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, apperr.ErrEmailNotConfirmed
	}
	if !verifyPassword(input.Password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, user.Email)
}

// Refresh rotates the token pair. The presented refresh token must
// equal the user's last stored one; a mismatch means the token was
// already rotated, so the stored token is revoked and the session
// forced back to login.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	email, err := s.tokens.Decode(refreshToken, ScopeRefresh)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUnauthorized
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		s.logger.WithField("email", email).Warn("refresh token reuse detected, revoking session")
		if err := s.repo.UpdateRefreshToken(ctx, email, nil); err != nil {
			return nil, err
		}
		return nil, apperr.ErrUnauthorized
	}

	return s.issueTokenPair(ctx, email)
}

func (s *UserService) issueTokenPair(ctx context.Context, email string) (*dto.TokenResponse, error) {
	accessToken, err := s.tokens.IssueAccess(email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.IssueRefresh(email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRefreshToken(ctx, email, &refreshToken); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// CurrentUser resolves a bearer access token to a user, consulting the
// cache first and repopulating it from the repository on a miss.
func (s *UserService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	email, err := s.tokens.Decode(accessToken, ScopeAccess)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}

	user, err := s.cache.Get(ctx, email)
	if err != nil {
		s.logger.WithError(err).Warn("user cache read failed")
	}
	if user != nil {
		return user, nil
	}

	user, err = s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUnauthorized
	}

	if err := s.cache.Set(ctx, user); err != nil {
		s.logger.WithError(err).Warn("user cache write failed")
	}

	return user, nil
}

// ConfirmEmail marks the token's subject as confirmed. Confirming an
// already confirmed account is not an error.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	email, err := s.tokens.EmailFromToken(token)
	if err != nil {
		return false, apperr.ErrInvalidToken
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, apperr.ErrInvalidToken
	}
	if user.Confirmed {
		return true, nil
	}

	if err := s.repo.ConfirmEmail(ctx, email); err != nil {
		return false, err
	}

	return false, nil
}

// RequestVerification re-sends the confirmation email unless the
// account is already confirmed or unknown.
func (s *UserService) RequestVerification(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		// Do not reveal whether the account exists.
		return false, nil
	}
	if user.Confirmed {
		return true, nil
	}

	s.sendVerificationEmail(user)

	return false, nil
}

func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.ErrUserNotFound
	}

	token, err := s.tokens.IssueEmailToken(email)
	if err != nil {
		return err
	}

	go func() {
		if err := s.mailer.SendPasswordResetEmail(user.Email, user.Username, token); err != nil {
			s.logger.WithError(err).WithField("email", user.Email).Error("failed to send password reset email")
		}
	}()

	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.tokens.EmailFromToken(token)
	if err != nil {
		return apperr.ErrInvalidToken
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.ErrUserNotFound
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, email, hashed)
}

// UpdateAvatar uploads the image and refreshes the cache entry so the
// new URL is visible immediately instead of after TTL expiry.
func (s *UserService) UpdateAvatar(ctx context.Context, user *domain.User, file io.Reader, contentType string) (*domain.User, error) {
	key := fmt.Sprintf("avatars/%s", user.Email)

	url, err := s.files.Upload(ctx, key, file, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	updated, err := s.repo.UpdateAvatar(ctx, user.Email, url)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, updated); err != nil {
		s.logger.WithError(err).Warn("user cache refresh failed after avatar update")
	}

	return updated, nil
}
