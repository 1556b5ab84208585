package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihailobuhov/contacts-api/internal/auth/domain"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func userRows(user *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "email", "password_hash", "confirmed",
		"refresh_token", "avatar", "created_at", "updated_at",
	}).AddRow(user.ID, user.Username, user.Email, user.PasswordHash, user.Confirmed,
		user.RefreshToken, user.Avatar, user.CreatedAt, user.UpdatedAt)
}

func TestGetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		token := "refresh-1"
		want := &domain.User{
			ID:           "user-1",
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
			Confirmed:    true,
			RefreshToken: &token,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs(want.Email).
			WillReturnRows(userRows(want))

		got, err := repo.GetByEmail(ctx, want.Email)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found returns nil without error", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs("missing@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		got, err := repo.GetByEmail(ctx, "missing@example.com")
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs("alice@example.com").
			WillReturnError(assert.AnError)

		got, err := repo.GetByEmail(ctx, "alice@example.com")
		assert.Error(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	now := time.Now()
	avatar := "https://www.gravatar.com/avatar/abc"
	user := &domain.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Avatar:       &avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, user.Confirmed,
			user.Avatar, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("set", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		token := "refresh-1"
		mock.ExpectExec(`UPDATE users SET refresh_token = \$1, updated_at = now\(\)`).
			WithArgs(&token, "alice@example.com").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateRefreshToken(ctx, "alice@example.com", &token)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("revoke with nil", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(`UPDATE users SET refresh_token = \$1, updated_at = now\(\)`).
			WithArgs((*string)(nil), "alice@example.com").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateRefreshToken(ctx, "alice@example.com", nil)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConfirmEmail_Repository(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users SET confirmed = TRUE, updated_at = now\(\)`).
		WithArgs("alice@example.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ConfirmEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAvatar(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	now := time.Now()
	url := "https://images.example.com/avatars/alice@example.com"
	want := &domain.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Confirmed:    true,
		Avatar:       &url,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectQuery(`UPDATE users SET avatar = \$1, updated_at = now\(\)`).
		WithArgs(url, want.Email).
		WillReturnRows(userRows(want))

	got, err := repo.UpdateAvatar(ctx, want.Email, url)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users SET password_hash = \$1, updated_at = now\(\)`).
		WithArgs("new-hash", "alice@example.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdatePassword(ctx, "alice@example.com", "new-hash")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
