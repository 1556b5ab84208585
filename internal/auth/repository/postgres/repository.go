package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mihailobuhov/contacts-api/internal/auth/domain"
)

// PgxIface is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db PgxIface
}

func NewPostgresRepository(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password_hash, confirmed, refresh_token, avatar, created_at, updated_at`

// GetByEmail returns (nil, nil) when no user exists with the email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, email)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Confirmed, &user.RefreshToken, &user.Avatar, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, username, email, password_hash, confirmed, avatar, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, user.ID, user.Username, user.Email, user.PasswordHash, user.Confirmed,
		user.Avatar, user.CreatedAt, user.UpdatedAt)

	return err
}

// UpdateRefreshToken persists the user's current refresh token; a nil
// token revokes the session.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, email string, token *string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET refresh_token = $1, updated_at = now()
		WHERE email = $2
	`, token, email)
	return err
}

func (r *PostgresRepository) ConfirmEmail(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET confirmed = TRUE, updated_at = now()
		WHERE email = $1
	`, email)
	return err
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, email string, url string) (*domain.User, error) {
	query := `
		UPDATE users SET avatar = $1, updated_at = now()
		WHERE email = $2
		RETURNING ` + userColumns + `;
	`
	row := r.db.QueryRow(ctx, query, url, email)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Confirmed, &user.RefreshToken, &user.Avatar, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now()
		WHERE email = $2
	`, passwordHash, email)
	return err
}
