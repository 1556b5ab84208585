package dto

import (
	"time"

	"github.com/mihailobuhov/contacts-api/internal/auth/domain"
)

type UserOutput struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserOutput(u *domain.User) *UserOutput {
	return &UserOutput{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Confirmed: u.Confirmed,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
