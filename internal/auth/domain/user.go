package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Confirmed    bool
	RefreshToken *string
	Avatar       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
