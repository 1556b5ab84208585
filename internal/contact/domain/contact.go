package domain

import "time"

type Contact struct {
	ID             int64
	UserID         string
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalInfo *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListFilter narrows List results; empty fields impose no constraint.
// Name and email filters are case-insensitive substring matches.
type ListFilter struct {
	Limit     int
	Offset    int
	FirstName string
	LastName  string
	Email     string
}

// Patch carries a partial update; nil fields are left unchanged.
type Patch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	PhoneNumber    *string
	Birthday       *time.Time
	AdditionalInfo *string
}
