package domain

import (
	"context"
	"time"
)

type ContactRepository interface {
	List(ctx context.Context, ownerID string, filter ListFilter) ([]Contact, error)
	Get(ctx context.Context, id int64, ownerID string) (*Contact, error)
	Create(ctx context.Context, contact *Contact) error
	Update(ctx context.Context, id int64, ownerID string, patch Patch) (*Contact, error)
	Delete(ctx context.Context, id int64, ownerID string) (*Contact, error)
	UpcomingBirthdays(ctx context.Context, ownerID string, today time.Time, days int) ([]Contact, error)
}
