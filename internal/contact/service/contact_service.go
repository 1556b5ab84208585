package service

//go:generate mockgen -destination=../../mocks/mock_contact_repository.go -package=mocks github.com/mihailobuhov/contacts-api/internal/contact/domain ContactRepository

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mihailobuhov/contacts-api/internal/contact/domain"
	"github.com/mihailobuhov/contacts-api/internal/contact/dto"
)

const (
	minLimit = 10
	maxLimit = 500

	// birthdayWindowDays is the inclusive lookahead for the upcoming
	// birthdays query.
	birthdayWindowDays = 7
)

type ContactService struct {
	repo   domain.ContactRepository
	logger *logrus.Logger
}

func NewContactService(repo domain.ContactRepository, logger *logrus.Logger) *ContactService {
	return &ContactService{
		repo:   repo,
		logger: logger,
	}
}

// List clamps pagination bounds to limit in [10, 500] and offset >= 0
// before querying.
func (s *ContactService) List(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Contact, error) {
	if filter.Limit < minLimit {
		filter.Limit = minLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.List(ctx, ownerID, filter)
}

func (s *ContactService) Get(ctx context.Context, id int64, ownerID string) (*domain.Contact, error) {
	return s.repo.Get(ctx, id, ownerID)
}

func (s *ContactService) Create(ctx context.Context, ownerID string, input dto.CreateInput) (*domain.Contact, error) {
	contact, err := input.Validate(ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

// Update applies a partial patch; a nil result means nothing to
// update, which is a valid outcome rather than an error.
func (s *ContactService) Update(ctx context.Context, id int64, ownerID string, input dto.UpdateInput) (*domain.Contact, error) {
	patch, err := input.Validate()
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, ownerID, patch)
}

func (s *ContactService) Delete(ctx context.Context, id int64, ownerID string) (*domain.Contact, error) {
	return s.repo.Delete(ctx, id, ownerID)
}

func (s *ContactService) UpcomingBirthdays(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	return s.repo.UpcomingBirthdays(ctx, ownerID, time.Now(), birthdayWindowDays)
}
