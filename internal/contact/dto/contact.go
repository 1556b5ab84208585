package dto

import (
	"strings"
	"time"

	"github.com/mihailobuhov/contacts-api/internal/contact/domain"
	apperr "github.com/mihailobuhov/contacts-api/internal/errors"
)

const dateLayout = "2006-01-02"

type CreateInput struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	Birthday       string  `json:"birthday"`
	AdditionalInfo *string `json:"additional_info"`
}

type UpdateInput struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	PhoneNumber    *string `json:"phone_number"`
	Birthday       *string `json:"birthday"`
	AdditionalInfo *string `json:"additional_info"`
}

type ContactOutput struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Birthday       string    `json:"birthday"`
	AdditionalInfo *string   `json:"additional_info"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ContactShortOutput struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Birthday  string    `json:"birthday"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewContactOutput(c *domain.Contact) *ContactOutput {
	return &ContactOutput{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		Birthday:       c.Birthday.Format(dateLayout),
		AdditionalInfo: c.AdditionalInfo,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func NewContactShortOutput(c *domain.Contact) *ContactShortOutput {
	return &ContactShortOutput{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Birthday:  c.Birthday.Format(dateLayout),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func validateName(field, value string) error {
	if len(value) < 3 || len(value) > 20 {
		return apperr.NewValidationError(field, "must be between 3 and 20 characters")
	}
	return nil
}

func validateEmail(value string) error {
	at := strings.Index(value, "@")
	if at < 1 || at == len(value)-1 || !strings.Contains(value[at:], ".") {
		return apperr.NewValidationError("email", "must be a valid email address")
	}
	return nil
}

func validatePhoneNumber(value string) error {
	if len(value) != 10 {
		return apperr.NewValidationError("phone_number", "must contain exactly 10 digits")
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return apperr.NewValidationError("phone_number", "must contain exactly 10 digits")
		}
	}
	return nil
}

func parseBirthday(value string) (time.Time, error) {
	birthday, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.NewValidationError("birthday", "must be a date in YYYY-MM-DD format")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if birthday.After(today) {
		return time.Time{}, apperr.NewValidationError("birthday", "cannot be in the future")
	}
	return birthday, nil
}

// Validate checks every field and converts the input into a domain
// contact owned by ownerID.
func (in CreateInput) Validate(ownerID string) (*domain.Contact, error) {
	if err := validateName("first_name", in.FirstName); err != nil {
		return nil, err
	}
	if err := validateName("last_name", in.LastName); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePhoneNumber(in.PhoneNumber); err != nil {
		return nil, err
	}
	birthday, err := parseBirthday(in.Birthday)
	if err != nil {
		return nil, err
	}

	return &domain.Contact{
		UserID:         ownerID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		Birthday:       birthday,
		AdditionalInfo: in.AdditionalInfo,
	}, nil
}

// Validate checks only the supplied fields and converts the input into
// a patch.
func (in UpdateInput) Validate() (domain.Patch, error) {
	var patch domain.Patch

	if in.FirstName != nil {
		if err := validateName("first_name", *in.FirstName); err != nil {
			return patch, err
		}
		patch.FirstName = in.FirstName
	}
	if in.LastName != nil {
		if err := validateName("last_name", *in.LastName); err != nil {
			return patch, err
		}
		patch.LastName = in.LastName
	}
	if in.Email != nil {
		if err := validateEmail(*in.Email); err != nil {
			return patch, err
		}
		patch.Email = in.Email
	}
	if in.PhoneNumber != nil {
		if err := validatePhoneNumber(*in.PhoneNumber); err != nil {
			return patch, err
		}
		patch.PhoneNumber = in.PhoneNumber
	}
	if in.Birthday != nil {
		birthday, err := parseBirthday(*in.Birthday)
		if err != nil {
			return patch, err
		}
		patch.Birthday = &birthday
	}
	if in.AdditionalInfo != nil {
		patch.AdditionalInfo = in.AdditionalInfo
	}

	return patch, nil
}
