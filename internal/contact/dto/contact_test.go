package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/mihailobuhov/contacts-api/internal/errors"
)

func validCreateInput() CreateInput {
	return CreateInput{
		FirstName:   "Alice",
		LastName:    "Smith",
		Email:       "alice@example.com",
		PhoneNumber: "0501234567",
		Birthday:    "1990-04-15",
	}
}

func TestCreateInputValidate(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	tests := []struct {
		name      string
		mutate    func(*CreateInput)
		wantField string
	}{
		{name: "valid input"},
		{
			name:      "first name too short",
			mutate:    func(in *CreateInput) { in.FirstName = "Al" },
			wantField: "first_name",
		},
		{
			name:      "last name too long",
			mutate:    func(in *CreateInput) { in.LastName = "Wolfeschlegelsteinhausen" },
			wantField: "last_name",
		},
		{
			name:      "email without at sign",
			mutate:    func(in *CreateInput) { in.Email = "alice.example.com" },
			wantField: "email",
		},
		{
			name:      "email without domain dot",
			mutate:    func(in *CreateInput) { in.Email = "alice@example" },
			wantField: "email",
		},
		{
			name:      "phone too short",
			mutate:    func(in *CreateInput) { in.PhoneNumber = "12345" },
			wantField: "phone_number",
		},
		{
			name:      "phone with letters",
			mutate:    func(in *CreateInput) { in.PhoneNumber = "05012345ab" },
			wantField: "phone_number",
		},
		{
			name:      "birthday bad format",
			mutate:    func(in *CreateInput) { in.Birthday = "15.04.1990" },
			wantField: "birthday",
		},
		{
			name:      "birthday in the future",
			mutate:    func(in *CreateInput) { in.Birthday = tomorrow },
			wantField: "birthday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			if tt.mutate != nil {
				tt.mutate(&input)
			}

			contact, err := input.Validate("owner-1")
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "owner-1", contact.UserID)
				assert.Equal(t, input.FirstName, contact.FirstName)
				assert.Equal(t, time.Date(1990, 4, 15, 0, 0, 0, 0, time.UTC), contact.Birthday)
				return
			}

			require.Error(t, err)
			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Nil(t, contact)
		})
	}
}

func TestUpdateInputValidate(t *testing.T) {
	t.Run("empty input yields empty patch", func(t *testing.T) {
		patch, err := UpdateInput{}.Validate()
		require.NoError(t, err)
		assert.Nil(t, patch.FirstName)
		assert.Nil(t, patch.LastName)
		assert.Nil(t, patch.Email)
		assert.Nil(t, patch.PhoneNumber)
		assert.Nil(t, patch.Birthday)
		assert.Nil(t, patch.AdditionalInfo)
	})

	t.Run("only provided fields are patched", func(t *testing.T) {
		phone := "0509876543"
		info := "met at the conference"
		patch, err := UpdateInput{PhoneNumber: &phone, AdditionalInfo: &info}.Validate()
		require.NoError(t, err)
		require.NotNil(t, patch.PhoneNumber)
		assert.Equal(t, phone, *patch.PhoneNumber)
		require.NotNil(t, patch.AdditionalInfo)
		assert.Equal(t, info, *patch.AdditionalInfo)
		assert.Nil(t, patch.FirstName)
		assert.Nil(t, patch.Birthday)
	})

	t.Run("provided fields are still validated", func(t *testing.T) {
		phone := "123"
		_, err := UpdateInput{PhoneNumber: &phone}.Validate()
		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "phone_number", verr.Field)
	})

	t.Run("birthday is parsed", func(t *testing.T) {
		birthday := "1985-12-30"
		patch, err := UpdateInput{Birthday: &birthday}.Validate()
		require.NoError(t, err)
		require.NotNil(t, patch.Birthday)
		assert.Equal(t, time.Date(1985, 12, 30, 0, 0, 0, 0, time.UTC), *patch.Birthday)
	})
}
