package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mihailobuhov/contacts-api/internal/contact/domain"
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

const contactColumns = `id, user_id, first_name, last_name, email, phone_number, birthday, additional_info, created_at, updated_at`

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email,
		&c.PhoneNumber, &c.Birthday, &c.AdditionalInfo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanContacts(rows pgx.Rows) ([]domain.Contact, error) {
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

// List returns the owner's contacts ordered by id so pagination is
// stable across requests.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Contact, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1`)

	args := []any{ownerID}
	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+value+"%")
		sb.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", column, len(args)))
	}

	addFilter("first_name", filter.FirstName)
	addFilter("last_name", filter.LastName)
	addFilter("email", filter.Email)

	args = append(args, filter.Limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY id LIMIT $%d", len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return scanContacts(rows)
}

// Get returns (nil, nil) when the contact is absent or owned by
// someone else; callers cannot tell the two apart.
func (r *PostgresRepository) Get(ctx context.Context, id int64, ownerID string) (*domain.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND user_id = $2
		LIMIT 1;
	`
	contact, err := scanContact(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

func (r *PostgresRepository) Create(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO contacts (user_id, first_name, last_name, email, phone_number, birthday, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at;
	`
	row := r.db.QueryRow(ctx, query, contact.UserID, contact.FirstName, contact.LastName,
		contact.Email, contact.PhoneNumber, contact.Birthday, contact.AdditionalInfo)

	if err := row.Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// Update applies only the supplied patch fields and returns the
// updated row, or (nil, nil) when nothing matched.
func (r *PostgresRepository) Update(ctx context.Context, id int64, ownerID string, patch domain.Patch) (*domain.Contact, error) {
	set := []string{"updated_at = now()"}
	args := []any{}

	addField := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FirstName != nil {
		addField("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		addField("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		addField("email", *patch.Email)
	}
	if patch.PhoneNumber != nil {
		addField("phone_number", *patch.PhoneNumber)
	}
	if patch.Birthday != nil {
		addField("birthday", *patch.Birthday)
	}
	if patch.AdditionalInfo != nil {
		addField("additional_info", *patch.AdditionalInfo)
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`
		UPDATE contacts SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING `+contactColumns+`;
	`, strings.Join(set, ", "), len(args)-1, len(args))

	contact, err := scanContact(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return contact, nil
}

// Delete removes the contact and returns its prior state, or
// (nil, nil) when nothing matched.
func (r *PostgresRepository) Delete(ctx context.Context, id int64, ownerID string) (*domain.Contact, error) {
	query := `
		DELETE FROM contacts
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contactColumns + `;
	`
	contact, err := scanContact(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}

	return contact, nil
}

// BirthdayWindow is the inclusive month-day range [Start, End] in
// "MM-DD" form. Wrapped reports whether the range crosses Dec 31, in
// which case it must be evaluated as [Start..12-31] OR [01-01..End]
// because a single bounded comparison is wrong there.
type BirthdayWindow struct {
	Start   string
	End     string
	Wrapped bool
}

func NewBirthdayWindow(today time.Time, days int) BirthdayWindow {
	end := today.AddDate(0, 0, days)
	w := BirthdayWindow{
		Start: today.Format("01-02"),
		End:   end.Format("01-02"),
	}
	w.Wrapped = w.Start > w.End
	return w
}

// UpcomingBirthdays returns the owner's contacts whose birthday
// month-day falls within days of today, year-independent.
func (r *PostgresRepository) UpcomingBirthdays(ctx context.Context, ownerID string, today time.Time, days int) ([]domain.Contact, error) {
	w := NewBirthdayWindow(today, days)

	var condition string
	if w.Wrapped {
		condition = `(to_char(birthday, 'MM-DD') >= $2 OR to_char(birthday, 'MM-DD') <= $3)`
	} else {
		condition = `to_char(birthday, 'MM-DD') BETWEEN $2 AND $3`
	}

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1 AND ` + condition + `
		ORDER BY id;
	`
	rows, err := r.db.Query(ctx, query, ownerID, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming birthdays: %w", err)
	}

	return scanContacts(rows)
}
