package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SeanZhang02/crm-api/internal/db"
	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
)

// contactRepository implements ContactRepository
type contactRepository struct {
	db db.DBTX
}

// NewContactRepository creates a new contact repository
func NewContactRepository(exec db.DBTX) ContactRepository {
	return &contactRepository{db: exec}
}

const contactColumns = "id, owner_id, company_id, first_name, last_name, email, phone, title, status, is_primary, custom_fields, created_at, updated_at"

var contactSortColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"title":     "title",
	"status":    "status",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (r *contactRepository) Create(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	customJSON, err := customFieldsJSON(contact.CustomFields)
	if err != nil {
		return domain.Contact{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO contacts (`+contactColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+contactColumns,
		contact.ID, contact.OwnerID, contact.CompanyID, contact.FirstName, contact.LastName,
		contact.Email, contact.Phone, contact.Title, contact.Status, contact.IsPrimary,
		customJSON, contact.CreatedAt, contact.UpdatedAt,
	)

	created, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return created, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Contact, error) {
	row := r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, domain.ErrNotFound
		}
		return domain.Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

func (r *contactRepository) List(ctx context.Context, pred filter.Predicate, opts domain.ListOptions) ([]domain.Contact, int, error) {
	opts = opts.Clamp()

	var total int
	countQuery := `SELECT COUNT(*) FROM contacts` + whereClause(pred)
	if err := r.db.QueryRow(ctx, countQuery, pred.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	page, args := pageClause(pred, opts.Limit, opts.Offset)
	query := `SELECT ` + contactColumns + ` FROM contacts` + whereClause(pred) +
		orderClause(contactSortColumns, opts) + page

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0, opts.Limit)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, total, nil
}

func (r *contactRepository) Update(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	customJSON, err := customFieldsJSON(contact.CustomFields)
	if err != nil {
		return domain.Contact{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE contacts
		 SET company_id = $2, first_name = $3, last_name = $4, email = $5, phone = $6,
		     title = $7, status = $8, is_primary = $9, custom_fields = $10, updated_at = $11
		 WHERE id = $1
		 RETURNING `+contactColumns,
		contact.ID, contact.CompanyID, contact.FirstName, contact.LastName, contact.Email,
		contact.Phone, contact.Title, contact.Status, contact.IsPrimary, customJSON, time.Now(),
	)

	updated, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, domain.ErrNotFound
		}
		return domain.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return updated, nil
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanContact(row pgx.Row) (domain.Contact, error) {
	var c domain.Contact
	var customJSON []byte
	if err := row.Scan(
		&c.ID, &c.OwnerID, &c.CompanyID, &c.FirstName, &c.LastName, &c.Email,
		&c.Phone, &c.Title, &c.Status, &c.IsPrimary, &customJSON, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return domain.Contact{}, err
	}

	custom, err := customFieldsFromJSON(customJSON)
	if err != nil {
		return domain.Contact{}, err
	}
	c.CustomFields = custom
	return c, nil
}
