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

// activityRepository implements ActivityRepository
type activityRepository struct {
	db db.DBTX
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(exec db.DBTX) ActivityRepository {
	return &activityRepository{db: exec}
}

const activityColumns = "id, owner_id, company_id, contact_id, deal_id, type, subject, description, due_date, completed, created_at, updated_at"

var activitySortColumns = map[string]string{
	"type":      "type",
	"subject":   "subject",
	"dueDate":   "due_date",
	"completed": "completed",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (r *activityRepository) Create(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO activities (`+activityColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+activityColumns,
		activity.ID, activity.OwnerID, activity.CompanyID, activity.ContactID, activity.DealID,
		activity.Type, activity.Subject, activity.Description, activity.DueDate,
		activity.Completed, activity.CreatedAt, activity.UpdatedAt,
	)

	created, err := scanActivity(row)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("failed to create activity: %w", err)
	}
	return created, nil
}

func (r *activityRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	row := r.db.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id)
	activity, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, fmt.Errorf("failed to get activity: %w", err)
	}
	return activity, nil
}

func (r *activityRepository) List(ctx context.Context, pred filter.Predicate, opts domain.ListOptions) ([]domain.Activity, int, error) {
	opts = opts.Clamp()

	var total int
	countQuery := `SELECT COUNT(*) FROM activities` + whereClause(pred)
	if err := r.db.QueryRow(ctx, countQuery, pred.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	page, args := pageClause(pred, opts.Limit, opts.Offset)
	query := `SELECT ` + activityColumns + ` FROM activities` + whereClause(pred) +
		orderClause(activitySortColumns, opts) + page

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0, opts.Limit)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return activities, total, nil
}

func (r *activityRepository) Update(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE activities
		 SET company_id = $2, contact_id = $3, deal_id = $4, type = $5, subject = $6,
		     description = $7, due_date = $8, completed = $9, updated_at = $10
		 WHERE id = $1
		 RETURNING `+activityColumns,
		activity.ID, activity.CompanyID, activity.ContactID, activity.DealID, activity.Type,
		activity.Subject, activity.Description, activity.DueDate, activity.Completed, time.Now(),
	)

	updated, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, fmt.Errorf("failed to update activity: %w", err)
	}
	return updated, nil
}

func (r *activityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanActivity(row pgx.Row) (domain.Activity, error) {
	var a domain.Activity
	if err := row.Scan(
		&a.ID, &a.OwnerID, &a.CompanyID, &a.ContactID, &a.DealID, &a.Type, &a.Subject,
		&a.Description, &a.DueDate, &a.Completed, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}
