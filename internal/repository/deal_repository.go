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

// dealRepository implements DealRepository
type dealRepository struct {
	db db.DBTX
}

// NewDealRepository creates a new deal repository
func NewDealRepository(exec db.DBTX) DealRepository {
	return &dealRepository{db: exec}
}

const dealColumns = "id, owner_id, company_id, contact_id, stage_id, title, value, currency, status, expected_close_date, closed_at, created_at, updated_at"

var dealSortColumns = map[string]string{
	"title":             "title",
	"value":             "value",
	"status":            "status",
	"expectedCloseDate": "expected_close_date",
	"closedAt":          "closed_at",
	"createdAt":         "created_at",
	"updatedAt":         "updated_at",
}

func (r *dealRepository) Create(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO deals (`+dealColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+dealColumns,
		deal.ID, deal.OwnerID, deal.CompanyID, deal.ContactID, deal.StageID, deal.Title,
		deal.Value, deal.Currency, deal.Status, deal.ExpectedCloseDate, deal.ClosedAt,
		deal.CreatedAt, deal.UpdatedAt,
	)

	created, err := scanDeal(row)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("failed to create deal: %w", err)
	}
	return created, nil
}

func (r *dealRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Deal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)
	deal, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Deal{}, domain.ErrNotFound
		}
		return domain.Deal{}, fmt.Errorf("failed to get deal: %w", err)
	}
	return deal, nil
}

func (r *dealRepository) List(ctx context.Context, pred filter.Predicate, opts domain.ListOptions) ([]domain.Deal, int, error) {
	opts = opts.Clamp()

	var total int
	countQuery := `SELECT COUNT(*) FROM deals` + whereClause(pred)
	if err := r.db.QueryRow(ctx, countQuery, pred.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deals: %w", err)
	}

	page, args := pageClause(pred, opts.Limit, opts.Offset)
	query := `SELECT ` + dealColumns + ` FROM deals` + whereClause(pred) +
		orderClause(dealSortColumns, opts) + page

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0, opts.Limit)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate deals: %w", err)
	}

	return deals, total, nil
}

func (r *dealRepository) Update(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE deals
		 SET company_id = $2, contact_id = $3, stage_id = $4, title = $5, value = $6,
		     currency = $7, status = $8, expected_close_date = $9, closed_at = $10, updated_at = $11
		 WHERE id = $1
		 RETURNING `+dealColumns,
		deal.ID, deal.CompanyID, deal.ContactID, deal.StageID, deal.Title, deal.Value,
		deal.Currency, deal.Status, deal.ExpectedCloseDate, deal.ClosedAt, time.Now(),
	)

	updated, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Deal{}, domain.ErrNotFound
		}
		return domain.Deal{}, fmt.Errorf("failed to update deal: %w", err)
	}
	return updated, nil
}

func (r *dealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDeal(row pgx.Row) (domain.Deal, error) {
	var d domain.Deal
	if err := row.Scan(
		&d.ID, &d.OwnerID, &d.CompanyID, &d.ContactID, &d.StageID, &d.Title, &d.Value,
		&d.Currency, &d.Status, &d.ExpectedCloseDate, &d.ClosedAt, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return domain.Deal{}, err
	}
	return d, nil
}
