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

// companyRepository implements CompanyRepository
type companyRepository struct {
	db db.DBTX
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(exec db.DBTX) CompanyRepository {
	return &companyRepository{db: exec}
}

const companyColumns = "id, owner_id, name, industry, website, phone, email, city, country, status, annual_revenue, employee_count, custom_fields, created_at, updated_at"

var companySortColumns = map[string]string{
	"name":          "name",
	"industry":      "industry",
	"status":        "status",
	"annualRevenue": "annual_revenue",
	"employeeCount": "employee_count",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

func (r *companyRepository) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	customJSON, err := customFieldsJSON(company.CustomFields)
	if err != nil {
		return domain.Company{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO companies (`+companyColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING `+companyColumns,
		company.ID, company.OwnerID, company.Name, company.Industry, company.Website,
		company.Phone, company.Email, company.City, company.Country, company.Status,
		company.AnnualRevenue, company.EmployeeCount, customJSON, company.CreatedAt, company.UpdatedAt,
	)

	created, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Company{}, domain.ErrNotFound
		}
		return domain.Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

func (r *companyRepository) GetSummaries(ctx context.Context, ids []uuid.UUID) ([]domain.CompanySummary, error) {
	if len(ids) == 0 {
		return []domain.CompanySummary{}, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, name FROM companies WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get company summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.CompanySummary, 0, len(ids))
	for rows.Next() {
		var s domain.CompanySummary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan company summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate company summaries: %w", err)
	}
	return summaries, nil
}

func (r *companyRepository) List(ctx context.Context, pred filter.Predicate, opts domain.ListOptions) ([]domain.Company, int, error) {
	opts = opts.Clamp()

	var total int
	countQuery := `SELECT COUNT(*) FROM companies` + whereClause(pred)
	if err := r.db.QueryRow(ctx, countQuery, pred.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	page, args := pageClause(pred, opts.Limit, opts.Offset)
	query := `SELECT ` + companyColumns + ` FROM companies` + whereClause(pred) +
		orderClause(companySortColumns, opts) + page

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]domain.Company, 0, opts.Limit)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate companies: %w", err)
	}

	return companies, total, nil
}

func (r *companyRepository) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	customJSON, err := customFieldsJSON(company.CustomFields)
	if err != nil {
		return domain.Company{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE companies
		 SET name = $2, industry = $3, website = $4, phone = $5, email = $6,
		     city = $7, country = $8, status = $9, annual_revenue = $10,
		     employee_count = $11, custom_fields = $12, updated_at = $13
		 WHERE id = $1
		 RETURNING `+companyColumns,
		company.ID, company.Name, company.Industry, company.Website, company.Phone,
		company.Email, company.City, company.Country, company.Status,
		company.AnnualRevenue, company.EmployeeCount, customJSON, time.Now(),
	)

	updated, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Company{}, domain.ErrNotFound
		}
		return domain.Company{}, fmt.Errorf("failed to update company: %w", err)
	}
	return updated, nil
}

func (r *companyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCompany(row pgx.Row) (domain.Company, error) {
	var c domain.Company
	var customJSON []byte
	if err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Industry, &c.Website, &c.Phone, &c.Email,
		&c.City, &c.Country, &c.Status, &c.AnnualRevenue, &c.EmployeeCount,
		&customJSON, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return domain.Company{}, err
	}

	custom, err := customFieldsFromJSON(customJSON)
	if err != nil {
		return domain.Company{}, err
	}
	c.CustomFields = custom
	return c, nil
}
