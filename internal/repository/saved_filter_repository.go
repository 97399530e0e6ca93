package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SeanZhang02/crm-api/internal/db"
	"github.com/SeanZhang02/crm-api/internal/domain"
)

// savedFilterRepository implements SavedFilterRepository
type savedFilterRepository struct {
	db db.DBTX
}

// NewSavedFilterRepository creates a new saved filter repository
func NewSavedFilterRepository(exec db.DBTX) SavedFilterRepository {
	return &savedFilterRepository{db: exec}
}

const savedFilterColumns = "id, owner_id, name, entity_type, filter_config, is_public, use_count, created_at, updated_at"

// 23505 is unique_violation, raised by saved_filters_entity_name_key.
const uniqueViolationCode = "23505"

func (r *savedFilterRepository) Create(ctx context.Context, sf domain.SavedFilter) (domain.SavedFilter, error) {
	configJSON, err := sf.FilterConfig.ToJSON()
	if err != nil {
		return domain.SavedFilter{}, fmt.Errorf("failed to encode filter config: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO saved_filters (`+savedFilterColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+savedFilterColumns,
		sf.ID, sf.OwnerID, sf.Name, sf.EntityType, configJSON, sf.IsPublic,
		sf.UseCount, sf.CreatedAt, sf.UpdatedAt,
	)

	created, err := scanSavedFilter(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.SavedFilter{}, domain.ErrDuplicateName
		}
		return domain.SavedFilter{}, fmt.Errorf("failed to create saved filter: %w", err)
	}
	return created, nil
}

// GetByID reads a saved filter and bumps its use count in the same
// statement, so concurrent reads never lose an increment.
func (r *savedFilterRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.SavedFilter, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE saved_filters
		 SET use_count = use_count + 1
		 WHERE id = $1
		 RETURNING `+savedFilterColumns,
		id,
	)

	sf, err := scanSavedFilter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SavedFilter{}, domain.ErrNotFound
		}
		return domain.SavedFilter{}, fmt.Errorf("failed to get saved filter: %w", err)
	}
	return sf, nil
}

func (r *savedFilterRepository) List(ctx context.Context, listFilter domain.SavedFilterListFilter) ([]domain.SavedFilter, error) {
	query := `SELECT ` + savedFilterColumns + ` FROM saved_filters`
	var clauses []string
	var args []any

	if listFilter.EntityType != "" {
		args = append(args, listFilter.EntityType)
		clauses = append(clauses, fmt.Sprintf("entity_type = $%d", len(args)))
	}
	if listFilter.IsPublic != nil {
		args = append(args, *listFilter.IsPublic)
		clauses = append(clauses, fmt.Sprintf("is_public = $%d", len(args)))
	}
	if listFilter.NameSearch != "" {
		args = append(args, "%"+listFilter.NameSearch+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY use_count DESC, updated_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved filters: %w", err)
	}
	defer rows.Close()

	var filters []domain.SavedFilter
	for rows.Next() {
		sf, err := scanSavedFilter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved filter: %w", err)
		}
		filters = append(filters, sf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved filters: %w", err)
	}

	return filters, nil
}

func (r *savedFilterRepository) Update(ctx context.Context, sf domain.SavedFilter) (domain.SavedFilter, error) {
	configJSON, err := sf.FilterConfig.ToJSON()
	if err != nil {
		return domain.SavedFilter{}, fmt.Errorf("failed to encode filter config: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`UPDATE saved_filters
		 SET name = $2, filter_config = $3, is_public = $4, updated_at = $5
		 WHERE id = $1
		 RETURNING `+savedFilterColumns,
		sf.ID, sf.Name, configJSON, sf.IsPublic, time.Now(),
	)

	updated, err := scanSavedFilter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SavedFilter{}, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.SavedFilter{}, domain.ErrDuplicateName
		}
		return domain.SavedFilter{}, fmt.Errorf("failed to update saved filter: %w", err)
	}
	return updated, nil
}

func (r *savedFilterRepository) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, string, error) {
	var deletedID uuid.UUID
	var name string
	err := r.db.QueryRow(ctx,
		`DELETE FROM saved_filters WHERE id = $1 RETURNING id, name`, id,
	).Scan(&deletedID, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, "", domain.ErrNotFound
		}
		return uuid.Nil, "", fmt.Errorf("failed to delete saved filter: %w", err)
	}
	return deletedID, name, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func scanSavedFilter(row pgx.Row) (domain.SavedFilter, error) {
	var sf domain.SavedFilter
	var configJSON json.RawMessage
	if err := row.Scan(
		&sf.ID, &sf.OwnerID, &sf.Name, &sf.EntityType, &configJSON, &sf.IsPublic,
		&sf.UseCount, &sf.CreatedAt, &sf.UpdatedAt,
	); err != nil {
		return domain.SavedFilter{}, err
	}

	config, err := domain.FilterSpecFromJSON(configJSON)
	if err != nil {
		return domain.SavedFilter{}, fmt.Errorf("failed to decode filter config: %w", err)
	}
	sf.FilterConfig = config
	return sf, nil
}
