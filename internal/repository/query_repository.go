package repository

import (
	"context"
	"fmt"

	"github.com/SeanZhang02/crm-api/internal/db"
	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
)

// entityQueryRepository implements EntityQueryRepository. It runs
// compiled predicates against whole entity tables and returns rows as
// generic column maps, which is what previews and exports want.
type entityQueryRepository struct {
	db db.DBTX
}

// NewEntityQueryRepository creates a new entity query repository
func NewEntityQueryRepository(exec db.DBTX) EntityQueryRepository {
	return &entityQueryRepository{db: exec}
}

func (r *entityQueryRepository) Count(ctx context.Context, entityType domain.EntityType, pred filter.Predicate) (int64, error) {
	schema, ok := filter.SchemaFor(entityType)
	if !ok {
		return 0, fmt.Errorf("unknown entity type %q", entityType)
	}

	var count int64
	query := `SELECT COUNT(*) FROM ` + schema.Table + whereClause(pred)
	if err := r.db.QueryRow(ctx, query, pred.Args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", schema.Table, err)
	}
	return count, nil
}

func (r *entityQueryRepository) Sample(ctx context.Context, entityType domain.EntityType, pred filter.Predicate, limit int) ([]map[string]any, error) {
	return r.Page(ctx, entityType, pred, limit, 0)
}

func (r *entityQueryRepository) Page(ctx context.Context, entityType domain.EntityType, pred filter.Predicate, limit, offset int) ([]map[string]any, error) {
	schema, ok := filter.SchemaFor(entityType)
	if !ok {
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}

	page, args := pageClause(pred, limit, offset)
	query := `SELECT * FROM ` + schema.Table + whereClause(pred) +
		` ORDER BY updated_at DESC` + page

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", schema.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	results := make([]map[string]any, 0, limit)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		record := make(map[string]any, len(fields))
		for i, field := range fields {
			record[field.Name] = values[i]
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", schema.Table, err)
	}

	return results, nil
}
