package repository

import (
	"encoding/json"
	"fmt"

	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
)

// whereClause renders a compiled predicate, or nothing for match-all.
func whereClause(pred filter.Predicate) string {
	if pred.IsNeutral() {
		return ""
	}
	return " WHERE " + pred.Where
}

// orderClause validates the requested sort field against a per-table
// whitelist and falls back to most-recently-updated ordering.
func orderClause(whitelist map[string]string, opts domain.ListOptions) string {
	column, ok := whitelist[opts.SortField]
	if !ok {
		return " ORDER BY updated_at DESC"
	}
	direction := "DESC"
	if opts.SortDir == domain.SortDirectionAsc {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST", column, direction)
}

// pageClause appends LIMIT/OFFSET placeholders continuing the predicate's
// positional numbering.
func pageClause(pred filter.Predicate, limit, offset int) (string, []any) {
	base := len(pred.Args)
	clause := fmt.Sprintf(" LIMIT $%d OFFSET $%d", base+1, base+2)
	args := append(append([]any{}, pred.Args...), limit, offset)
	return clause, args
}

// customFieldsJSON marshals a custom-fields map for JSONB storage.
func customFieldsJSON(fields map[string]any) ([]byte, error) {
	if fields == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal custom fields: %w", err)
	}
	return data, nil
}

// customFieldsFromJSON decodes a JSONB custom-fields payload.
func customFieldsFromJSON(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode custom fields: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}
