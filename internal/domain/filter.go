package domain

import (
	"encoding/json"
	"fmt"
)

// FilterOperator enumerates the condition operators accepted by the filter
// engine. The set is closed; unknown operators compile to a neutral
// fragment rather than failing, so saved filters survive operator drift.
type FilterOperator string

const (
	OpEquals             FilterOperator = "equals"
	OpNotEquals          FilterOperator = "not_equals"
	OpContains           FilterOperator = "contains"
	OpNotContains        FilterOperator = "not_contains"
	OpStartsWith         FilterOperator = "starts_with"
	OpEndsWith           FilterOperator = "ends_with"
	OpIsEmpty            FilterOperator = "is_empty"
	OpIsNotEmpty         FilterOperator = "is_not_empty"
	OpGreaterThan        FilterOperator = "greater_than"
	OpLessThan           FilterOperator = "less_than"
	OpGreaterThanOrEqual FilterOperator = "greater_than_or_equal"
	OpLessThanOrEqual    FilterOperator = "less_than_or_equal"
	OpBetween            FilterOperator = "between"
	OpBefore             FilterOperator = "before"
	OpAfter              FilterOperator = "after"
	OpOnOrBefore         FilterOperator = "on_or_before"
	OpOnOrAfter          FilterOperator = "on_or_after"
	OpDateBetween        FilterOperator = "date_between"
	OpIsToday            FilterOperator = "is_today"
	OpIsTrue             FilterOperator = "is_true"
	OpIsFalse            FilterOperator = "is_false"
)

// ValidOperators returns every operator the engine understands.
func ValidOperators() []FilterOperator {
	return []FilterOperator{
		OpEquals, OpNotEquals, OpContains, OpNotContains, OpStartsWith,
		OpEndsWith, OpIsEmpty, OpIsNotEmpty, OpGreaterThan, OpLessThan,
		OpGreaterThanOrEqual, OpLessThanOrEqual, OpBetween, OpBefore,
		OpAfter, OpOnOrBefore, OpOnOrAfter, OpDateBetween, OpIsToday,
		OpIsTrue, OpIsFalse,
	}
}

// IsValid reports whether the operator is part of the supported set.
func (op FilterOperator) IsValid() bool {
	for _, known := range ValidOperators() {
		if op == known {
			return true
		}
	}
	return false
}

// LogicalOperator combines sibling conditions or groups.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// FilterCondition is one atomic field/operator/value test. Value is left
// untyped on the wire; the compiler coerces it per operator family and
// degrades to a neutral fragment on shape mismatches.
type FilterCondition struct {
	ID              string          `json:"id"`
	Field           string          `json:"field"`
	Operator        FilterOperator  `json:"operator"`
	Value           any             `json:"value,omitempty"`
	LogicalOperator LogicalOperator `json:"logicalOperator,omitempty"`
}

// Usable reports whether the condition carries enough shape to compile.
// Conditions missing a field or operator are dropped before evaluation.
func (c FilterCondition) Usable() bool {
	return c.Field != "" && c.Operator != ""
}

// FilterGroup combines its conditions with a single logical operator.
// An unset operator defaults to AND; only the group's own operator or,
// failing that, the first condition's is consulted.
type FilterGroup struct {
	ID              string            `json:"id"`
	Conditions      []FilterCondition `json:"conditions"`
	LogicalOperator LogicalOperator   `json:"logicalOperator,omitempty"`
}

// Combinator resolves the operator used to join this group's conditions.
// Mixed per-condition operators beyond the first are ignored.
func (g FilterGroup) Combinator() LogicalOperator {
	if g.LogicalOperator == LogicalOr {
		return LogicalOr
	}
	if g.LogicalOperator == LogicalAnd {
		return LogicalAnd
	}
	if len(g.Conditions) > 0 && g.Conditions[0].LogicalOperator == LogicalOr {
		return LogicalOr
	}
	return LogicalAnd
}

// FilterSpec is the root of a user-composed filter. Groups are always
// combined with OR; the wire shape accepts per-group logical operators but
// the root combination does not consult them.
type FilterSpec struct {
	Groups   []FilterGroup `json:"groups"`
	Name     string        `json:"name,omitempty"`
	IsPublic bool          `json:"isPublic,omitempty"`
}

// FilterSpecFromJSON decodes a filter spec stored as JSONB.
func FilterSpecFromJSON(raw json.RawMessage) (FilterSpec, error) {
	var spec FilterSpec
	if len(raw) == 0 {
		return spec, nil
	}
	if err := json.Unmarshal(raw, &spec); err != nil {
		return FilterSpec{}, fmt.Errorf("decode filter spec: %w", err)
	}
	return spec, nil
}

// ToJSON encodes the filter spec for JSONB storage.
func (s FilterSpec) ToJSON() (json.RawMessage, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode filter spec: %w", err)
	}
	return data, nil
}
