package filter

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/SeanZhang02/crm-api/internal/domain"
)

// The compiler turns a FilterSpec into one SQL predicate. It is pure and
// fail-open: condition-shape problems degrade to a neutral (match-all)
// fragment, unresolvable fields to an always-false one. It never returns
// an error.

const (
	neutralFragment = ""
	falseFragment   = "FALSE"

	aggregateMarker = "_count"
	customMarker    = "custom"
)

// CompileSpec compiles a filter spec against the named entity collection.
// Unknown collections yield an always-false predicate.
func CompileSpec(entityType domain.EntityType, spec domain.FilterSpec) Predicate {
	schema, ok := SchemaFor(entityType)
	if !ok {
		log.Printf("[FILTER] unknown entity type %q, matching nothing", entityType)
		return Predicate{Where: falseFragment}
	}

	b := newBuilder()
	where := compileSpec(schema, spec, b)
	return Predicate{Where: where, Args: b.args}
}

// compileSpec combines per-group fragments. Groups are always joined with
// OR; per-group logical operators on the wire are not consulted here.
func compileSpec(schema EntitySchema, spec domain.FilterSpec, b *builder) string {
	fragments := make([]string, 0, len(spec.Groups))
	for _, group := range spec.Groups {
		fragment := compileGroup(schema, group, b)
		if fragment == neutralFragment {
			continue
		}
		fragments = append(fragments, fragment)
	}

	switch len(fragments) {
	case 0:
		return neutralFragment
	case 1:
		return fragments[0]
	default:
		return "(" + strings.Join(fragments, " OR ") + ")"
	}
}

// compileGroup combines a group's condition fragments with the group's
// single combinator. Only the group's own logical operator or, failing
// that, the first condition's decides the join.
func compileGroup(schema EntitySchema, group domain.FilterGroup, b *builder) string {
	fragments := make([]string, 0, len(group.Conditions))
	for _, cond := range group.Conditions {
		if !cond.Usable() {
			continue
		}
		fragment := compileCondition(schema, cond, b)
		if fragment == neutralFragment {
			continue
		}
		fragments = append(fragments, fragment)
	}

	switch len(fragments) {
	case 0:
		return neutralFragment
	case 1:
		return fragments[0]
	default:
		joiner := " AND "
		if group.Combinator() == domain.LogicalOr {
			joiner = " OR "
		}
		return "(" + strings.Join(fragments, joiner) + ")"
	}
}

// compileCondition maps one condition to a fragment over its field path.
func compileCondition(schema EntitySchema, cond domain.FilterCondition, b *builder) string {
	path := strings.Split(cond.Field, ".")
	return compilePath(schema, path, cond, b)
}

// compilePath resolves a dotted field path. Relation segments wrap the
// inner fragment in correlated EXISTS subqueries, innermost comparison at
// the deepest segment.
func compilePath(schema EntitySchema, path []string, cond domain.FilterCondition, b *builder) string {
	if len(path) == 0 || path[0] == "" {
		return falseFragment
	}

	// Aggregate counts: "_count.<relation>"; deeper segments are ignored.
	if path[0] == aggregateMarker {
		if len(path) < 2 {
			log.Printf("[FILTER] aggregate path %q has no target, matching nothing", cond.Field)
			return falseFragment
		}
		agg, ok := schema.Aggregates[path[1]]
		if !ok {
			log.Printf("[FILTER] unknown aggregate %q on %s, matching nothing", path[1], schema.Table)
			return falseFragment
		}
		expr := "(SELECT COUNT(*) FROM " + agg.Table + " WHERE " + agg.On + ")"
		return applyOperator(expr, KindNumeric, cond, b)
	}

	// Custom JSONB attributes: "custom.<key>". The key arg is rolled back
	// when the operator degrades to neutral, so a skipped condition never
	// leaves an orphan placeholder behind.
	if path[0] == customMarker && schema.HasCustom && len(path) == 2 {
		mark := len(b.args)
		expr := schema.Table + ".custom_fields ->> " + b.arg(path[1]) + "::text"
		fragment := applyOperator(expr, KindText, cond, b)
		if fragment == neutralFragment {
			b.args = b.args[:mark]
		}
		return fragment
	}

	if len(path) == 1 {
		column, ok := schema.Columns[path[0]]
		if !ok {
			log.Printf("[FILTER] unresolvable field %q on %s, matching nothing", cond.Field, schema.Table)
			return falseFragment
		}
		return applyOperator(column.Name, column.Kind, cond, b)
	}

	relation, ok := schema.Relations[path[0]]
	if !ok {
		log.Printf("[FILTER] unresolvable field %q on %s, matching nothing", cond.Field, schema.Table)
		return falseFragment
	}
	target, ok := schemaByKey(relation.Target)
	if !ok {
		return falseFragment
	}

	inner := compilePath(target, path[1:], cond, b)
	if inner == neutralFragment {
		return neutralFragment
	}
	if inner == falseFragment {
		return falseFragment
	}
	return "EXISTS (SELECT 1 FROM " + target.Table + " WHERE " + relation.On + " AND " + inner + ")"
}

// applyOperator produces the comparison fragment for a resolved field
// expression. Shape mismatches compile to the neutral fragment.
func applyOperator(expr string, kind FieldKind, cond domain.FilterCondition, b *builder) string {
	switch cond.Operator {
	case domain.OpEquals:
		value, ok := coerce(kind, cond.Value)
		if !ok {
			return warnValue(cond)
		}
		return expr + " = " + b.arg(value)

	case domain.OpNotEquals:
		value, ok := coerce(kind, cond.Value)
		if !ok {
			return warnValue(cond)
		}
		return expr + " <> " + b.arg(value)

	case domain.OpContains:
		return textExpr(expr, kind) + " ILIKE " + b.arg("%"+escapeLike(toString(cond.Value))+"%")

	case domain.OpNotContains:
		return "NOT (" + textExpr(expr, kind) + " ILIKE " + b.arg("%"+escapeLike(toString(cond.Value))+"%") + ")"

	case domain.OpStartsWith:
		return textExpr(expr, kind) + " ILIKE " + b.arg(escapeLike(toString(cond.Value))+"%")

	case domain.OpEndsWith:
		return textExpr(expr, kind) + " ILIKE " + b.arg("%"+escapeLike(toString(cond.Value)))

	case domain.OpIsEmpty:
		if kind == KindText {
			return "(" + expr + " IS NULL OR " + expr + " = '')"
		}
		return expr + " IS NULL"

	case domain.OpIsNotEmpty:
		if kind == KindText {
			return "(" + expr + " IS NOT NULL AND " + expr + " <> '')"
		}
		return expr + " IS NOT NULL"

	case domain.OpGreaterThan:
		return numericCompare(expr, kind, " > ", cond, b)

	case domain.OpLessThan:
		return numericCompare(expr, kind, " < ", cond, b)

	case domain.OpGreaterThanOrEqual:
		return numericCompare(expr, kind, " >= ", cond, b)

	case domain.OpLessThanOrEqual:
		return numericCompare(expr, kind, " <= ", cond, b)

	case domain.OpBetween:
		if kind != KindNumeric {
			return warnKind(cond)
		}
		lo, hi, ok := rangeValues(cond.Value)
		if !ok {
			return warnValue(cond)
		}
		return "(" + expr + " >= " + b.arg(toFloat(lo)) + " AND " + expr + " <= " + b.arg(toFloat(hi)) + ")"

	case domain.OpBefore:
		return dateCompare(expr, kind, " < ", cond, b)

	case domain.OpAfter:
		return dateCompare(expr, kind, " > ", cond, b)

	case domain.OpOnOrBefore:
		return dateCompare(expr, kind, " <= ", cond, b)

	case domain.OpOnOrAfter:
		return dateCompare(expr, kind, " >= ", cond, b)

	case domain.OpDateBetween:
		if kind != KindDate {
			return warnKind(cond)
		}
		lo, hi, ok := rangeValues(cond.Value)
		if !ok {
			return warnValue(cond)
		}
		from, okFrom := parseDate(lo)
		to, okTo := parseDate(hi)
		if !okFrom || !okTo {
			return warnValue(cond)
		}
		return "(" + expr + " >= " + b.arg(from) + " AND " + expr + " <= " + b.arg(to) + ")"

	case domain.OpIsToday:
		if kind != KindDate {
			return warnKind(cond)
		}
		start := startOfDay(time.Now())
		end := start.Add(24 * time.Hour)
		return "(" + expr + " >= " + b.arg(start) + " AND " + expr + " < " + b.arg(end) + ")"

	case domain.OpIsTrue:
		if kind != KindBool {
			return warnKind(cond)
		}
		return expr + " = TRUE"

	case domain.OpIsFalse:
		if kind != KindBool {
			return warnKind(cond)
		}
		return expr + " = FALSE"

	default:
		log.Printf("[FILTER] unknown operator %q on field %q, skipping condition", cond.Operator, cond.Field)
		return neutralFragment
	}
}

func numericCompare(expr string, kind FieldKind, op string, cond domain.FilterCondition, b *builder) string {
	if kind != KindNumeric {
		return warnKind(cond)
	}
	return expr + op + b.arg(toFloat(cond.Value))
}

func dateCompare(expr string, kind FieldKind, op string, cond domain.FilterCondition, b *builder) string {
	if kind != KindDate {
		return warnKind(cond)
	}
	value, ok := parseDate(cond.Value)
	if !ok {
		return warnValue(cond)
	}
	return expr + op + b.arg(value)
}

func warnKind(cond domain.FilterCondition) string {
	log.Printf("[FILTER] operator %q does not apply to field %q, skipping condition", cond.Operator, cond.Field)
	return neutralFragment
}

func warnValue(cond domain.FilterCondition) string {
	log.Printf("[FILTER] malformed value for operator %q on field %q, skipping condition", cond.Operator, cond.Field)
	return neutralFragment
}

// textExpr casts non-text fields so substring operators stay permissive.
func textExpr(expr string, kind FieldKind) string {
	if kind == KindText {
		return expr
	}
	return "(" + expr + ")::text"
}

// coerce converts an equality value to the field's kind. Dates that fail
// to parse report !ok; numeric coercion never fails.
func coerce(kind FieldKind, value any) (any, bool) {
	switch kind {
	case KindNumeric:
		return toFloat(value), true
	case KindDate:
		t, ok := parseDate(value)
		return t, ok
	case KindBool:
		boolean, ok := value.(bool)
		return boolean, ok
	default:
		return toString(value), true
	}
}

// rangeValues extracts the two endpoints of a between-style value.
func rangeValues(value any) (any, any, bool) {
	slice, ok := value.([]any)
	if !ok || len(slice) != 2 {
		return nil, nil, false
	}
	return slice[0], slice[1], true
}

// toFloat coerces permissively: numbers pass through, numeric strings are
// parsed, anything else becomes 0.
func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// startOfDay truncates to local midnight.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// escapeLike neutralizes LIKE wildcards in user-supplied needles.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
