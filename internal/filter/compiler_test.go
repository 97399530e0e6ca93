package filter

import (
	"strings"
	"testing"

	"github.com/SeanZhang02/crm-api/internal/domain"
)

func compileOne(t *testing.T, entityType domain.EntityType, cond domain.FilterCondition) Predicate {
	t.Helper()
	spec := domain.FilterSpec{Groups: []domain.FilterGroup{{ID: "g1", Conditions: []domain.FilterCondition{cond}}}}
	return CompileSpec(entityType, spec)
}

func TestCompileSpec_EmptySpecMatchesAll(t *testing.T) {
	pred := CompileSpec(domain.EntityTypeCompanies, domain.FilterSpec{})
	if !pred.IsNeutral() {
		t.Fatalf("expected neutral predicate, got %q", pred.Where)
	}
	if len(pred.Args) != 0 {
		t.Fatalf("expected no args, got %v", pred.Args)
	}
}

func TestCompileSpec_EmptyGroupMatchesAll(t *testing.T) {
	spec := domain.FilterSpec{Groups: []domain.FilterGroup{{ID: "g1"}}}
	if pred := CompileSpec(domain.EntityTypeCompanies, spec); !pred.IsNeutral() {
		t.Fatalf("expected neutral predicate, got %q", pred.Where)
	}
}

func TestCompileSpec_UnusableConditionsExcluded(t *testing.T) {
	spec := domain.FilterSpec{Groups: []domain.FilterGroup{{
		ID: "g1",
		Conditions: []domain.FilterCondition{
			{ID: "c1", Field: "", Operator: ""},
			{ID: "c2", Field: "name", Operator: ""},
			{ID: "c3", Field: "", Operator: domain.OpEquals},
		},
	}}}
	if pred := CompileSpec(domain.EntityTypeCompanies, spec); !pred.IsNeutral() {
		t.Fatalf("expected unusable conditions to compile to match-all, got %q", pred.Where)
	}
}

func TestCompileSpec_Equals(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "status", Operator: domain.OpEquals, Value: "active",
	})
	if pred.Where != "companies.status = $1" {
		t.Fatalf("unexpected fragment: %q", pred.Where)
	}
	if len(pred.Args) != 1 || pred.Args[0] != "active" {
		t.Fatalf("unexpected args: %v", pred.Args)
	}
}

func TestCompileSpec_ContainsIsCaseInsensitive(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "name", Operator: domain.OpContains, Value: "acme",
	})
	if pred.Where != "companies.name ILIKE $1" {
		t.Fatalf("unexpected fragment: %q", pred.Where)
	}
	if pred.Args[0] != "%acme%" {
		t.Fatalf("unexpected pattern: %v", pred.Args[0])
	}
}

func TestCompileSpec_ContainsEscapesWildcards(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "name", Operator: domain.OpContains, Value: "50%_off",
	})
	if pred.Args[0] != `%50\%\_off%` {
		t.Fatalf("wildcards not escaped: %v", pred.Args[0])
	}
}

func TestCompileSpec_IsEmptyMatchesNullAndEmptyString(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "website", Operator: domain.OpIsEmpty,
	})
	want := "(companies.website IS NULL OR companies.website = '')"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
}

func TestCompileSpec_IsNotEmpty(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "website", Operator: domain.OpIsNotEmpty,
	})
	want := "(companies.website IS NOT NULL AND companies.website <> '')"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
}

func TestCompileSpec_BetweenInclusiveRange(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "employeeCount", Operator: domain.OpBetween, Value: []any{float64(10), float64(20)},
	})
	want := "(companies.employee_count >= $1 AND companies.employee_count <= $2)"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
	if pred.Args[0] != float64(10) || pred.Args[1] != float64(20) {
		t.Fatalf("unexpected args: %v", pred.Args)
	}
}

func TestCompileSpec_BetweenWrongArityIsNeutral(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "employeeCount", Operator: domain.OpBetween, Value: []any{float64(10)},
	})
	if !pred.IsNeutral() {
		t.Fatalf("expected neutral fragment for malformed range, got %q", pred.Where)
	}
}

func TestCompileSpec_GreaterThanCoercesNonNumericToZero(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "annualRevenue", Operator: domain.OpGreaterThan, Value: "abc",
	})
	if pred.Where != "companies.annual_revenue > $1" {
		t.Fatalf("unexpected fragment: %q", pred.Where)
	}
	if pred.Args[0] != float64(0) {
		t.Fatalf("expected non-numeric value coerced to 0, got %v", pred.Args[0])
	}
}

func TestCompileSpec_AggregateCountPath(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "_count.contacts", Operator: domain.OpGreaterThan, Value: float64(5),
	})
	want := "(SELECT COUNT(*) FROM contacts WHERE contacts.company_id = companies.id) > $1"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
	if pred.Args[0] != float64(5) {
		t.Fatalf("unexpected args: %v", pred.Args)
	}
}

func TestCompileSpec_AggregateIgnoresExtraDepth(t *testing.T) {
	deep := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "_count.contacts.whatever", Operator: domain.OpGreaterThan, Value: float64(5),
	})
	flat := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "_count.contacts", Operator: domain.OpGreaterThan, Value: float64(5),
	})
	if deep.Where != flat.Where {
		t.Fatalf("extra path depth changed aggregate fragment: %q vs %q", deep.Where, flat.Where)
	}
}

func TestCompileSpec_RelationPathCompilesToExists(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeContacts, domain.FilterCondition{
		ID: "c1", Field: "company.name", Operator: domain.OpContains, Value: "acme",
	})
	want := "EXISTS (SELECT 1 FROM companies WHERE companies.id = contacts.company_id AND companies.name ILIKE $1)"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
}

func TestCompileSpec_NestedRelationPathWrapsOutward(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeActivities, domain.FilterCondition{
		ID: "c1", Field: "deal.company.name", Operator: domain.OpEquals, Value: "Acme Corp",
	})
	if !strings.HasPrefix(pred.Where, "EXISTS (SELECT 1 FROM deals WHERE deals.id = activities.deal_id AND EXISTS (SELECT 1 FROM companies") {
		t.Fatalf("unexpected nesting: %q", pred.Where)
	}
}

func TestCompileSpec_UnresolvableFieldMatchesNothing(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "no_such_field", Operator: domain.OpEquals, Value: "x",
	})
	if pred.Where != "FALSE" {
		t.Fatalf("expected always-false fragment, got %q", pred.Where)
	}
}

func TestCompileSpec_UnknownOperatorIsNeutral(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "name", Operator: "fuzzy_match", Value: "x",
	})
	if !pred.IsNeutral() {
		t.Fatalf("expected neutral fragment for unknown operator, got %q", pred.Where)
	}
}

func TestCompileSpec_CustomFieldPath(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "custom.lead_source", Operator: domain.OpEquals, Value: "referral",
	})
	want := "companies.custom_fields ->> $1::text = $2"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
	if pred.Args[0] != "lead_source" || pred.Args[1] != "referral" {
		t.Fatalf("unexpected args: %v", pred.Args)
	}
}

func TestCompileSpec_CustomFieldSkippedOperatorLeavesNoArgs(t *testing.T) {
	// Operators that do not apply to a text-kinded custom field degrade
	// to neutral; the key must not linger as an unreferenced argument.
	for _, op := range []domain.FilterOperator{domain.OpBetween, domain.OpIsTrue, domain.OpIsToday, "fuzzy_match"} {
		pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
			ID: "c1", Field: "custom.vip", Operator: op, Value: []any{float64(1), float64(2)},
		})
		if !pred.IsNeutral() {
			t.Fatalf("%s: expected neutral fragment, got %q", op, pred.Where)
		}
		if len(pred.Args) != 0 {
			t.Fatalf("%s: expected no args, got %v", op, pred.Args)
		}
	}
}

func TestCompileSpec_CustomFieldSkippedOperatorKeepsNumberingDense(t *testing.T) {
	spec := domain.FilterSpec{Groups: []domain.FilterGroup{{
		ID: "g1",
		Conditions: []domain.FilterCondition{
			{ID: "c1", Field: "custom.vip", Operator: domain.OpBetween, Value: []any{float64(1), float64(2)}},
			{ID: "c2", Field: "name", Operator: domain.OpEquals, Value: "Acme"},
		},
	}}}
	pred := CompileSpec(domain.EntityTypeCompanies, spec)
	if pred.Where != "companies.name = $1" {
		t.Fatalf("got %q, want %q", pred.Where, "companies.name = $1")
	}
	if len(pred.Args) != 1 || pred.Args[0] != "Acme" {
		t.Fatalf("unexpected args: %v", pred.Args)
	}
}

func TestCompileSpec_GroupDefaultsToAnd(t *testing.T) {
	spec := domain.FilterSpec{Groups: []domain.FilterGroup{{
		ID: "g1",
		Conditions: []domain.FilterCondition{
			{ID: "c1", Field: "status", Operator: domain.OpEquals, Value: "active"},
			{ID: "c2", Field: "name", Operator: domain.OpContains, Value: "acme"},
		},
	}}}
	pred := CompileSpec(domain.EntityTypeCompanies, spec)
	want := "(companies.status = $1 AND companies.name ILIKE $2)"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
}

func TestCompileSpec_FirstConditionOperatorGovernsGroup(t *testing.T) {
	// The second condition asks for AND, but only the first condition's
	// operator is consulted for the whole group.
	spec := domain.FilterSpec{Groups: []domain.FilterGroup{{
		ID: "g1",
		Conditions: []domain.FilterCondition{
			{ID: "c1", Field: "status", Operator: domain.OpEquals, Value: "active", LogicalOperator: domain.LogicalOr},
			{ID: "c2", Field: "name", Operator: domain.OpContains, Value: "acme", LogicalOperator: domain.LogicalAnd},
		},
	}}}
	pred := CompileSpec(domain.EntityTypeCompanies, spec)
	if !strings.Contains(pred.Where, " OR ") {
		t.Fatalf("expected OR join from first condition's operator, got %q", pred.Where)
	}
}

func TestCompileSpec_RootCombinationIsAlwaysOr(t *testing.T) {
	spec := domain.FilterSpec{Groups: []domain.FilterGroup{
		{
			ID:              "g1",
			LogicalOperator: domain.LogicalAnd,
			Conditions:      []domain.FilterCondition{{ID: "c1", Field: "status", Operator: domain.OpEquals, Value: "active"}},
		},
		{
			ID:              "g2",
			LogicalOperator: domain.LogicalAnd,
			Conditions:      []domain.FilterCondition{{ID: "c2", Field: "name", Operator: domain.OpContains, Value: "acme"}},
		},
	}}
	pred := CompileSpec(domain.EntityTypeCompanies, spec)
	want := "(companies.status = $1 OR companies.name ILIKE $2)"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
}

func TestCompileSpec_SingleFragmentNotWrapped(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeCompanies, domain.FilterCondition{
		ID: "c1", Field: "status", Operator: domain.OpEquals, Value: "active",
	})
	if strings.HasPrefix(pred.Where, "(") {
		t.Fatalf("single fragment should not be wrapped: %q", pred.Where)
	}
}

func TestCompileSpec_DateBetween(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeDeals, domain.FilterCondition{
		ID: "c1", Field: "expectedCloseDate", Operator: domain.OpDateBetween,
		Value: []any{"2026-01-01", "2026-03-31"},
	})
	want := "(deals.expected_close_date >= $1 AND deals.expected_close_date <= $2)"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
	if len(pred.Args) != 2 {
		t.Fatalf("unexpected args: %v", pred.Args)
	}
}

func TestCompileSpec_DateBetweenWrongArityIsNeutral(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeDeals, domain.FilterCondition{
		ID: "c1", Field: "expectedCloseDate", Operator: domain.OpDateBetween, Value: []any{"2026-01-01"},
	})
	if !pred.IsNeutral() {
		t.Fatalf("expected neutral fragment, got %q", pred.Where)
	}
}

func TestCompileSpec_IsTodayHalfOpenInterval(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeActivities, domain.FilterCondition{
		ID: "c1", Field: "dueDate", Operator: domain.OpIsToday,
	})
	want := "(activities.due_date >= $1 AND activities.due_date < $2)"
	if pred.Where != want {
		t.Fatalf("got %q, want %q", pred.Where, want)
	}
	if len(pred.Args) != 2 {
		t.Fatalf("unexpected args: %v", pred.Args)
	}
}

func TestCompileSpec_BooleanOperators(t *testing.T) {
	pred := compileOne(t, domain.EntityTypeContacts, domain.FilterCondition{
		ID: "c1", Field: "isPrimary", Operator: domain.OpIsTrue,
	})
	if pred.Where != "contacts.is_primary = TRUE" {
		t.Fatalf("unexpected fragment: %q", pred.Where)
	}

	pred = compileOne(t, domain.EntityTypeContacts, domain.FilterCondition{
		ID: "c1", Field: "isPrimary", Operator: domain.OpIsFalse,
	})
	if pred.Where != "contacts.is_primary = FALSE" {
		t.Fatalf("unexpected fragment: %q", pred.Where)
	}
}

func TestCompileSpec_UnknownEntityTypeMatchesNothing(t *testing.T) {
	pred := CompileSpec(domain.EntityType("widgets"), domain.FilterSpec{})
	if pred.Where != "FALSE" {
		t.Fatalf("expected always-false predicate, got %q", pred.Where)
	}
}

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{float64(3.5), 3.5},
		{int(7), 7},
		{"42", 42},
		{" 42.5 ", 42.5},
		{"abc", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tc := range cases {
		if got := toFloat(tc.in); got != tc.want {
			t.Fatalf("toFloat(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
