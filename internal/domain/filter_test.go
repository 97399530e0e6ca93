package domain

import "testing"

func TestFilterGroupCombinator(t *testing.T) {
	cases := []struct {
		name  string
		group FilterGroup
		want  LogicalOperator
	}{
		{
			name:  "empty group defaults to AND",
			group: FilterGroup{},
			want:  LogicalAnd,
		},
		{
			name:  "explicit group OR",
			group: FilterGroup{LogicalOperator: LogicalOr},
			want:  LogicalOr,
		},
		{
			name: "explicit group AND overrides condition OR",
			group: FilterGroup{
				LogicalOperator: LogicalAnd,
				Conditions:      []FilterCondition{{LogicalOperator: LogicalOr}},
			},
			want: LogicalAnd,
		},
		{
			name: "first condition OR governs",
			group: FilterGroup{
				Conditions: []FilterCondition{
					{LogicalOperator: LogicalOr},
					{LogicalOperator: LogicalAnd},
				},
			},
			want: LogicalOr,
		},
		{
			name: "later condition OR is ignored",
			group: FilterGroup{
				Conditions: []FilterCondition{
					{},
					{LogicalOperator: LogicalOr},
				},
			},
			want: LogicalAnd,
		},
		{
			name:  "unknown operator falls back to AND",
			group: FilterGroup{LogicalOperator: "XOR"},
			want:  LogicalAnd,
		},
	}

	for _, tc := range cases {
		if got := tc.group.Combinator(); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestFilterConditionUsable(t *testing.T) {
	if (FilterCondition{Field: "name"}).Usable() {
		t.Fatalf("condition without operator should not be usable")
	}
	if (FilterCondition{Operator: OpEquals}).Usable() {
		t.Fatalf("condition without field should not be usable")
	}
	if !(FilterCondition{Field: "name", Operator: OpEquals}).Usable() {
		t.Fatalf("condition with field and operator should be usable")
	}
}

func TestFilterOperatorIsValid(t *testing.T) {
	for _, op := range ValidOperators() {
		if !op.IsValid() {
			t.Fatalf("operator %q should be valid", op)
		}
	}
	if FilterOperator("sounds_like").IsValid() {
		t.Fatalf("unknown operator should be invalid")
	}
}

func TestListOptionsClamp(t *testing.T) {
	cases := []struct {
		name string
		in   ListOptions
		want ListOptions
	}{
		{
			name: "defaults",
			in:   ListOptions{},
			want: ListOptions{Limit: 25, SortDir: SortDirectionDesc},
		},
		{
			name: "limit capped",
			in:   ListOptions{Limit: 500, Offset: 10, SortDir: SortDirectionAsc},
			want: ListOptions{Limit: 100, Offset: 10, SortDir: SortDirectionAsc},
		},
		{
			name: "negative offset reset",
			in:   ListOptions{Limit: 10, Offset: -5},
			want: ListOptions{Limit: 10, SortDir: SortDirectionDesc},
		},
		{
			name: "junk direction normalized",
			in:   ListOptions{Limit: 10, SortDir: "sideways"},
			want: ListOptions{Limit: 10, SortDir: SortDirectionDesc},
		},
	}

	for _, tc := range cases {
		if got := tc.in.Clamp(); got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
	}
}

func TestEntityTypeIsValid(t *testing.T) {
	for _, et := range ValidEntityTypes() {
		if !et.IsValid() {
			t.Fatalf("entity type %q should be valid", et)
		}
	}
	if EntityType("widgets").IsValid() {
		t.Fatalf("unknown entity type should be invalid")
	}
	if EntityType("").IsValid() {
		t.Fatalf("empty entity type should be invalid")
	}
}
