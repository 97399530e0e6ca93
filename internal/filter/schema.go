package filter

import "github.com/SeanZhang02/crm-api/internal/domain"

// FieldKind classifies a queryable attribute for operator coercion.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumeric
	KindDate
	KindBool
)

// Column maps a wire field name to a SQL column.
type Column struct {
	Name string
	Kind FieldKind
}

// Relation describes a traversable link to another entity table. On is
// the correlation predicate between the two tables.
type Relation struct {
	Target string
	On     string
}

// Aggregate describes a related-record count addressable under the
// reserved "_count" path prefix.
type Aggregate struct {
	Table string
	On    string
}

// EntitySchema enumerates the queryable surface of one entity table.
// Fields outside this surface compile to an always-false fragment.
type EntitySchema struct {
	Table      string
	Columns    map[string]Column
	Relations  map[string]Relation
	Aggregates map[string]Aggregate
	HasCustom  bool
}

var schemas = buildSchemas()

// SchemaFor returns the queryable schema of an entity collection.
func SchemaFor(entityType domain.EntityType) (EntitySchema, bool) {
	s, ok := schemas[string(entityType)]
	return s, ok
}

func schemaByKey(key string) (EntitySchema, bool) {
	s, ok := schemas[key]
	return s, ok
}

func timestamps(table string) map[string]Column {
	return map[string]Column{
		"createdAt": {Name: table + ".created_at", Kind: KindDate},
		"updatedAt": {Name: table + ".updated_at", Kind: KindDate},
	}
}

func buildSchemas() map[string]EntitySchema {
	companies := EntitySchema{
		Table: "companies",
		Columns: merge(timestamps("companies"), map[string]Column{
			"name":          {Name: "companies.name", Kind: KindText},
			"industry":      {Name: "companies.industry", Kind: KindText},
			"website":       {Name: "companies.website", Kind: KindText},
			"phone":         {Name: "companies.phone", Kind: KindText},
			"email":         {Name: "companies.email", Kind: KindText},
			"city":          {Name: "companies.city", Kind: KindText},
			"country":       {Name: "companies.country", Kind: KindText},
			"status":        {Name: "companies.status", Kind: KindText},
			"annualRevenue": {Name: "companies.annual_revenue", Kind: KindNumeric},
			"employeeCount": {Name: "companies.employee_count", Kind: KindNumeric},
		}),
		Relations: map[string]Relation{
			"contacts":   {Target: "contacts", On: "contacts.company_id = companies.id"},
			"deals":      {Target: "deals", On: "deals.company_id = companies.id"},
			"activities": {Target: "activities", On: "activities.company_id = companies.id"},
		},
		Aggregates: map[string]Aggregate{
			"contacts":   {Table: "contacts", On: "contacts.company_id = companies.id"},
			"deals":      {Table: "deals", On: "deals.company_id = companies.id"},
			"activities": {Table: "activities", On: "activities.company_id = companies.id"},
		},
		HasCustom: true,
	}

	contacts := EntitySchema{
		Table: "contacts",
		Columns: merge(timestamps("contacts"), map[string]Column{
			"firstName": {Name: "contacts.first_name", Kind: KindText},
			"lastName":  {Name: "contacts.last_name", Kind: KindText},
			"email":     {Name: "contacts.email", Kind: KindText},
			"phone":     {Name: "contacts.phone", Kind: KindText},
			"title":     {Name: "contacts.title", Kind: KindText},
			"status":    {Name: "contacts.status", Kind: KindText},
			"isPrimary": {Name: "contacts.is_primary", Kind: KindBool},
		}),
		Relations: map[string]Relation{
			"company":    {Target: "companies", On: "companies.id = contacts.company_id"},
			"deals":      {Target: "deals", On: "deals.contact_id = contacts.id"},
			"activities": {Target: "activities", On: "activities.contact_id = contacts.id"},
		},
		Aggregates: map[string]Aggregate{
			"deals":      {Table: "deals", On: "deals.contact_id = contacts.id"},
			"activities": {Table: "activities", On: "activities.contact_id = contacts.id"},
		},
		HasCustom: true,
	}

	deals := EntitySchema{
		Table: "deals",
		Columns: merge(timestamps("deals"), map[string]Column{
			"title":             {Name: "deals.title", Kind: KindText},
			"value":             {Name: "deals.value", Kind: KindNumeric},
			"currency":          {Name: "deals.currency", Kind: KindText},
			"status":            {Name: "deals.status", Kind: KindText},
			"expectedCloseDate": {Name: "deals.expected_close_date", Kind: KindDate},
			"closedAt":          {Name: "deals.closed_at", Kind: KindDate},
		}),
		Relations: map[string]Relation{
			"company":    {Target: "companies", On: "companies.id = deals.company_id"},
			"contact":    {Target: "contacts", On: "contacts.id = deals.contact_id"},
			"stage":      {Target: "stages", On: "pipeline_stages.id = deals.stage_id"},
			"activities": {Target: "activities", On: "activities.deal_id = deals.id"},
		},
		Aggregates: map[string]Aggregate{
			"activities": {Table: "activities", On: "activities.deal_id = deals.id"},
		},
	}

	activities := EntitySchema{
		Table: "activities",
		Columns: merge(timestamps("activities"), map[string]Column{
			"type":        {Name: "activities.type", Kind: KindText},
			"subject":     {Name: "activities.subject", Kind: KindText},
			"description": {Name: "activities.description", Kind: KindText},
			"dueDate":     {Name: "activities.due_date", Kind: KindDate},
			"completed":   {Name: "activities.completed", Kind: KindBool},
		}),
		Relations: map[string]Relation{
			"company": {Target: "companies", On: "companies.id = activities.company_id"},
			"contact": {Target: "contacts", On: "contacts.id = activities.contact_id"},
			"deal":    {Target: "deals", On: "deals.id = activities.deal_id"},
		},
	}

	stages := EntitySchema{
		Table: "pipeline_stages",
		Columns: merge(timestamps("pipeline_stages"), map[string]Column{
			"name":        {Name: "pipeline_stages.name", Kind: KindText},
			"position":    {Name: "pipeline_stages.position", Kind: KindNumeric},
			"probability": {Name: "pipeline_stages.probability", Kind: KindNumeric},
			"color":       {Name: "pipeline_stages.color", Kind: KindText},
		}),
	}

	return map[string]EntitySchema{
		"companies":  companies,
		"contacts":   contacts,
		"deals":      deals,
		"activities": activities,
		"stages":     stages,
	}
}

func merge(base, extra map[string]Column) map[string]Column {
	out := make(map[string]Column, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
