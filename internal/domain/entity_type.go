package domain

// EntityType names a filterable CRM collection.
type EntityType string

const (
	EntityTypeCompanies  EntityType = "companies"
	EntityTypeContacts   EntityType = "contacts"
	EntityTypeDeals      EntityType = "deals"
	EntityTypeActivities EntityType = "activities"
)

// ValidEntityTypes returns the collections saved filters may target.
func ValidEntityTypes() []EntityType {
	return []EntityType{EntityTypeCompanies, EntityTypeContacts, EntityTypeDeals, EntityTypeActivities}
}

// IsValid reports whether the entity type is a known collection.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeCompanies, EntityTypeContacts, EntityTypeDeals, EntityTypeActivities:
		return true
	}
	return false
}
