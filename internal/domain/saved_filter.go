package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedFilter is a named, persisted filter spec reusable across list
// views. Names are unique within an entity type. UseCount is bumped by the
// store on every read-by-id; the compiler never touches it.
type SavedFilter struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"ownerId"`
	Name         string     `json:"name"`
	FilterConfig FilterSpec `json:"filterConfig"`
	IsPublic     bool       `json:"isPublic"`
	EntityType   EntityType `json:"entity"`
	UseCount     int        `json:"useCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewSavedFilter creates a saved filter with a fresh id and timestamps.
func NewSavedFilter(ownerID uuid.UUID, name string, entityType EntityType, config FilterSpec, isPublic bool) SavedFilter {
	now := time.Now()
	return SavedFilter{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         name,
		FilterConfig: config,
		IsPublic:     isPublic,
		EntityType:   entityType,
		UseCount:     0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SavedFilterListFilter narrows saved-filter listings.
type SavedFilterListFilter struct {
	EntityType EntityType
	IsPublic   *bool
	NameSearch string
}
