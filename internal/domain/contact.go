package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents a person at a company.
type Contact struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"ownerId"`
	CompanyID    *uuid.UUID      `json:"companyId"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Title        string          `json:"title"`
	Status       string          `json:"status"`
	IsPrimary    bool            `json:"isPrimary"`
	CustomFields map[string]any  `json:"customFields,omitempty"`
	Company      *CompanySummary `json:"company,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NewContact creates a contact owned by the given user.
func NewContact(ownerID uuid.UUID, firstName, lastName string) Contact {
	now := time.Now()
	return Contact{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		FirstName: firstName,
		LastName:  lastName,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
