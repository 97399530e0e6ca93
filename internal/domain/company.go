package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company represents an organization being sold to.
type Company struct {
	ID            uuid.UUID      `json:"id"`
	OwnerID       uuid.UUID      `json:"ownerId"`
	Name          string         `json:"name"`
	Industry      string         `json:"industry"`
	Website       string         `json:"website"`
	Phone         string         `json:"phone"`
	Email         string         `json:"email"`
	City          string         `json:"city"`
	Country       string         `json:"country"`
	Status        string         `json:"status"`
	AnnualRevenue *float64       `json:"annualRevenue"`
	EmployeeCount *int           `json:"employeeCount"`
	CustomFields  map[string]any `json:"customFields,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewCompany creates a company owned by the given user.
func NewCompany(ownerID uuid.UUID, name string) Company {
	now := time.Now()
	return Company{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CompanySummary is the shape embedded on related records in list views.
type CompanySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Summary returns the embeddable projection of the company.
func (c Company) Summary() CompanySummary {
	return CompanySummary{ID: c.ID, Name: c.Name}
}
