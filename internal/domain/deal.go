package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deal represents an opportunity moving through the pipeline.
type Deal struct {
	ID                uuid.UUID       `json:"id"`
	OwnerID           uuid.UUID       `json:"ownerId"`
	CompanyID         *uuid.UUID      `json:"companyId"`
	ContactID         *uuid.UUID      `json:"contactId"`
	StageID           *uuid.UUID      `json:"stageId"`
	Title             string          `json:"title"`
	Value             *float64        `json:"value"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	ExpectedCloseDate *time.Time      `json:"expectedCloseDate"`
	ClosedAt          *time.Time      `json:"closedAt"`
	Company           *CompanySummary `json:"company,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// NewDeal creates an open deal owned by the given user.
func NewDeal(ownerID uuid.UUID, title string) Deal {
	now := time.Now()
	return Deal{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Currency:  "USD",
		Status:    "open",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
