package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity represents a logged task, call, meeting, email or note against
// a company, contact or deal.
type Activity struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	CompanyID   *uuid.UUID `json:"companyId"`
	ContactID   *uuid.UUID `json:"contactId"`
	DealID      *uuid.UUID `json:"dealId"`
	Type        string     `json:"type"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewActivity creates an open activity owned by the given user.
func NewActivity(ownerID uuid.UUID, activityType, subject string) Activity {
	now := time.Now()
	return Activity{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Type:      activityType,
		Subject:   subject,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
