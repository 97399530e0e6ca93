package domain

import (
	"time"

	"github.com/google/uuid"
)

// PipelineStage is one ordered column of the deal pipeline.
type PipelineStage struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Position    int       `json:"position"`
	Probability float64   `json:"probability"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewPipelineStage creates a stage at the given position.
func NewPipelineStage(name string, position int) PipelineStage {
	now := time.Now()
	return PipelineStage{
		ID:        uuid.New(),
		Name:      name,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
