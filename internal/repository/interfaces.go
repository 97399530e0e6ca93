package repository

import (
	"context"

	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"

	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company operations
type CompanyRepository interface {
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error)
	GetSummaries(ctx context.Context, ids []uuid.UUID) ([]domain.CompanySummary, error)
	List(ctx context.Context, pred filter.Predicate, opts domain.ListOptions) ([]domain.Company, int, error)
	Update(ctx context.Context, company domain.Company) (domain.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRepository defines the interface for contact operations
type ContactRepository interface {
	Create(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Contact, error)
	List(ctx context.Context, pred filter.Predicate, opts domain.ListOptions) ([]domain.Contact, int, error)
	Update(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DealRepository defines the interface for deal operations
type DealRepository interface {
	Create(ctx context.Context, deal domain.Deal) (domain.Deal, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Deal, error)
	List(ctx context.Context, pred filter.Predicate, opts domain.ListOptions) ([]domain.Deal, int, error)
	Update(ctx context.Context, deal domain.Deal) (domain.Deal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityRepository defines the interface for activity operations
type ActivityRepository interface {
	Create(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	List(ctx context.Context, pred filter.Predicate, opts domain.ListOptions) ([]domain.Activity, int, error)
	Update(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PipelineStageRepository defines the interface for pipeline stage operations
type PipelineStageRepository interface {
	Create(ctx context.Context, stage domain.PipelineStage) (domain.PipelineStage, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.PipelineStage, error)
	List(ctx context.Context) ([]domain.PipelineStage, error)
	Update(ctx context.Context, stage domain.PipelineStage) (domain.PipelineStage, error)
	Reorder(ctx context.Context, orderedIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SavedFilterRepository persists named filter specs. GetByID increments
// the filter's use count as a side effect of the read.
type SavedFilterRepository interface {
	Create(ctx context.Context, sf domain.SavedFilter) (domain.SavedFilter, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.SavedFilter, error)
	List(ctx context.Context, listFilter domain.SavedFilterListFilter) ([]domain.SavedFilter, error)
	Update(ctx context.Context, sf domain.SavedFilter) (domain.SavedFilter, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, string, error)
}

// EntityQueryRepository executes compiled predicates against an entity
// collection, for preview counts/samples and export pagination.
type EntityQueryRepository interface {
	Count(ctx context.Context, entityType domain.EntityType, pred filter.Predicate) (int64, error)
	Sample(ctx context.Context, entityType domain.EntityType, pred filter.Predicate, limit int) ([]map[string]any, error)
	Page(ctx context.Context, entityType domain.EntityType, pred filter.Predicate, limit, offset int) ([]map[string]any, error)
}
