package companyloader

import (
	"context"
	"fmt"
	"time"

	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/repository"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"
)

// CompanyLoader batches company summary lookups so hydrating a page of
// contacts or deals costs one query instead of one per row.
type CompanyLoader struct {
	Loader *dataloader.Loader
}

func NewCompanyLoader(repo repository.CompanyRepository) *CompanyLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		// Convert keys to []uuid.UUID
		ids := make([]uuid.UUID, len(keys))
		for i, k := range keys {
			id, err := uuid.Parse(k.String())
			if err != nil {
				return []*dataloader.Result{{Error: fmt.Errorf("invalid UUID: %w", err)}}
			}
			ids[i] = id
		}

		// Fetch summaries in batch
		summaries, err := repo.GetSummaries(ctx, ids)
		if err != nil {
			results := make([]*dataloader.Result, len(keys))
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		// Map UUID -> summary for ordering
		summaryMap := make(map[uuid.UUID]domain.CompanySummary)
		for _, s := range summaries {
			summaryMap[s.ID] = s
		}

		// Build results in the same order as keys
		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			if s, ok := summaryMap[id]; ok {
				results[i] = &dataloader.Result{Data: s}
			} else {
				results[i] = &dataloader.Result{Data: nil}
			}
		}

		return results
	}

	loader := dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(5*time.Millisecond))

	return &CompanyLoader{Loader: loader}
}

// Summaries resolves a set of company ids in one batch. All loads are
// queued before the first thunk blocks, so a page of rows costs a single
// query. Missing companies are absent from the result rather than errors.
func (l *CompanyLoader) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.CompanySummary, error) {
	thunks := make(map[uuid.UUID]dataloader.Thunk, len(ids))
	for _, id := range ids {
		if _, ok := thunks[id]; ok {
			continue
		}
		thunks[id] = l.Loader.Load(ctx, dataloader.StringKey(id.String()))
	}

	summaries := make(map[uuid.UUID]*domain.CompanySummary, len(thunks))
	for id, thunk := range thunks {
		data, err := thunk()
		if err != nil {
			return nil, err
		}
		if summary, ok := data.(domain.CompanySummary); ok {
			summaries[id] = &summary
		}
	}
	return summaries, nil
}
