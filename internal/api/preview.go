package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
	"github.com/SeanZhang02/crm-api/internal/repository"
)

// sampleLimit caps the preview's example rows.
const sampleLimit = 10

// PreviewHandler compiles a filter spec and answers with the match count
// and a small sample, without persisting anything.
type PreviewHandler struct {
	queries repository.EntityQueryRepository
}

func NewPreviewHandler(queries repository.EntityQueryRepository) *PreviewHandler {
	return &PreviewHandler{queries: queries}
}

// Register mounts the handler's routes on mux.
func (h *PreviewHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/filters/preview", h.preview)
}

type previewPayload struct {
	EntityType domain.EntityType `json:"entity"`
	Filters    domain.FilterSpec `json:"filters"`
}

type previewResponse struct {
	Count  int64            `json:"count"`
	Sample []map[string]any `json:"sample"`
}

func (h *PreviewHandler) preview(w http.ResponseWriter, r *http.Request) {
	var payload previewPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if !payload.EntityType.IsValid() {
		writeBadRequest(w, fmt.Sprintf("unknown entity type %q", payload.EntityType))
		return
	}

	pred := filter.CompileSpec(payload.EntityType, payload.Filters)

	// Count and sample hit different indexes, so run them in parallel
	// and wait for both.
	var (
		wg        sync.WaitGroup
		count     int64
		sample    []map[string]any
		countErr  error
		sampleErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		count, countErr = h.queries.Count(r.Context(), payload.EntityType, pred)
	}()
	go func() {
		defer wg.Done()
		sample, sampleErr = h.queries.Sample(r.Context(), payload.EntityType, pred, sampleLimit)
	}()
	wg.Wait()

	if countErr != nil {
		writeError(w, countErr)
		return
	}
	if sampleErr != nil {
		writeError(w, sampleErr)
		return
	}
	if sample == nil {
		sample = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, previewResponse{Count: count, Sample: sample})
}
