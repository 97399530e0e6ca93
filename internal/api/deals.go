package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/SeanZhang02/crm-api/internal/auth"
	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
	"github.com/SeanZhang02/crm-api/internal/middleware"
	"github.com/SeanZhang02/crm-api/internal/repository"
)

// DealHandler serves CRUD plus filtered listing for deals.
type DealHandler struct {
	repo repository.DealRepository
}

func NewDealHandler(repo repository.DealRepository) *DealHandler {
	return &DealHandler{repo: repo}
}

// Register mounts the handler's routes on mux.
func (h *DealHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/deals", h.list)
	mux.HandleFunc("POST /api/deals", h.create)
	mux.HandleFunc("GET /api/deals/{id}", h.get)
	mux.HandleFunc("PUT /api/deals/{id}", h.update)
	mux.HandleFunc("DELETE /api/deals/{id}", h.delete)
}

func (h *DealHandler) list(w http.ResponseWriter, r *http.Request) {
	spec, ok := filterSpecFromRequest(r)
	if !ok {
		writeBadRequest(w, "malformed filters parameter")
		return
	}

	pred := filter.CompileSpec(domain.EntityTypeDeals, spec)
	opts := listOptionsFromRequest(r)

	deals, total, err := h.repo.List(r.Context(), pred, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if loader := middleware.CompanyLoaderFromContext(r.Context()); loader != nil {
		ids := make([]uuid.UUID, 0, len(deals))
		for _, deal := range deals {
			if deal.CompanyID != nil {
				ids = append(ids, *deal.CompanyID)
			}
		}
		summaries, err := loader.Summaries(r.Context(), ids)
		if err != nil {
			writeError(w, err)
			return
		}
		for i := range deals {
			if deals[i].CompanyID != nil {
				deals[i].Company = summaries[*deals[i].CompanyID]
			}
		}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: deals, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

func (h *DealHandler) create(w http.ResponseWriter, r *http.Request) {
	var deal domain.Deal
	if err := decodeJSON(r, &deal); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if deal.Title == "" {
		writeBadRequest(w, "title is required")
		return
	}

	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	if ownerID, ok := auth.OwnerIDFromContext(r.Context()); ok {
		deal.OwnerID = ownerID
	}
	if deal.Currency == "" {
		deal.Currency = "USD"
	}
	if deal.Status == "" {
		deal.Status = "open"
	}
	now := time.Now()
	deal.CreatedAt = now
	deal.UpdatedAt = now

	created, err := h.repo.Create(r.Context(), deal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *DealHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid deal id")
		return
	}

	deal, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deal)
}

func (h *DealHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid deal id")
		return
	}

	var deal domain.Deal
	if err := decodeJSON(r, &deal); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	deal.ID = id

	updated, err := h.repo.Update(r.Context(), deal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *DealHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid deal id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}
