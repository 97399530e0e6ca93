package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/SeanZhang02/crm-api/internal/auth"
	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
	"github.com/SeanZhang02/crm-api/internal/repository"
)

// CompanyHandler serves CRUD plus filtered listing for companies.
type CompanyHandler struct {
	repo repository.CompanyRepository
}

func NewCompanyHandler(repo repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{repo: repo}
}

// Register mounts the handler's routes on mux.
func (h *CompanyHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/companies", h.list)
	mux.HandleFunc("POST /api/companies", h.create)
	mux.HandleFunc("GET /api/companies/{id}", h.get)
	mux.HandleFunc("PUT /api/companies/{id}", h.update)
	mux.HandleFunc("DELETE /api/companies/{id}", h.delete)
}

func (h *CompanyHandler) list(w http.ResponseWriter, r *http.Request) {
	spec, ok := filterSpecFromRequest(r)
	if !ok {
		writeBadRequest(w, "malformed filters parameter")
		return
	}

	pred := filter.CompileSpec(domain.EntityTypeCompanies, spec)
	opts := listOptionsFromRequest(r)

	companies, total, err := h.repo.List(r.Context(), pred, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Data: companies, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

func (h *CompanyHandler) create(w http.ResponseWriter, r *http.Request) {
	var company domain.Company
	if err := decodeJSON(r, &company); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if company.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	if ownerID, ok := auth.OwnerIDFromContext(r.Context()); ok {
		company.OwnerID = ownerID
	}
	if company.Status == "" {
		company.Status = "active"
	}
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	created, err := h.repo.Create(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *CompanyHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid company id")
		return
	}

	company, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid company id")
		return
	}

	var company domain.Company
	if err := decodeJSON(r, &company); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	company.ID = id

	updated, err := h.repo.Update(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *CompanyHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid company id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}
