package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/SeanZhang02/crm-api/internal/auth"
	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/repository"
)

// SavedFilterHandler serves the saved filter library.
type SavedFilterHandler struct {
	repo repository.SavedFilterRepository
}

func NewSavedFilterHandler(repo repository.SavedFilterRepository) *SavedFilterHandler {
	return &SavedFilterHandler{repo: repo}
}

// Register mounts the handler's routes on mux.
func (h *SavedFilterHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/filters", h.list)
	mux.HandleFunc("POST /api/filters", h.create)
	mux.HandleFunc("GET /api/filters/{id}", h.get)
	mux.HandleFunc("PUT /api/filters/{id}", h.update)
	mux.HandleFunc("DELETE /api/filters/{id}", h.delete)
}

type savedFilterPayload struct {
	Name       string            `json:"name"`
	EntityType domain.EntityType `json:"entity"`
	Filters    domain.FilterSpec `json:"filters"`
	IsPublic   bool              `json:"isPublic"`
}

func (h *SavedFilterHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload savedFilterPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if payload.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	if !payload.EntityType.IsValid() {
		writeBadRequest(w, fmt.Sprintf("unknown entity type %q", payload.EntityType))
		return
	}

	ownerID, _ := auth.OwnerIDFromContext(r.Context())
	sf := domain.NewSavedFilter(ownerID, payload.Name, payload.EntityType, payload.Filters, payload.IsPublic)

	created, err := h.repo.Create(r.Context(), sf)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *SavedFilterHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	listFilter := domain.SavedFilterListFilter{
		EntityType: domain.EntityType(q.Get("entity")),
		NameSearch: q.Get("q"),
	}
	if listFilter.EntityType != "" && !listFilter.EntityType.IsValid() {
		writeBadRequest(w, fmt.Sprintf("unknown entity type %q", listFilter.EntityType))
		return
	}
	switch q.Get("public") {
	case "true":
		isPublic := true
		listFilter.IsPublic = &isPublic
	case "false":
		isPublic := false
		listFilter.IsPublic = &isPublic
	}

	filters, err := h.repo.List(r.Context(), listFilter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": filters})
}

func (h *SavedFilterHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid filter id")
		return
	}

	sf, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sf)
}

func (h *SavedFilterHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid filter id")
		return
	}

	var payload savedFilterPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if payload.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	sf := domain.SavedFilter{
		ID:           id,
		Name:         payload.Name,
		FilterConfig: payload.Filters,
		IsPublic:     payload.IsPublic,
	}

	updated, err := h.repo.Update(r.Context(), sf)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *SavedFilterHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid filter id")
		return
	}

	deletedID, name, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": deletedID.String(), "name": name})
}
