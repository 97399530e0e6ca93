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

// ActivityHandler serves CRUD plus filtered listing for activities.
type ActivityHandler struct {
	repo repository.ActivityRepository
}

func NewActivityHandler(repo repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// Register mounts the handler's routes on mux.
func (h *ActivityHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/activities", h.list)
	mux.HandleFunc("POST /api/activities", h.create)
	mux.HandleFunc("GET /api/activities/{id}", h.get)
	mux.HandleFunc("PUT /api/activities/{id}", h.update)
	mux.HandleFunc("DELETE /api/activities/{id}", h.delete)
}

func (h *ActivityHandler) list(w http.ResponseWriter, r *http.Request) {
	spec, ok := filterSpecFromRequest(r)
	if !ok {
		writeBadRequest(w, "malformed filters parameter")
		return
	}

	pred := filter.CompileSpec(domain.EntityTypeActivities, spec)
	opts := listOptionsFromRequest(r)

	activities, total, err := h.repo.List(r.Context(), pred, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Data: activities, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

func (h *ActivityHandler) create(w http.ResponseWriter, r *http.Request) {
	var activity domain.Activity
	if err := decodeJSON(r, &activity); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if activity.Type == "" || activity.Subject == "" {
		writeBadRequest(w, "type and subject are required")
		return
	}

	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	if ownerID, ok := auth.OwnerIDFromContext(r.Context()); ok {
		activity.OwnerID = ownerID
	}
	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	created, err := h.repo.Create(r.Context(), activity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ActivityHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid activity id")
		return
	}

	activity, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

func (h *ActivityHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid activity id")
		return
	}

	var activity domain.Activity
	if err := decodeJSON(r, &activity); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	activity.ID = id

	updated, err := h.repo.Update(r.Context(), activity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ActivityHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid activity id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}
