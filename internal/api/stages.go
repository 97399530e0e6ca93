package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/repository"
)

// StageHandler serves CRUD and reordering for pipeline stages.
type StageHandler struct {
	repo repository.PipelineStageRepository
}

func NewStageHandler(repo repository.PipelineStageRepository) *StageHandler {
	return &StageHandler{repo: repo}
}

// Register mounts the handler's routes on mux.
func (h *StageHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stages", h.list)
	mux.HandleFunc("POST /api/stages", h.create)
	mux.HandleFunc("PUT /api/stages/reorder", h.reorder)
	mux.HandleFunc("GET /api/stages/{id}", h.get)
	mux.HandleFunc("PUT /api/stages/{id}", h.update)
	mux.HandleFunc("DELETE /api/stages/{id}", h.delete)
}

func (h *StageHandler) list(w http.ResponseWriter, r *http.Request) {
	stages, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": stages})
}

func (h *StageHandler) create(w http.ResponseWriter, r *http.Request) {
	var stage domain.PipelineStage
	if err := decodeJSON(r, &stage); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if stage.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	if stage.ID == uuid.Nil {
		stage.ID = uuid.New()
	}
	now := time.Now()
	stage.CreatedAt = now
	stage.UpdatedAt = now

	created, err := h.repo.Create(r.Context(), stage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

type reorderPayload struct {
	StageIDs []uuid.UUID `json:"stageIds"`
}

func (h *StageHandler) reorder(w http.ResponseWriter, r *http.Request) {
	var payload reorderPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(payload.StageIDs) == 0 {
		writeBadRequest(w, "stageIds is required")
		return
	}

	if err := h.repo.Reorder(r.Context(), payload.StageIDs); err != nil {
		writeError(w, err)
		return
	}

	stages, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": stages})
}

func (h *StageHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid stage id")
		return
	}

	stage, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stage)
}

func (h *StageHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid stage id")
		return
	}

	var stage domain.PipelineStage
	if err := decodeJSON(r, &stage); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	stage.ID = id

	updated, err := h.repo.Update(r.Context(), stage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *StageHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid stage id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}
