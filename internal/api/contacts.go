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

// ContactHandler serves CRUD plus filtered listing for contacts. List
// responses embed a company summary resolved through the request's
// batched loader.
type ContactHandler struct {
	repo repository.ContactRepository
}

func NewContactHandler(repo repository.ContactRepository) *ContactHandler {
	return &ContactHandler{repo: repo}
}

// Register mounts the handler's routes on mux.
func (h *ContactHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/contacts", h.list)
	mux.HandleFunc("POST /api/contacts", h.create)
	mux.HandleFunc("GET /api/contacts/{id}", h.get)
	mux.HandleFunc("PUT /api/contacts/{id}", h.update)
	mux.HandleFunc("DELETE /api/contacts/{id}", h.delete)
}

func (h *ContactHandler) list(w http.ResponseWriter, r *http.Request) {
	spec, ok := filterSpecFromRequest(r)
	if !ok {
		writeBadRequest(w, "malformed filters parameter")
		return
	}

	pred := filter.CompileSpec(domain.EntityTypeContacts, spec)
	opts := listOptionsFromRequest(r)

	contacts, total, err := h.repo.List(r.Context(), pred, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if loader := middleware.CompanyLoaderFromContext(r.Context()); loader != nil {
		ids := make([]uuid.UUID, 0, len(contacts))
		for _, contact := range contacts {
			if contact.CompanyID != nil {
				ids = append(ids, *contact.CompanyID)
			}
		}
		summaries, err := loader.Summaries(r.Context(), ids)
		if err != nil {
			writeError(w, err)
			return
		}
		for i := range contacts {
			if contacts[i].CompanyID != nil {
				contacts[i].Company = summaries[*contacts[i].CompanyID]
			}
		}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: contacts, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

func (h *ContactHandler) create(w http.ResponseWriter, r *http.Request) {
	var contact domain.Contact
	if err := decodeJSON(r, &contact); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if contact.FirstName == "" && contact.LastName == "" {
		writeBadRequest(w, "a first or last name is required")
		return
	}

	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	if ownerID, ok := auth.OwnerIDFromContext(r.Context()); ok {
		contact.OwnerID = ownerID
	}
	if contact.Status == "" {
		contact.Status = "active"
	}
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	created, err := h.repo.Create(r.Context(), contact)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ContactHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid contact id")
		return
	}

	contact, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid contact id")
		return
	}

	var contact domain.Contact
	if err := decodeJSON(r, &contact); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	contact.ID = id

	updated, err := h.repo.Update(r.Context(), contact)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ContactHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid contact id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}
