package export

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
)

// Handler exposes filtered export over HTTP.
type Handler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the handler's routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/export", h.export)
}

type exportPayload struct {
	EntityType domain.EntityType `json:"entity"`
	Filters    domain.FilterSpec `json:"filters"`
	Format     Format            `json:"format"`
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload exportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !payload.EntityType.IsValid() {
		http.Error(w, fmt.Sprintf("unknown entity type %q", payload.EntityType), http.StatusBadRequest)
		return
	}
	format := payload.Format
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatCSV {
		http.Error(w, fmt.Sprintf("unsupported export format %q", format), http.StatusBadRequest)
		return
	}

	pred := filter.CompileSpec(payload.EntityType, payload.Filters)

	filename := fmt.Sprintf("%s-%s.%s", payload.EntityType, time.Now().Format("20060102-150405"), format)
	if format == FormatCSV {
		w.Header().Set("Content-Type", "text/csv")
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	written, err := h.service.Export(r.Context(), w, payload.EntityType, pred, format)
	if err != nil {
		// Headers are already out; the best we can do is log and cut
		// the stream short.
		log.Printf("[EXPORT] %s export failed: %v", payload.EntityType, err)
		return
	}

	log.Printf("[EXPORT] wrote %d %s rows as %s", written, payload.EntityType, filename)
}
