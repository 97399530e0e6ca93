package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/SeanZhang02/crm-api/internal/domain"
)

// listResponse is the envelope every collection endpoint returns.
type listResponse struct {
	Data   any `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// listOptionsFromRequest reads pagination and sorting from the query
// string. Values are clamped later by the repository layer.
func listOptionsFromRequest(r *http.Request) domain.ListOptions {
	q := r.URL.Query()
	opts := domain.ListOptions{
		SortField: q.Get("sort"),
		SortDir:   domain.SortDirection(q.Get("dir")),
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		opts.Offset = v
	}
	return opts.Clamp()
}

// filterSpecFromRequest reads an optional JSON-encoded filter spec from
// the `filters` query parameter. An absent parameter yields an empty spec;
// a malformed one is a caller error.
func filterSpecFromRequest(r *http.Request) (domain.FilterSpec, bool) {
	raw := r.URL.Query().Get("filters")
	if raw == "" {
		return domain.FilterSpec{}, true
	}
	var spec domain.FilterSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return domain.FilterSpec{}, false
	}
	return spec, true
}
