package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
)

// fakeQueryRepo records the predicate and limit it was asked for and
// returns canned rows.
type fakeQueryRepo struct {
	count       int64
	rows        []map[string]any
	lastPred    filter.Predicate
	sampleLimit int
}

func (f *fakeQueryRepo) Count(_ context.Context, _ domain.EntityType, pred filter.Predicate) (int64, error) {
	f.lastPred = pred
	return f.count, nil
}

func (f *fakeQueryRepo) Sample(_ context.Context, _ domain.EntityType, pred filter.Predicate, limit int) ([]map[string]any, error) {
	f.sampleLimit = limit
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func (f *fakeQueryRepo) Page(_ context.Context, _ domain.EntityType, _ filter.Predicate, limit, offset int) ([]map[string]any, error) {
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], nil
}

func newPreviewServer(repo *fakeQueryRepo) *http.ServeMux {
	mux := http.NewServeMux()
	NewPreviewHandler(repo).Register(mux)
	return mux
}

func TestPreviewReturnsCountAndSample(t *testing.T) {
	repo := &fakeQueryRepo{
		count: 42,
		rows: []map[string]any{
			{"id": "a", "name": "Acme"},
			{"id": "b", "name": "Beta"},
		},
	}
	mux := newPreviewServer(repo)

	body := `{"entity":"companies","filters":{"groups":[{"conditions":[{"field":"status","operator":"equals","value":"active"}]}]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/filters/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Count  int64            `json:"count"`
		Sample []map[string]any `json:"sample"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 42 {
		t.Fatalf("expected count 42, got %d", resp.Count)
	}
	if len(resp.Sample) != 2 {
		t.Fatalf("expected 2 sample rows, got %d", len(resp.Sample))
	}
	if repo.lastPred.Where != "companies.status = $1" {
		t.Fatalf("unexpected predicate: %q", repo.lastPred.Where)
	}
}

func TestPreviewSampleCappedAtTen(t *testing.T) {
	repo := &fakeQueryRepo{rows: make([]map[string]any, 25)}
	for i := range repo.rows {
		repo.rows[i] = map[string]any{"id": i}
	}
	mux := newPreviewServer(repo)

	body := `{"entity":"contacts","filters":{"groups":[]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/filters/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if repo.sampleLimit != 10 {
		t.Fatalf("expected sample limit 10, got %d", repo.sampleLimit)
	}
}

func TestPreviewEmptySample(t *testing.T) {
	mux := newPreviewServer(&fakeQueryRepo{})

	body := `{"entity":"deals","filters":{"groups":[]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/filters/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"sample":[]`) {
		t.Fatalf("expected empty sample array, got %s", rec.Body.String())
	}
}

func TestPreviewRejectsBadInput(t *testing.T) {
	mux := newPreviewServer(&fakeQueryRepo{})

	cases := []struct {
		name string
		body string
	}{
		{"unknown entity", `{"entity":"widgets","filters":{"groups":[]}}`},
		{"bad json", `{"entity":`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/filters/preview", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}
