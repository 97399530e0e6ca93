package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
)

// fakeCompanyRepo captures the predicate handed to List and serves a
// fixed company set.
type fakeCompanyRepo struct {
	companies      []domain.Company
	lastPred       filter.Predicate
	lastOpts       domain.ListOptions
	summariesCalls int
	lastSummaryIDs []uuid.UUID
}

func (f *fakeCompanyRepo) Create(_ context.Context, company domain.Company) (domain.Company, error) {
	f.companies = append(f.companies, company)
	return company, nil
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Company, error) {
	for _, c := range f.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Company{}, domain.ErrNotFound
}

func (f *fakeCompanyRepo) GetSummaries(_ context.Context, ids []uuid.UUID) ([]domain.CompanySummary, error) {
	f.summariesCalls++
	f.lastSummaryIDs = ids
	var out []domain.CompanySummary
	for _, c := range f.companies {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c.Summary())
			}
		}
	}
	return out, nil
}

func (f *fakeCompanyRepo) List(_ context.Context, pred filter.Predicate, opts domain.ListOptions) ([]domain.Company, int, error) {
	f.lastPred = pred
	f.lastOpts = opts
	return f.companies, len(f.companies), nil
}

func (f *fakeCompanyRepo) Update(_ context.Context, company domain.Company) (domain.Company, error) {
	for i, c := range f.companies {
		if c.ID == company.ID {
			f.companies[i] = company
			return company, nil
		}
	}
	return domain.Company{}, domain.ErrNotFound
}

func (f *fakeCompanyRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, c := range f.companies {
		if c.ID == id {
			f.companies = append(f.companies[:i], f.companies[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func newCompanyServer(repo *fakeCompanyRepo) *http.ServeMux {
	mux := http.NewServeMux()
	NewCompanyHandler(repo).Register(mux)
	return mux
}

func TestCompanyListCompilesFilters(t *testing.T) {
	repo := &fakeCompanyRepo{companies: []domain.Company{domain.NewCompany(uuid.New(), "Acme")}}
	mux := newCompanyServer(repo)

	spec := `{"groups":[{"conditions":[{"field":"name","operator":"contains","value":"acme"}]}]}`
	req := httptest.NewRequest(http.MethodGet, "/api/companies?filters="+url.QueryEscape(spec)+"&limit=5", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.lastPred.Where != "companies.name ILIKE $1" {
		t.Fatalf("unexpected predicate: %q", repo.lastPred.Where)
	}
	if repo.lastOpts.Limit != 5 {
		t.Fatalf("expected limit 5, got %d", repo.lastOpts.Limit)
	}

	var resp struct {
		Data  []domain.Company `json:"data"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("unexpected list envelope: total=%d len=%d", resp.Total, len(resp.Data))
	}
}

func TestCompanyListMalformedFilters(t *testing.T) {
	mux := newCompanyServer(&fakeCompanyRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/companies?filters="+url.QueryEscape(`{"groups":`), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompanyCreateAssignsIdentity(t *testing.T) {
	repo := &fakeCompanyRepo{}
	mux := newCompanyServer(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/companies", strings.NewReader(`{"name":"Globex"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.Company
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("expected assigned id")
	}
	if created.Status != "active" {
		t.Fatalf("expected default status active, got %q", created.Status)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be stamped")
	}
}

func TestCompanyCreateRequiresName(t *testing.T) {
	mux := newCompanyServer(&fakeCompanyRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/companies", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompanyGetNotFound(t *testing.T) {
	mux := newCompanyServer(&fakeCompanyRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/companies/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
