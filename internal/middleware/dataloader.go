package middleware

import (
	"context"
	"net/http"

	"github.com/SeanZhang02/crm-api/internal/companyloader"
	"github.com/SeanZhang02/crm-api/internal/repository"
)

type ctxKey string

const companyLoaderKey ctxKey = "companyLoader"

// CompanyLoaderMiddleware attaches a per-request company loader to the
// request context so the same company is only fetched once per request.
func CompanyLoaderMiddleware(repo repository.CompanyRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := companyloader.NewCompanyLoader(repo)

			ctx := context.WithValue(r.Context(), companyLoaderKey, loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CompanyLoaderFromContext retrieves the company loader from context
func CompanyLoaderFromContext(ctx context.Context) *companyloader.CompanyLoader {
	if l, ok := ctx.Value(companyLoaderKey).(*companyloader.CompanyLoader); ok {
		return l
	}
	return nil
}
