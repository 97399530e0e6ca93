package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/SeanZhang02/crm-api/internal/auth"
)

// OwnerMiddleware resolves the calling user from the X-Owner-ID header
// and stores it in the request context. Requests without a parseable id
// fall back to the configured default owner, which keeps single-user
// deployments working without an auth layer in front.
func OwnerMiddleware(defaultOwner uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID := defaultOwner
			if header := r.Header.Get("X-Owner-ID"); header != "" {
				if parsed, err := uuid.Parse(header); err == nil {
					ownerID = parsed
				}
			}

			ctx := auth.ContextWithOwnerID(r.Context(), ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
