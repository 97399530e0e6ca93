package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type contextKey string

const ownerIDKey contextKey = "ownerID"

// ContextWithOwnerID returns a new context that carries the authenticated
// caller's owner id.
func ContextWithOwnerID(ctx context.Context, id uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ownerIDKey, id)
}

// OwnerIDFromContext retrieves the authenticated owner id, if any.
func OwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	value := ctx.Value(ownerIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequireOwnerID returns the authenticated owner id or an error when the
// request was not authenticated upstream.
func RequireOwnerID(ctx context.Context) (uuid.UUID, error) {
	id, ok := OwnerIDFromContext(ctx)
	if !ok {
		return uuid.Nil, fmt.Errorf("no authenticated owner in request context")
	}
	return id, nil
}
