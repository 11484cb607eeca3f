package auth

import (
	"context"

	pkgerrors "insightmap-backend/pkg/errors"
)

// UserContext carries the authenticated identity through a request
type UserContext struct {
	UserID string
	Name   string
	Email  string
	Avatar string
	Roles  []string
}

type contextKey string

const userContextKey contextKey = "user_context"

// SetUserInContext stores the user context on the request context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user from the context.
// Every mutation and most queries require this to succeed; a missing
// identity is an Unauthenticated rejection, not a fallback.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil || user.UserID == "" {
		return nil, pkgerrors.NewUnauthorizedError("not authenticated")
	}
	return user, nil
}
