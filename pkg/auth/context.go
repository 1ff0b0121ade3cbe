package auth

import (
	"context"

	pkgerrors "snaptales/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user_context"

// UserContext carries the authenticated principal through a request
type UserContext struct {
	AccountID string
	Email     string
	Token     string
}

// SetUserInContext attaches the authenticated principal to the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated principal from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, pkgerrors.NewUnauthorizedError("no authenticated principal in context")
	}
	return user, nil
}
