// Package auth connects requests to the remote auth provider (Firebase).
package auth

import (
	"context"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
)

type userKey struct{}

// Provider answers "who is signed in" for the current request.
type Provider interface {
	CurrentUser(ctx context.Context) (*models.AuthUser, bool)
}

func WithUser(ctx context.Context, user models.AuthUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func UserFromContext(ctx context.Context) (*models.AuthUser, bool) {
	user, ok := ctx.Value(userKey{}).(models.AuthUser)
	if !ok || user.UID == "" {
		return nil, false
	}
	return &user, true
}

// ContextProvider reports the user a verified bearer token placed in ctx.
type ContextProvider struct{}

func (ContextProvider) CurrentUser(ctx context.Context) (*models.AuthUser, bool) {
	return UserFromContext(ctx)
}
