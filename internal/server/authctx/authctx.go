package authctx

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser is the authenticated caller of a request.
type CurrentUser struct {
	ID    uuid.UUID
	Email string
	Role  domain.UserRole
}

// HasRole reports whether the user holds one of roles.
func (u CurrentUser) HasRole(roles ...domain.UserRole) bool {
	return slices.Contains(roles, u.Role)
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(userContextKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
