package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniflow-app/uniflow-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID          uuid.UUID
	Email           string
	Name            string
	Role            domain.UserRoleType
	OrganizationNIF string
	Department      string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// IsOwner checks if user owns their organization
func (u *UserContext) IsOwner() bool {
	return u.Role == domain.RoleOwner
}

// CanManageMembers checks if user may manage organization membership
func (u *UserContext) CanManageMembers() bool {
	return u.HasAnyRole(domain.RoleOwner, domain.RoleAdmin)
}
