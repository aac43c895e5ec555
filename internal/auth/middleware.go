package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/uniflow-app/uniflow-api/internal/domain"
	"go.uber.org/zap"
)

// UserLoader resolves a user record by email. Implemented by the user
// repository; declared here to keep the dependency pointing inward.
type UserLoader interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	users  UserLoader
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, users UserLoader, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Authenticate is the main authentication middleware. It validates the
// bearer token and loads the current user row, so role and organization
// changes take effect on the next request rather than at token refresh.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		email, err := m.tokens.Validate(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		user, err := m.users.GetByEmail(r.Context(), email)
		if err != nil {
			m.logger.Warn("authenticated user not found",
				zap.String("path", r.URL.Path),
				zap.String("email", email),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: unknown user", http.StatusUnauthorized)
			return
		}

		userCtx := &UserContext{
			UserID:          user.ID,
			Email:           user.Email,
			Name:            user.Name,
			Role:            user.Role,
			OrganizationNIF: user.OrganizationNIF,
			Department:      user.Department,
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("user_email", userCtx.Email),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole middleware ensures user has one of the specified roles
func (m *Middleware) RequireRole(roles ...domain.UserRoleType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: no user context", http.StatusForbidden)
				return
			}

			if !userCtx.HasAnyRole(roles...) {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
