package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/jay6909/qkart-backend/internal/token"
)

type contextKey string

const (
	userContextKey      contextKey = "user"
	requestIDContextKey contextKey = "request_id"
)

// UserLoader resolves a verified token subject to a full user record.
type UserLoader interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuthMiddleware validates the bearer token and puts the resolved user in
// the request context. Handlers downstream always see a full User, never a
// token.
func AuthMiddleware(tokens *token.Service, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			subject, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "), token.TypeAccess)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}

			user, err := users.GetUserByEmail(r.Context(), subject)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "unknown user")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getUserFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(userContextKey).(*domain.User); ok {
		return user
	}
	return nil
}

// ContextWithUser is used by tests and by the auth middleware.
func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
