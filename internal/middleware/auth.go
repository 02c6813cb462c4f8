package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/lmeadows/billfold/internal/domain"
)

const (
	// UserIDHeader carries the authenticated owner's user id, set by the
	// fronting proxy after it has verified the session. The app trusts it.
	UserIDHeader = "X-User-ID"

	// UserIDContextKey is the context key for the authenticated user id
	UserIDContextKey contextKey = "user_id"
)

// RequireUser rejects requests that lack a valid user id header and puts
// the id into the request context for handlers.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			respondWithError(w, r, domain.Errorf(domain.EUNAUTHORIZED, "", "Authentication required"))
			return
		}
		if _, err := uuid.Parse(userID); err != nil {
			respondWithError(w, r, domain.Errorf(domain.EUNAUTHORIZED, "", "Invalid user identity"))
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID retrieves the authenticated user id from the context. Empty
// outside RequireUser-protected routes.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDContextKey).(string); ok {
		return id
	}
	return ""
}
