package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"pokedex-api/service"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID extracts the authenticated user id from a request handled
// behind RequireAuth
func UserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(userIDKey).(int64)
	return userID, ok
}

// WithUserID returns a context carrying the authenticated user id, as
// RequireAuth would set it
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireAuth validates the bearer token on every request and resolves it
// to a user id in the request context. Paths in publicPaths skip the
// check (exact match).
func RequireAuth(auth *service.AuthService, publicPaths []string) func(http.Handler) http.Handler {
	public := make(map[string]bool, len(publicPaths))
	for _, path := range publicPaths {
		public[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token := extractBearerToken(r)
			if token == "" {
				unauthorized(w, "Missing bearer token")
				return
			}

			userID, err := auth.VerifyToken(token)
			if err != nil {
				log.Printf("🔒 Rejected token for %s %s: %v", r.Method, r.URL.Path, err)
				unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// extractBearerToken pulls the token out of the Authorization header
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"` + message + `"}`))
}
