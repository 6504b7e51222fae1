package httpx

import (
	"net/http"
	"strings"

	"bookswap/internal/platform/crypto"
)

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's id and role in the request context.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missingBearerToken", nil)
				return
			}

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				key := "invalidToken"
				if crypto.IsExpired(err) {
					key = "tokenExpired"
				}
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", key, nil)
				return
			}

			ctx := ContextWithUser(r.Context(), claims.Sub, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFrom(r) != role {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "insufficientRole", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
