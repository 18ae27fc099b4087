package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireAdmin guards the admin routes with a shared bearer token.
// Missing credentials are 401, wrong credentials 403.
func requireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "missing credentials")
				return
			}

			provided, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" ||
				subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
