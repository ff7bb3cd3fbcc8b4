package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth guards a handler with a static bearer token. The compare is
// constant-time so the token cannot be probed byte by byte.
func BearerAuth(accessToken string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			WriteUnauthorized(w, "Missing Authorization header", r.URL.Path)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			WriteUnauthorized(w, "Invalid Authorization header. Expected: Bearer <token>", r.URL.Path)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(accessToken)) != 1 {
			WriteUnauthorized(w, "Invalid authentication credentials", r.URL.Path)
			return
		}

		next.ServeHTTP(w, r)
	})
}
