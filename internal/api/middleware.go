// Package api implements the vibecard REST API using chi.
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// AuthMiddleware guards the API with a shared bearer token when enabled.
// Disabled mode lets every request through. The token protects the
// message-generation quota; cards themselves carry no identity.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="vibecard"`)
				writeJSON(w, http.StatusUnauthorized, errResponse{Error: "unauthorized", Code: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
