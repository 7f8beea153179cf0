package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/MrKriegler/insureflow/pkg/problem"
)

// publicPath reports whether path is served without credentials.
func publicPath(path string) bool {
	return strings.HasPrefix(path, "/health") ||
		strings.HasPrefix(path, "/readyz") ||
		strings.HasPrefix(path, "/metrics") ||
		strings.HasPrefix(path, "/swagger")
}

// SimpleAPIKey guards every non-public route with a shared X-API-Key.
// End-user identity is established separately by Identity.
func SimpleAPIKey(apiKey string) func(http.Handler) http.Handler {
	apiKeyBytes := []byte(apiKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Constant-time comparison to prevent timing attacks
			key := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(key), apiKeyBytes) != 1 {
				problem.New(problem.TypeUnauthorized, http.StatusUnauthorized, "Unauthorized",
					"Invalid or missing API key").Send(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
