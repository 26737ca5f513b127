package internal

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/lmordell/parley/internal/auth"
)

// Middleware validates the client's bearer token and binds the authenticated
// username into the request context.
func Middleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"missing credentials"}`))
				return
			}

			username, err := auth.ValidateJWT(token, jwtSecret)
			if err != nil {
				log.Printf("middleware: %v", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid or expired token"}`))
				return
			}

			r = r.WithContext(context.WithValue(r.Context(), auth.UsernameKey, username))
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken pulls the credential from the Authorization header, falling
// back to the token query parameter used by websocket clients.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}

	return r.URL.Query().Get("token")
}
