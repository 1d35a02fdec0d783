// Package middleware holds the dashboard's HTTP middleware.
package middleware

import (
	"net/http"

	"github.com/HeikonSilva/spotify-dashboard/internal/auth/session"
)

// RequireSession rejects API requests while the dashboard is logged out.
// It checks for stored credentials only and never triggers a refresh; an
// expired-but-refreshable token still passes and is refreshed by the
// active-token accessor inside the handler.
func RequireSession(sess *session.Session) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sess.HasCredentials() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "not authenticated"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
