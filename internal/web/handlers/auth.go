package handlers

import (
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"

	"github.com/HeikonSilva/spotify-dashboard/internal/auth/session"
	"github.com/HeikonSilva/spotify-dashboard/internal/auth/store"
)

// LoginHandler starts the authorization flow: it stores a fresh PKCE
// verifier and hands the browser to Spotify's consent page.
func LoginHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, err := sess.AuthCodeURL()
		if err != nil {
			log.Printf("❌ Failed to start login flow: %v", err)
			http.Error(w, "Failed to start login", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	}
}

// CallbackHandler finishes the authorization flow. A provider error
// parameter is always surfaced; a successful exchange persists the token
// pair and redirects to the dashboard so the code never stays in a URL.
func CallbackHandler(sess *session.Session, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if errParam := q.Get("error"); errParam != "" {
			log.Printf("❌ Authorization denied by provider: %s", errParam)
			writeLoginError(w, fmt.Sprintf("Spotify denied the authorization request (%s).", errParam))
			return
		}

		code := q.Get("code")
		if code == "" {
			writeLoginError(w, "The callback carried neither a code nor an error.")
			return
		}

		tok, err := sess.Exchange(r.Context(), code)
		if err != nil {
			var xerr *session.ExchangeError
			switch {
			case errors.Is(err, session.ErrMissingVerifier):
				log.Printf("❌ Callback without a stored verifier")
				writeLoginError(w, "The login flow was interrupted. Please try again.")
			case errors.As(err, &xerr):
				log.Printf("❌ Code exchange rejected: %v", err)
				writeLoginError(w, "Spotify rejected the login. Please try again.")
			default:
				log.Printf("❌ Code exchange failed: %v", err)
				writeLoginError(w, "Login failed. Please try again.")
			}
			return
		}

		if err := st.SaveToken(tok.AccessToken, tok.RefreshToken, tok.ExpiresAt); err != nil {
			log.Printf("❌ Failed to persist token: %v", err)
			writeLoginError(w, "Login succeeded but could not be saved. Please try again.")
			return
		}
		if err := st.DeleteVerifier(); err != nil {
			log.Printf("⚠️ Failed to drop used verifier: %v", err)
		}

		log.Printf("✅ Signed in (token expires %s)", tok.ExpiresAt.Format("15:04:05"))
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// LogoutHandler clears the credential record.
func LogoutHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Clear(); err != nil {
			log.Printf("⚠️ Logout clear failed: %v", err)
			http.Error(w, "Logout failed", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func writeLoginError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Login Failed</title>
<style>
	body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; background: #1a1a2e; color: #eee; }
	.error { color: #f87171; }
	a { color: #1db954; }
</style>
</head>
<body>
	<h1 class="error">Login failed</h1>
	<p>%s</p>
	<p><a href="/login">Try again</a></p>
</body>
</html>`, html.EscapeString(msg))
}
