package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/HeikonSilva/spotify-dashboard/internal/auth/session"
	"github.com/HeikonSilva/spotify-dashboard/internal/auth/store"
	"github.com/HeikonSilva/spotify-dashboard/internal/config"
	"github.com/HeikonSilva/spotify-dashboard/internal/db/models"
)

var testDBSeq atomic.Int64

func newTestEnv(t *testing.T, tokenURL string) (*session.Session, *store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Credential{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	st := store.New(db)
	cfg := &config.Config{
		ClientID:          "client-123",
		RedirectURI:       "http://127.0.0.1:8080/callback",
		Scopes:            []string{"user-top-read"},
		AuthorizeEndpoint: "https://accounts.example.com/authorize",
		TokenEndpoint:     tokenURL,
	}
	return session.New(cfg, st), st
}

func TestLoginRedirectsToProvider(t *testing.T) {
	sess, st := newTestEnv(t, "https://accounts.example.com/api/token")

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	LoginHandler(sess)(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://accounts.example.com/authorize?") {
		t.Errorf("Location = %q", loc)
	}
	if !strings.Contains(loc, "code_challenge_method=S256") {
		t.Errorf("authorize URL missing PKCE challenge: %q", loc)
	}

	// The verifier must be durably stored before the redirect goes out.
	v, err := st.LoadVerifier()
	if err != nil {
		t.Fatalf("LoadVerifier: %v", err)
	}
	if v == "" {
		t.Error("no verifier stored at redirect time")
	}
}

func TestCallbackExchangesAndPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if got := r.PostForm.Get("code"); got != "good-code" {
			t.Errorf("code = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-abc",
			"refresh_token": "refresh-xyz",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	defer srv.Close()

	sess, st := newTestEnv(t, srv.URL)
	if err := st.SaveVerifier("stored-verifier"); err != nil {
		t.Fatalf("SaveVerifier: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/callback?code=good-code", nil)
	rec := httptest.NewRecorder()
	CallbackHandler(sess, st)(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}

	cred, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cred.AccessToken != "access-abc" || cred.RefreshToken != "refresh-xyz" {
		t.Errorf("persisted credential = %+v", cred)
	}
	want := time.Now().Add(3600 * time.Second)
	if cred.ExpiresAt.Before(want.Add(-time.Minute)) || cred.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want ≈ %v", cred.ExpiresAt, want)
	}

	// The used verifier is consumed.
	if v, _ := st.LoadVerifier(); v != "" {
		t.Errorf("verifier %q survived the exchange", v)
	}
}

func TestCallbackSurfacesProviderError(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	sess, st := newTestEnv(t, srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()
	CallbackHandler(sess, st)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "access_denied") {
		t.Error("provider error not surfaced in the response")
	}
	if hits.Load() != 0 {
		t.Errorf("token endpoint called %d times on an error callback", hits.Load())
	}
}

func TestCallbackWithoutCode(t *testing.T) {
	sess, st := newTestEnv(t, "https://accounts.example.com/api/token")

	req := httptest.NewRequest(http.MethodGet, "/callback", nil)
	rec := httptest.NewRecorder()
	CallbackHandler(sess, st)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCallbackWithoutVerifier(t *testing.T) {
	sess, st := newTestEnv(t, "https://accounts.example.com/api/token")

	req := httptest.NewRequest(http.MethodGet, "/callback?code=orphan-code", nil)
	rec := httptest.NewRecorder()
	CallbackHandler(sess, st)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Try again") {
		t.Error("response has no retry affordance")
	}
}

func TestStatusHandler(t *testing.T) {
	sess, st := newTestEnv(t, "https://accounts.example.com/api/token")

	check := func(want bool) {
		t.Helper()
		rec := httptest.NewRecorder()
		StatusHandler(sess)(rec, httptest.NewRequest(http.MethodGet, "/api/auth/status", nil))
		var body map[string]bool
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["authenticated"] != want {
			t.Errorf("authenticated = %v, want %v", body["authenticated"], want)
		}
	}

	check(false)
	if err := st.SaveToken("tok", "ref", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	check(true)
}

func TestLogoutClearsSession(t *testing.T) {
	_, st := newTestEnv(t, "https://accounts.example.com/api/token")
	if err := st.SaveToken("tok", "ref", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	LogoutHandler(st)(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d", rec.Code)
	}
	cred, _ := st.Load()
	if cred.AccessToken != "" {
		t.Error("logout left the access token behind")
	}
}
