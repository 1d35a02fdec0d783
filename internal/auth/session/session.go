// Package session owns the Spotify token lifecycle: starting the PKCE
// authorization flow, exchanging the callback code, refreshing expired
// tokens, and answering whether the dashboard is currently signed in.
package session

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/HeikonSilva/spotify-dashboard/internal/auth/pkce"
	"github.com/HeikonSilva/spotify-dashboard/internal/auth/store"
	"github.com/HeikonSilva/spotify-dashboard/internal/config"
)

// DefaultStatusTTL is how long an IsAuthenticated answer is reused before
// the stored expiry is consulted again.
const DefaultStatusTTL = 5 * time.Second

// tokenHTTPTimeout bounds the exchange and refresh calls. A hung token
// endpoint is treated like any other refresh failure.
const tokenHTTPTimeout = 10 * time.Second

// TokenResponse is the parsed token payload from a successful exchange.
// Persisting it is the caller's job, which keeps exchange and persistence
// separately testable.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string // empty when the provider issued none
	TokenType    string
	Scope        string
	ExpiresAt    time.Time // derived from expires_in at receipt
}

type refreshCall struct {
	done chan struct{}
	ok   bool
}

// Session is the process-wide token lifecycle manager. All methods are
// safe for concurrent use; concurrent refreshes coalesce into one call to
// the token endpoint.
type Session struct {
	cfg    *config.Config
	store  *store.Store
	oauth  *oauth2.Config
	client *http.Client

	now       func() time.Time
	statusTTL time.Duration

	mu          sync.Mutex
	statusKnown bool
	statusValue bool
	statusAt    time.Time

	refreshMu sync.Mutex
	inflight  *refreshCall
}

// New wires a session manager to its credential store. Any save or clear
// on the store invalidates the cached auth status.
func New(cfg *config.Config, st *store.Store) *Session {
	s := &Session{
		cfg:   cfg,
		store: st,
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURI,
			Scopes:      cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizeEndpoint,
				TokenURL:  cfg.TokenEndpoint,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client:    &http.Client{Timeout: tokenHTTPTimeout},
		now:       time.Now,
		statusTTL: DefaultStatusTTL,
	}
	st.OnChange(s.invalidateStatus)
	return s
}

// AuthCodeURL starts a new authorization attempt: it generates a fresh
// verifier, persists it (overwriting any previous attempt), and returns
// the provider authorize URL the browser must be redirected to. The
// verifier is durably stored before the URL is handed out, so the
// callback's exchange can always find it.
func (s *Session) AuthCodeURL() (string, error) {
	verifier, err := pkce.GenerateVerifier(pkce.VerifierLength)
	if err != nil {
		return "", err
	}
	if err := s.store.SaveVerifier(verifier); err != nil {
		return "", err
	}

	challenge := pkce.DeriveChallenge(verifier)
	return s.oauth.AuthCodeURL("",
		oauth2.SetAuthURLParam("code_challenge_method", pkce.ChallengeMethodS256),
		oauth2.SetAuthURLParam("code_challenge", challenge),
	), nil
}

// Exchange trades an authorization code for a token pair using the stored
// verifier. It performs no persistence. A missing verifier fails before
// any network call; a provider rejection surfaces as *ExchangeError.
func (s *Session) Exchange(ctx context.Context, code string) (*TokenResponse, error) {
	if code == "" {
		return nil, errors.New("session: empty authorization code")
	}
	verifier, err := s.store.LoadVerifier()
	if err != nil {
		return nil, err
	}
	if verifier == "" {
		return nil, ErrMissingVerifier
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	tok, err := s.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, &ExchangeError{Code: re.ErrorCode, Description: re.ErrorDescription, err: err}
		}
		return nil, &ExchangeError{err: err}
	}

	scope, _ := tok.Extra("scope").(string)
	return &TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scope:        scope,
		ExpiresAt:    tok.Expiry,
	}, nil
}

// Refresh mints a new access token from the stored refresh token and
// persists it. Any failure clears the whole credential record: a rejected
// refresh token must not leave a half-valid session behind. Returns
// whether the session is still authenticated.
func (s *Session) Refresh(ctx context.Context) bool {
	cred, err := s.store.Load()
	if err != nil {
		log.Printf("⚠️ Refresh aborted, credential read failed: %v", err)
		return false
	}
	if cred.RefreshToken == "" {
		return false
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	src := s.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		log.Printf("❌ Token refresh failed, clearing session: %v", err)
		if clearErr := s.store.Clear(); clearErr != nil {
			log.Printf("⚠️ Failed to clear credentials: %v", clearErr)
		}
		return false
	}

	// The token source carries the old refresh token forward when the
	// provider does not rotate it, so tok.RefreshToken is always the one
	// to keep.
	if err := s.store.SaveToken(tok.AccessToken, tok.RefreshToken, tok.Expiry); err != nil {
		log.Printf("❌ Failed to persist refreshed token, clearing session: %v", err)
		if clearErr := s.store.Clear(); clearErr != nil {
			log.Printf("⚠️ Failed to clear credentials: %v", clearErr)
		}
		return false
	}

	log.Printf("✅ Access token refreshed (expires %s)", tok.Expiry.Format(time.RFC3339))
	return true
}

// IsAuthenticated reports whether an unexpired access token is stored.
// The answer is cached for the status TTL to keep render-path callers off
// the database; the cache is dropped whenever the store changes. It never
// triggers a refresh.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.statusKnown && now.Sub(s.statusAt) < s.statusTTL {
		return s.statusValue
	}

	cred, err := s.store.Load()
	ok := err == nil && cred.AccessToken != "" && now.Before(cred.ExpiresAt)
	s.statusKnown = true
	s.statusValue = ok
	s.statusAt = now
	return ok
}

// HasCredentials reports whether any credential record exists at all,
// expired or not. The API gate uses this instead of IsAuthenticated so an
// expired-but-refreshable session reaches the accessor, which refreshes it.
func (s *Session) HasCredentials() bool {
	cred, err := s.store.Load()
	return err == nil && (cred.AccessToken != "" || cred.RefreshToken != "")
}

func (s *Session) invalidateStatus() {
	s.mu.Lock()
	s.statusKnown = false
	s.mu.Unlock()
}

// ActiveToken returns an access token valid right now, or "" when the
// caller must send the user back through login. An expired token triggers
// one refresh, shared by all concurrent callers; a failed refresh yields
// "" with the session cleared.
func (s *Session) ActiveToken(ctx context.Context) (string, error) {
	cred, err := s.store.Load()
	if err != nil {
		return "", err
	}
	if cred.AccessToken == "" {
		return "", nil
	}
	if s.now().Before(cred.ExpiresAt) {
		return cred.AccessToken, nil
	}

	if !s.refreshShared(ctx) {
		return "", nil
	}
	cred, err = s.store.Load()
	if err != nil {
		return "", err
	}
	return cred.AccessToken, nil
}

// refreshShared coalesces concurrent refreshes: the first caller performs
// the token endpoint call, everyone else waits for its outcome.
func (s *Session) refreshShared(ctx context.Context) bool {
	s.refreshMu.Lock()
	if c := s.inflight; c != nil {
		s.refreshMu.Unlock()
		<-c.done
		return c.ok
	}
	c := &refreshCall{done: make(chan struct{})}
	s.inflight = c
	s.refreshMu.Unlock()

	// A refresh may have completed between this caller's expiry check and
	// taking the lead; skip the endpoint if the stored token is fresh.
	if cred, err := s.store.Load(); err == nil && cred.AccessToken != "" && s.now().Before(cred.ExpiresAt) {
		c.ok = true
	} else {
		c.ok = s.Refresh(ctx)
	}
	close(c.done)

	s.refreshMu.Lock()
	s.inflight = nil
	s.refreshMu.Unlock()
	return c.ok
}
