package session

import (
	"errors"
	"fmt"
)

// ErrMissingVerifier means a code exchange was attempted with no stored
// PKCE verifier. The login flow is broken and must be restarted; retrying
// the exchange cannot succeed.
var ErrMissingVerifier = errors.New("session: no PKCE verifier stored")

// ExchangeError means the provider rejected the authorization code
// (expired, already used, or verifier mismatch). Not retryable with the
// same code.
type ExchangeError struct {
	Code        string // provider error code, e.g. "invalid_grant"
	Description string // provider error description, may be empty
	err         error
}

func (e *ExchangeError) Error() string {
	if e.Code != "" {
		if e.Description != "" {
			return fmt.Sprintf("session: token exchange failed: %s: %s", e.Code, e.Description)
		}
		return fmt.Sprintf("session: token exchange failed: %s", e.Code)
	}
	return fmt.Sprintf("session: token exchange failed: %v", e.err)
}

func (e *ExchangeError) Unwrap() error { return e.err }
