package models

import "time"

// Credential is one durable key/value pair of the stored Spotify session.
// The full session is the set of rows access_token, refresh_token, expires
// (absolute epoch-ms as string) and code_verifier.
type Credential struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Storage keys for the credential record. They mirror the names the
// dashboard has always used, so an existing database keeps working.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyExpires      = "expires"
	KeyCodeVerifier = "code_verifier"
)
