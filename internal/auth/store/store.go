// Package store persists the Spotify credential record. The record is a
// small key/value set (access token, refresh token, absolute expiry,
// pending PKCE verifier) that survives restarts, the server-side analogue
// of the browser's localStorage the dashboard originally used.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HeikonSilva/spotify-dashboard/internal/db/models"
)

// Credential is the loaded credential record. Absent fields are zero;
// ExpiresAt is the zero time when no expiry is stored.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Store reads and writes the credential record. Saves and clears go through
// a transaction so no reader ever observes a partially written record.
type Store struct {
	db *gorm.DB

	// onChange runs after every successful SaveToken/Clear, so derived
	// state (the auth status cache) can invalidate itself.
	onChange func()
}

// New creates a credential store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{db: db, onChange: func() {}}
}

// OnChange registers fn to run after every SaveToken or Clear.
// Only one hook is supported; a second call replaces the first.
func (s *Store) OnChange(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	s.onChange = fn
}

// SaveToken writes the full credential record in one transaction.
func (s *Store) SaveToken(accessToken, refreshToken string, expiresAt time.Time) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		pairs := []models.Credential{
			{Key: models.KeyAccessToken, Value: accessToken},
			{Key: models.KeyRefreshToken, Value: refreshToken},
			{Key: models.KeyExpires, Value: strconv.FormatInt(expiresAt.UnixMilli(), 10)},
		}
		for _, p := range pairs {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: save token: %w", err)
	}
	s.onChange()
	return nil
}

// Load reads whatever subset of the credential record is present.
func (s *Store) Load() (Credential, error) {
	var cred Credential
	access, err := s.get(models.KeyAccessToken)
	if err != nil {
		return cred, err
	}
	refresh, err := s.get(models.KeyRefreshToken)
	if err != nil {
		return cred, err
	}
	expires, err := s.get(models.KeyExpires)
	if err != nil {
		return cred, err
	}

	cred.AccessToken = access
	cred.RefreshToken = refresh
	if expires != "" {
		ms, err := strconv.ParseInt(expires, 10, 64)
		if err != nil {
			return cred, fmt.Errorf("store: corrupt expires value %q: %w", expires, err)
		}
		cred.ExpiresAt = time.UnixMilli(ms)
	}
	return cred, nil
}

// Clear removes the whole credential record and any pending verifier.
func (s *Store) Clear() error {
	keys := []string{
		models.KeyAccessToken,
		models.KeyRefreshToken,
		models.KeyExpires,
		models.KeyCodeVerifier,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("key IN ?", keys).Delete(&models.Credential{}).Error
	})
	if err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	s.onChange()
	return nil
}

// SaveVerifier persists the pending PKCE verifier, replacing any previous
// one. At most one authorization attempt is in flight at a time.
func (s *Store) SaveVerifier(verifier string) error {
	rec := models.Credential{Key: models.KeyCodeVerifier, Value: verifier}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("store: save verifier: %w", err)
	}
	return nil
}

// LoadVerifier returns the pending PKCE verifier, or "" when none is stored.
func (s *Store) LoadVerifier() (string, error) {
	return s.get(models.KeyCodeVerifier)
}

// DeleteVerifier removes the pending verifier after a successful exchange.
func (s *Store) DeleteVerifier() error {
	err := s.db.Where("key = ?", models.KeyCodeVerifier).Delete(&models.Credential{}).Error
	if err != nil {
		return fmt.Errorf("store: delete verifier: %w", err)
	}
	return nil
}

func (s *Store) get(key string) (string, error) {
	var rec models.Credential
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: read %s: %w", key, err)
	}
	return rec.Value, nil
}
