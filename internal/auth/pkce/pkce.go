// Package pkce implements the PKCE (Proof Key for Code Exchange) primitives
// from RFC 7636 used by the Spotify authorization flow.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// ChallengeMethodS256 is the only challenge method Spotify accepts.
const ChallengeMethodS256 = "S256"

// VerifierLength is the verifier length used for login flows. RFC 7636
// allows 43-128 characters; we use the maximum.
const VerifierLength = 128

// verifierAlphabet is the unreserved-character set verifiers are drawn from.
const verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateVerifier returns a cryptographically random code_verifier of
// exactly length characters drawn uniformly from [A-Za-z0-9].
func GenerateVerifier(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("pkce: verifier length must be positive, got %d", length)
	}

	out := make([]byte, length)
	// 62 does not divide 256, so sample with rejection to keep the
	// distribution uniform. Accept bytes below the largest multiple of 62.
	const limit = 256 - 256%len(verifierAlphabet) // 248
	buf := make([]byte, length)
	filled := 0
	for filled < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("pkce: secure random unavailable: %w", err)
		}
		for _, b := range buf {
			if filled == length {
				break
			}
			if int(b) >= limit {
				continue
			}
			out[filled] = verifierAlphabet[int(b)%len(verifierAlphabet)]
			filled++
		}
	}
	return string(out), nil
}

// DeriveChallenge computes the S256 code_challenge for a verifier:
// BASE64URL(SHA256(verifier)), unpadded.
func DeriveChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
