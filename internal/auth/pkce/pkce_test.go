package pkce

import (
	"strings"
	"testing"
)

func TestGenerateVerifierLength(t *testing.T) {
	for _, length := range []int{43, 64, 128} {
		v, err := GenerateVerifier(length)
		if err != nil {
			t.Fatalf("GenerateVerifier(%d): %v", length, err)
		}
		if len(v) != length {
			t.Errorf("GenerateVerifier(%d) length = %d", length, len(v))
		}
	}
}

func TestGenerateVerifierCharset(t *testing.T) {
	v, err := GenerateVerifier(256)
	if err != nil {
		t.Fatalf("GenerateVerifier: %v", err)
	}
	for _, c := range v {
		if !strings.ContainsRune(verifierAlphabet, c) {
			t.Fatalf("verifier contains %q, outside [A-Za-z0-9]", c)
		}
	}
}

func TestGenerateVerifierRejectsBadLength(t *testing.T) {
	if _, err := GenerateVerifier(0); err == nil {
		t.Error("GenerateVerifier(0) should fail")
	}
	if _, err := GenerateVerifier(-1); err == nil {
		t.Error("GenerateVerifier(-1) should fail")
	}
}

func TestDeriveChallengeKnownVector(t *testing.T) {
	// RFC 7636 appendix B
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
	if got := DeriveChallenge(verifier); got != want {
		t.Errorf("DeriveChallenge() = %q, want %q", got, want)
	}
}

func TestDeriveChallengeDeterministic(t *testing.T) {
	v, err := GenerateVerifier(64)
	if err != nil {
		t.Fatalf("GenerateVerifier: %v", err)
	}
	if DeriveChallenge(v) != DeriveChallenge(v) {
		t.Error("DeriveChallenge is not deterministic")
	}

	v2, err := GenerateVerifier(64)
	if err != nil {
		t.Fatalf("GenerateVerifier: %v", err)
	}
	if v != v2 && DeriveChallenge(v) == DeriveChallenge(v2) {
		t.Error("distinct verifiers produced identical challenges")
	}
}
