package logging

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateRequestIDIsHex(t *testing.T) {
	id := GenerateRequestID()
	if len(id) != 8 {
		t.Fatalf("GenerateRequestID() length = %d, want 8", len(id))
	}
	// Request IDs appear between brackets in log lines; keep them to
	// lowercase hex so they stay grep-friendly.
	if strings.Trim(id, "0123456789abcdef") != "" {
		t.Errorf("GenerateRequestID() = %q, want lowercase hex", id)
	}
}

func TestGenerateRequestIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		if seen[id] {
			t.Fatalf("duplicate request ID after %d draws: %s", i, id)
		}
		seen[id] = true
	}
}

func TestRequestIDTravelsWithRequestContext(t *testing.T) {
	// The request logger stores the ID on the request context; handlers
	// read it back for error-log correlation.
	id := GenerateRequestID()
	r := httptest.NewRequest("GET", "/api/me", nil)
	r = r.WithContext(WithRequestID(r.Context(), id))

	if got := GetRequestID(r.Context()); got != id {
		t.Errorf("GetRequestID() = %q, want %q", got, id)
	}
}

func TestGetRequestIDWithoutID(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID(background) = %q, want empty string", got)
	}
}
