package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HeikonSilva/spotify-dashboard/internal/spotify"
)

// staticToken satisfies the client's token source without a full session.
type staticToken string

func (s staticToken) ActiveToken(ctx context.Context) (string, error) {
	return string(s), nil
}

// newControlClient returns a Spotify client aimed at a fake player API
// that records the query of each command it receives.
func newControlClient(t *testing.T, gotQuery *map[string][]string) *spotify.Client {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(api.Close)
	return spotify.New(api.URL, staticToken("access-1"))
}

func TestVolumeControlZeroMutes(t *testing.T) {
	var got map[string][]string
	client := newControlClient(t, &got)

	req := httptest.NewRequest(http.MethodPost, "/api/player/volume?percent=0", nil)
	rec := httptest.NewRecorder()
	PlayerControlHandler(client, "volume")(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if v := got["volume_percent"]; len(v) != 1 || v[0] != "0" {
		t.Errorf("expected volume_percent=0 sent upstream, got %v", got["volume_percent"])
	}
}

func TestVolumeControlDefaultsWhenAbsent(t *testing.T) {
	var got map[string][]string
	client := newControlClient(t, &got)

	req := httptest.NewRequest(http.MethodPost, "/api/player/volume", nil)
	rec := httptest.NewRecorder()
	PlayerControlHandler(client, "volume")(rec, req)

	if v := got["volume_percent"]; len(v) != 1 || v[0] != "50" {
		t.Errorf("expected default volume_percent=50, got %v", got["volume_percent"])
	}
}

func TestVolumeControlIgnoresInvalidPercent(t *testing.T) {
	var got map[string][]string
	client := newControlClient(t, &got)

	req := httptest.NewRequest(http.MethodPost, "/api/player/volume?percent=loud", nil)
	rec := httptest.NewRecorder()
	PlayerControlHandler(client, "volume")(rec, req)

	if v := got["volume_percent"]; len(v) != 1 || v[0] != "50" {
		t.Errorf("expected fallback volume_percent=50 for invalid input, got %v", got["volume_percent"])
	}
}

func TestSeekControlZeroRewinds(t *testing.T) {
	var got map[string][]string
	client := newControlClient(t, &got)

	req := httptest.NewRequest(http.MethodPost, "/api/player/seek?position_ms=0", nil)
	rec := httptest.NewRecorder()
	PlayerControlHandler(client, "seek")(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if v := got["position_ms"]; len(v) != 1 || v[0] != "0" {
		t.Errorf("expected position_ms=0 sent upstream, got %v", got["position_ms"])
	}
}

func TestUnknownControlIs404(t *testing.T) {
	var got map[string][]string
	client := newControlClient(t, &got)

	req := httptest.NewRequest(http.MethodPost, "/api/player/shuffle", nil)
	rec := httptest.NewRecorder()
	PlayerControlHandler(client, "shuffle")(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown action, got %d", rec.Code)
	}
	if got != nil {
		t.Error("unknown action must not reach the player API")
	}
}
