package handlers

import (
	"net/http"

	"github.com/HeikonSilva/spotify-dashboard/internal/spotify"
)

// PlayerHandler returns the current playback state. Answers
// {"playing": false} when nothing is playing.
func PlayerHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := client.CurrentlyPlaying(r.Context())
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		if state == nil {
			writeJSON(w, map[string]any{"playing": false})
			return
		}
		writeJSON(w, map[string]any{"playing": state.IsPlaying, "state": state})
	}
}

// DevicesHandler lists available playback devices.
func DevicesHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		devices, err := client.Devices(r.Context())
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"devices": devices})
	}
}

// QueueHandler returns the playback queue.
func QueueHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queue, err := client.Queue(r.Context())
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, queue)
	}
}

// PlayerControlHandler runs one player command (play, pause, next,
// previous, seek, volume).
func PlayerControlHandler(client *spotify.Client, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		switch action {
		case "play":
			err = client.Play(r.Context())
		case "pause":
			err = client.Pause(r.Context())
		case "next":
			err = client.Next(r.Context())
		case "previous":
			err = client.Previous(r.Context())
		case "seek":
			err = client.Seek(r.Context(), queryIntAllowZero(r, "position_ms", 0))
		case "volume":
			err = client.SetVolume(r.Context(), queryIntAllowZero(r, "percent", 50))
		default:
			http.Error(w, `{"error": "unknown action"}`, http.StatusNotFound)
			return
		}
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	}
}
