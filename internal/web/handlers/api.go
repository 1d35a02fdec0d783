package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/HeikonSilva/spotify-dashboard/internal/auth/session"
	"github.com/HeikonSilva/spotify-dashboard/internal/db/models"
	"github.com/HeikonSilva/spotify-dashboard/internal/logging"
	"github.com/HeikonSilva/spotify-dashboard/internal/spotify"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeSpotifyError maps client errors onto dashboard API responses.
func writeSpotifyError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := logging.GetRequestID(r.Context())
	var apiErr *spotify.APIError
	switch {
	case errors.Is(err, spotify.ErrNotAuthenticated):
		http.Error(w, `{"error": "not authenticated"}`, http.StatusUnauthorized)
	case errors.Is(err, spotify.ErrPremiumRequired):
		http.Error(w, `{"error": "premium account required"}`, http.StatusForbidden)
	case errors.As(err, &apiErr):
		log.Printf("⚠️ [%s] Spotify API error: %v", reqID, err)
		http.Error(w, `{"error": "upstream error"}`, http.StatusBadGateway)
	default:
		log.Printf("⚠️ [%s] Request failed: %v", reqID, err)
		http.Error(w, `{"error": "internal error"}`, http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// queryIntAllowZero is queryInt for parameters where zero is meaningful:
// volume 0 mutes, position_ms 0 rewinds to the start. Only absent or
// invalid values fall back to the default.
func queryIntAllowZero(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// StatusHandler reports the current auth state for the dashboard shell.
func StatusHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"authenticated": sess.IsAuthenticated()})
	}
}

// MeHandler returns the signed-in user's profile.
func MeHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := client.Me(r.Context())
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, user)
	}
}

// TopArtistsHandler returns the user's top artists.
// Query: limit (default 10), time_range (default short_term).
func TopArtistsHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeRange := r.URL.Query().Get("time_range")
		if timeRange == "" {
			timeRange = spotify.RangeShortTerm
		}
		page, err := client.TopArtists(r.Context(), queryInt(r, "limit", 10), timeRange)
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, page)
	}
}

// TopTracksHandler returns the user's top tracks.
func TopTracksHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeRange := r.URL.Query().Get("time_range")
		if timeRange == "" {
			timeRange = spotify.RangeShortTerm
		}
		page, err := client.TopTracks(r.Context(), queryInt(r, "limit", 10), timeRange)
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, page)
	}
}

// RecentlyPlayedHandler returns the listening history.
// Query: limit (default 20), after (unix-ms cursor).
func RecentlyPlayedHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var after int64
		if v := r.URL.Query().Get("after"); v != "" {
			after, _ = strconv.ParseInt(v, 10, 64)
		}
		rp, err := client.RecentlyPlayed(r.Context(), queryInt(r, "limit", 20), after)
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, rp)
	}
}

// ActivityHandler aggregates the last month of listening history into
// hourly and weekday buckets for the charts.
func ActivityHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oneMonthAgo := time.Now().AddDate(0, -1, 0).UnixMilli()
		rp, err := client.RecentlyPlayed(r.Context(), 50, oneMonthAgo)
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, spotify.AggregateActivity(rp.Items))
	}
}

// PlaylistsHandler returns the user's playlists.
func PlaylistsHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := client.Playlists(r.Context(), queryInt(r, "limit", 20))
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, page)
	}
}

// ArtistHandler returns one artist's detail record.
func ArtistHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artist, err := client.Artist(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, artist)
	}
}

// TrackHandler returns one track's detail record.
func TrackHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		track, err := client.Track(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, track)
	}
}

// AlbumHandler returns one album's detail record.
func AlbumHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		album, err := client.Album(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, album)
	}
}

// SearchHandler queries the Spotify catalog.
// Query: q (required), type (default "track,artist,album"), limit.
func SearchHandler(client *spotify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, `{"error": "missing q parameter"}`, http.StatusBadRequest)
			return
		}
		types := r.URL.Query().Get("type")
		if types == "" {
			types = "track,artist,album"
		}
		res, err := client.Search(r.Context(), query, types, queryInt(r, "limit", 10))
		if err != nil {
			writeSpotifyError(w, r, err)
			return
		}
		writeJSON(w, res)
	}
}

// RequestsHandler exposes recent dashboard API requests and aggregate
// counts for the monitor panel.
func RequestsHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 50)

		var logs []models.RequestLog
		if err := db.Order("timestamp DESC").Limit(limit).Find(&logs).Error; err != nil {
			log.Printf("⚠️ Failed to read request logs: %v", err)
			http.Error(w, `{"error": "internal error"}`, http.StatusInternalServerError)
			return
		}

		var stats models.RequestStats
		db.Model(&models.RequestLog{}).Count(&stats.TotalRequests)
		db.Model(&models.RequestLog{}).Where("status < ?", 400).Count(&stats.SuccessCount)
		stats.ErrorCount = stats.TotalRequests - stats.SuccessCount

		writeJSON(w, map[string]any{
			"requests": logs,
			"stats":    stats,
		})
	}
}
