// Package spotify is a thin typed client for the subset of the Spotify
// Web API the dashboard uses. Every call obtains a fresh bearer token from
// the session's active-token accessor, so expired tokens are refreshed
// before the request goes out.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/HeikonSilva/spotify-dashboard/internal/util"
)

// ErrNotAuthenticated means no usable access token exists; the user must
// go through login again.
var ErrNotAuthenticated = errors.New("spotify: not authenticated")

// ErrPremiumRequired means the API rejected a player command because the
// account is not a Premium account.
var ErrPremiumRequired = errors.New("spotify: premium account required")

// APIError is a non-2xx response from the Web API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify: API error %d: %s", e.Status, e.Message)
}

// TokenSource supplies a token valid for an immediate API call, or ""
// when the session is logged out.
type TokenSource interface {
	ActiveToken(ctx context.Context) (string, error)
}

// Client calls the Spotify Web API.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// New creates a client against baseURL (the real API, or a test server).
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// TimeRange values for top-item queries.
const (
	RangeShortTerm  = "short_term"
	RangeMediumTerm = "medium_term"
	RangeLongTerm   = "long_term"
)

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.getJSON(ctx, "/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// TopArtists returns the user's top artists for a time range.
func (c *Client) TopArtists(ctx context.Context, limit int, timeRange string) (*Paging[Artist], error) {
	var page Paging[Artist]
	if err := c.getJSON(ctx, "/me/top/artists", topQuery(limit, timeRange), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// TopTracks returns the user's top tracks for a time range.
func (c *Client) TopTracks(ctx context.Context, limit int, timeRange string) (*Paging[Track], error) {
	var page Paging[Track]
	if err := c.getJSON(ctx, "/me/top/tracks", topQuery(limit, timeRange), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Artist returns one artist's full catalog profile.
func (c *Client) Artist(ctx context.Context, id string) (*Artist, error) {
	var a Artist
	if err := c.getJSON(ctx, "/artists/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Track returns one track's full catalog entry.
func (c *Client) Track(ctx context.Context, id string) (*Track, error) {
	var tr Track
	if err := c.getJSON(ctx, "/tracks/"+url.PathEscape(id), nil, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Album returns one album's catalog entry.
func (c *Client) Album(ctx context.Context, id string) (*Album, error) {
	var al Album
	if err := c.getJSON(ctx, "/albums/"+url.PathEscape(id), nil, &al); err != nil {
		return nil, err
	}
	return &al, nil
}

// RecentlyPlayed returns up to limit recently played tracks, optionally
// only those after the given cursor (unix-ms, 0 means no cursor).
func (c *Client) RecentlyPlayed(ctx context.Context, limit int, afterMs int64) (*RecentlyPlayed, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if afterMs > 0 {
		q.Set("after", strconv.FormatInt(afterMs, 10))
	}
	var rp RecentlyPlayed
	if err := c.getJSON(ctx, "/me/player/recently-played", q, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

// CurrentlyPlaying returns the current playback state, or nil when nothing
// is playing (the API answers 204).
func (c *Client) CurrentlyPlaying(ctx context.Context) (*PlayerState, error) {
	resp, err := c.do(ctx, http.MethodGet, "/me/player/currently-playing", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var state PlayerState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("spotify: decode player state: %w", err)
	}
	return &state, nil
}

// Devices lists the user's available playback devices.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var out struct {
		Devices []Device `json:"devices"`
	}
	if err := c.getJSON(ctx, "/me/player/devices", nil, &out); err != nil {
		return nil, err
	}
	return out.Devices, nil
}

// Playlists returns the user's playlists.
func (c *Client) Playlists(ctx context.Context, limit int) (*Paging[Playlist], error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var page Paging[Playlist]
	if err := c.getJSON(ctx, "/me/playlists", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Queue returns the playback queue.
func (c *Client) Queue(ctx context.Context) (*Queue, error) {
	var q Queue
	if err := c.getJSON(ctx, "/me/player/queue", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Search queries the catalog. types is a comma-separated list like
// "track,artist,album".
func (c *Client) Search(ctx context.Context, query, types string, limit int) (*SearchResults, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", types)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var res SearchResults
	if err := c.getJSON(ctx, "/search", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Player controls. Spotify answers 204 (or 202) with no body; non-Premium
// accounts get a 403 that surfaces as ErrPremiumRequired.

func (c *Client) Play(ctx context.Context) error {
	return c.command(ctx, http.MethodPut, "/me/player/play", nil)
}

func (c *Client) Pause(ctx context.Context) error {
	return c.command(ctx, http.MethodPut, "/me/player/pause", nil)
}

func (c *Client) Next(ctx context.Context) error {
	return c.command(ctx, http.MethodPost, "/me/player/next", nil)
}

func (c *Client) Previous(ctx context.Context) error {
	return c.command(ctx, http.MethodPost, "/me/player/previous", nil)
}

func (c *Client) Seek(ctx context.Context, positionMs int) error {
	q := url.Values{"position_ms": {strconv.Itoa(positionMs)}}
	return c.command(ctx, http.MethodPut, "/me/player/seek", q)
}

func (c *Client) SetVolume(ctx context.Context, percent int) error {
	q := url.Values{"volume_percent": {strconv.Itoa(percent)}}
	return c.command(ctx, http.MethodPut, "/me/player/volume", q)
}

func topQuery(limit int, timeRange string) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if timeRange != "" {
		q.Set("time_range", timeRange)
	}
	return q
}

func (c *Client) command(ctx context.Context, method, path string, q url.Values) error {
	resp, err := c.do(ctx, method, path, q, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Response, error) {
	token, err := c.tokens.ActiveToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := parseAPIMessage(body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrNotAuthenticated
	case resp.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(msg), "premium"):
		return ErrPremiumRequired
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func parseAPIMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error.Message == "" {
		return strings.TrimSpace(util.TruncateBytes(body))
	}
	return payload.Error.Message
}
