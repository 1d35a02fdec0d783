package spotify

// Response shapes for the subset of the Spotify Web API the dashboard
// renders. Fields the UI never reads are omitted.

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

type Followers struct {
	Total int `json:"total"`
}

// User is the authenticated user's profile (GET /me).
type User struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name"`
	Email        string       `json:"email,omitempty"`
	Country      string       `json:"country,omitempty"`
	Product      string       `json:"product,omitempty"`
	URI          string       `json:"uri,omitempty"`
	Images       []Image      `json:"images,omitempty"`
	Followers    *Followers   `json:"followers,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Genres       []string     `json:"genres,omitempty"`
	Popularity   int          `json:"popularity,omitempty"`
	Images       []Image      `json:"images,omitempty"`
	Followers    *Followers   `json:"followers,omitempty"`
	URI          string       `json:"uri,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

type Album struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	AlbumType    string       `json:"album_type,omitempty"`
	ReleaseDate  string       `json:"release_date,omitempty"`
	TotalTracks  int          `json:"total_tracks,omitempty"`
	Images       []Image      `json:"images,omitempty"`
	Artists      []Artist     `json:"artists,omitempty"`
	URI          string       `json:"uri,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	DurationMs   int          `json:"duration_ms"`
	Explicit     bool         `json:"explicit"`
	Popularity   int          `json:"popularity,omitempty"`
	PreviewURL   string       `json:"preview_url,omitempty"`
	TrackNumber  int          `json:"track_number,omitempty"`
	Album        Album        `json:"album"`
	Artists      []Artist     `json:"artists"`
	URI          string       `json:"uri,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Paging is Spotify's standard paged envelope.
type Paging[T any] struct {
	Items    []T    `json:"items"`
	Total    int    `json:"total"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	Href     string `json:"href,omitempty"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

type PlayContext struct {
	Type         string       `json:"type"`
	Href         string       `json:"href,omitempty"`
	URI          string       `json:"uri,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// PlayHistoryItem is one entry of GET /me/player/recently-played.
type PlayHistoryItem struct {
	Track    Track        `json:"track"`
	PlayedAt string       `json:"played_at"` // RFC 3339
	Context  *PlayContext `json:"context"`
}

type RecentlyPlayed struct {
	Items []PlayHistoryItem `json:"items"`
	Limit int               `json:"limit"`
	Next  string            `json:"next,omitempty"`
}

type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	IsRestricted  bool   `json:"is_restricted"`
	VolumePercent int    `json:"volume_percent"`
}

// PlayerState is GET /me/player/currently-playing. A nil *PlayerState
// means nothing is playing (HTTP 204).
type PlayerState struct {
	Device               *Device      `json:"device,omitempty"`
	RepeatState          string       `json:"repeat_state,omitempty"`
	ShuffleState         bool         `json:"shuffle_state,omitempty"`
	Context              *PlayContext `json:"context"`
	Timestamp            int64        `json:"timestamp"`
	ProgressMs           int          `json:"progress_ms"`
	IsPlaying            bool         `json:"is_playing"`
	Item                 *Track       `json:"item"`
	CurrentlyPlayingType string       `json:"currently_playing_type,omitempty"`
}

type PlaylistTracksRef struct {
	Href  string `json:"href,omitempty"`
	Total int    `json:"total"`
}

type Playlist struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Public       bool              `json:"public"`
	Images       []Image           `json:"images,omitempty"`
	Tracks       PlaylistTracksRef `json:"tracks"`
	URI          string            `json:"uri,omitempty"`
	ExternalURLs ExternalURLs      `json:"external_urls"`
}

// SearchResults holds the sections of GET /search the dashboard queries.
type SearchResults struct {
	Tracks  *Paging[Track]  `json:"tracks,omitempty"`
	Artists *Paging[Artist] `json:"artists,omitempty"`
	Albums  *Paging[Album]  `json:"albums,omitempty"`
}

// Queue is GET /me/player/queue.
type Queue struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}
