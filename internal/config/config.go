// Package config loads the dashboard configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spotify's fixed provider endpoints. Overridable for tests only.
const (
	DefaultAuthorizeEndpoint = "https://accounts.spotify.com/authorize"
	DefaultTokenEndpoint     = "https://accounts.spotify.com/api/token"
	DefaultAPIBaseURL        = "https://api.spotify.com/v1"
)

// DefaultScopes covers everything the dashboard renders: profile, top
// items, listening history, playback state and player controls.
var DefaultScopes = []string{
	"user-read-private",
	"user-read-email",
	"user-top-read",
	"user-read-recently-played",
	"user-read-currently-playing",
	"user-read-playback-state",
	"user-modify-playback-state",
	"playlist-read-private",
}

// Config holds the statically supplied dashboard settings.
type Config struct {
	ClientID          string   `yaml:"client_id"`
	RedirectURI       string   `yaml:"redirect_uri"`
	Scopes            []string `yaml:"scopes"`
	AuthorizeEndpoint string   `yaml:"authorize_endpoint"`
	TokenEndpoint     string   `yaml:"token_endpoint"`
	APIBaseURL        string   `yaml:"api_base_url"`
	ListenAddr        string   `yaml:"listen_addr"`
	DBPath            string   `yaml:"db_path"`
}

// Load reads the config file at path (missing file is fine), applies
// environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if cfg.ClientID == "" {
		return nil, fmt.Errorf("config: client_id is required (set SPOTIFY_CLIENT_ID or client_id in %s)", path)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		cfg.RedirectURI = v
	}
	if v := os.Getenv("SPOTIFY_SCOPES"); v != "" {
		cfg.Scopes = strings.Fields(v)
	}
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("DASHBOARD_DB"); v != "" {
		cfg.DBPath = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.AuthorizeEndpoint == "" {
		cfg.AuthorizeEndpoint = DefaultAuthorizeEndpoint
	}
	if cfg.TokenEndpoint == "" {
		cfg.TokenEndpoint = DefaultTokenEndpoint
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = append([]string(nil), DefaultScopes...)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "dashboard.db"
	}
	if cfg.RedirectURI == "" {
		addr := cfg.ListenAddr
		if strings.HasPrefix(addr, ":") {
			addr = "localhost" + addr
		}
		cfg.RedirectURI = "http://" + addr + "/callback"
	}
}

// Scope returns the space-delimited scope list sent to the provider.
func (c *Config) Scope() string {
	return strings.Join(c.Scopes, " ")
}
