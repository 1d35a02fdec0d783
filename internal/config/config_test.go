package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "env-client")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ClientID != "env-client" {
		t.Errorf("ClientID = %q", cfg.ClientID)
	}
	if cfg.AuthorizeEndpoint != DefaultAuthorizeEndpoint {
		t.Errorf("AuthorizeEndpoint = %q", cfg.AuthorizeEndpoint)
	}
	if cfg.TokenEndpoint != DefaultTokenEndpoint {
		t.Errorf("TokenEndpoint = %q", cfg.TokenEndpoint)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.ListenAddr != "127.0.0.1:8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.RedirectURI != "http://127.0.0.1:8080/callback" {
		t.Errorf("RedirectURI = %q", cfg.RedirectURI)
	}
	if len(cfg.Scopes) == 0 {
		t.Error("default scopes missing")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	content := `client_id: file-client
redirect_uri: https://example.com/callback
scopes: [user-top-read]
listen_addr: 0.0.0.0:9000
db_path: /tmp/test.db
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ClientID != "file-client" {
		t.Errorf("ClientID = %q", cfg.ClientID)
	}
	if cfg.RedirectURI != "https://example.com/callback" {
		t.Errorf("RedirectURI = %q", cfg.RedirectURI)
	}
	if cfg.ListenAddr != "0.0.0.0:9000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if got := cfg.Scope(); got != "user-top-read" {
		t.Errorf("Scope() = %q", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(path, []byte("client_id: file-client\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPOTIFY_CLIENT_ID", "env-client")
	t.Setenv("SPOTIFY_SCOPES", "user-top-read user-read-email")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ClientID != "env-client" {
		t.Errorf("ClientID = %q, env should win", cfg.ClientID)
	}
	if got := cfg.Scope(); got != "user-top-read user-read-email" {
		t.Errorf("Scope() = %q", got)
	}
}

func TestMissingClientIDFails(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load without client_id should fail")
	}
}
