package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

const placeholderClientID = "your_spotify_client_id"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Document    DocumentConfig    `toml:"document"`
	Search      SearchConfig      `toml:"search"`
	Playlist    PlaylistConfig    `toml:"playlist"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and the cached OAuth2 token.
type SpotifyConfig struct {
	ClientID     string    `toml:"client_id"`
	ClientSecret string    `toml:"client_secret"`
	RedirectURI  string    `toml:"redirect_uri"`
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token"`
	Expiry       time.Time `toml:"expiry,omitempty"`
}

// DocumentConfig points at the source PDF.
type DocumentConfig struct {
	PDFPath string `toml:"pdf_path"`
}

// SearchConfig tunes catalog searches.
type SearchConfig struct {
	Limit     int     `toml:"limit"`      // Candidates requested per search call
	RateLimit float64 `toml:"rate_limit"` // Search calls per second
}

// PlaylistConfig holds defaults for created playlists.
type PlaylistConfig struct {
	Public      bool `toml:"public"`
	OpenBrowser bool `toml:"open_browser"`
}

// ServerConfig contains the OAuth callback listener settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SessionConfig is the explicit set of options needed to open a catalog session and locate the source document.
type SessionConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	PDFPath      string
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Missing keys fall back to the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SessionConfig extracts the options used for session creation.
func (c *Config) SessionConfig() SessionConfig {
	return SessionConfig{
		ClientID:     c.Credentials.Spotify.ClientID,
		ClientSecret: c.Credentials.Spotify.ClientSecret,
		RedirectURI:  c.Credentials.Spotify.RedirectURI,
		PDFPath:      c.Document.PDFPath,
	}
}

// Validate checks that client credentials are present and not the template placeholders.
func (s SessionConfig) Validate() error {
	if s.ClientID == "" || s.ClientSecret == "" || s.ClientID == placeholderClientID {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", ErrMissingCredentials)
	}
	return nil
}

// Map converts the Spotify credentials to the map form accepted by services.NewSpotifyService.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// Token returns the cached token as credentials for Authenticate.
func (s SpotifyConfig) Token() map[string]string {
	creds := map[string]string{
		"access_token":  s.AccessToken,
		"refresh_token": s.RefreshToken,
	}
	if !s.Expiry.IsZero() {
		creds["expiry"] = s.Expiry.Format(time.RFC3339)
	}
	return creds
}

// HasToken reports whether a token was saved by a previous `setlist auth`.
func (s SpotifyConfig) HasToken() bool {
	return s.AccessToken != "" || s.RefreshToken != ""
}

// Update stores the token fields of t.
func (s *SpotifyConfig) Update(t *oauth2.Token) error {
	if t == nil {
		return fmt.Errorf("%w: nil token", ErrInvalidInput)
	}
	s.AccessToken = t.AccessToken
	s.RefreshToken = t.RefreshToken
	s.Expiry = t.Expiry
	return nil
}
