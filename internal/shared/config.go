package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Owner       OwnerConfig       `toml:"owner"`
	Credentials CredentialsConfig `toml:"credentials"`
	Gateway     GatewayConfig     `toml:"gateway"`
	Widget      WidgetConfig      `toml:"widget"`
	Database    DatabaseConfig    `toml:"database"`
}

// OwnerConfig identifies whose listening activity the gateway reports.
type OwnerConfig struct {
	Name string `toml:"name"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials plus the long-lived refresh
// token and an optional cached access token obtained from a previous run.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	RefreshToken string `toml:"refresh_token"`
	AccessToken  string `toml:"access_token"`
	TokenExpiry  int64  `toml:"token_expiry"` // unix seconds; zero means unknown
}

// Map converts the Spotify credentials into the map shape consumed by the
// spotify package constructors.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
		"refresh_token": s.RefreshToken,
		"access_token":  s.AccessToken,
	}
}

// GatewayConfig contains HTTP server settings for the status endpoint.
type GatewayConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"` // requests per second per client
	RateBurst int     `toml:"rate_burst"`
}

// Addr returns the host:port address the gateway listens on.
func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// WidgetConfig contains settings for the terminal widget and its poller.
type WidgetConfig struct {
	GatewayURL  string `toml:"gateway_url"`
	Typing      bool   `toml:"typing"`       // scripted command typing before the live display
	SettleDelay int    `toml:"settle_delay"` // seconds before the exploratory fetch
}

// DatabaseConfig contains token-store settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
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

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig serializes the config back to TOML at the specified path.
//
// Used after OAuth flows to persist rotated tokens.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
