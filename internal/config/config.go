// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept in the file; the keyring password and
// credentials never are. Values from a .env file and the process
// environment override the file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"techsite/web/internal/logging"
	"techsite/web/internal/manifest"
	"techsite/web/internal/xdg"
)

// Environment variable names.
const (
	EnvBaseURL         = "TECHSITE_BASE_URL"
	EnvLogLevel        = "TECHSITE_LOG_LEVEL"
	EnvListenAddr      = "TECHSITE_LISTEN_ADDR"
	EnvKeyringBackend  = "TECHSITE_KEYRING_BACKEND"
	EnvKeyringPassword = "TECHSITE_KEYRING_PASSWORD"
	EnvDev             = "TECHSITE_DEV"
)

// Config holds CLI and site settings.
type Config struct {
	BaseURL            string                 `json:"base_url"`
	ManifestURL        string                 `json:"manifest_url,omitempty"`
	ManifestPublicKey  string                 `json:"manifest_public_key,omitempty"`
	LogLevel           string                 `json:"log_level"`
	LogFormat          string                 `json:"log_format"`
	ListenAddr         string                 `json:"listen_addr"`
	KeyringBackend     string                 `json:"keyring_backend,omitempty"`
	Dev                bool                   `json:"dev"`
	RefreshLeadSeconds int                    `json:"refresh_lead_seconds"`
	Endpoints          manifest.HTTPEndpoints `json:"endpoints"`

	// KeyringPassword comes from the environment only.
	KeyringPassword string `json:"-"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		BaseURL:            "http://localhost:8000",
		LogLevel:           "info",
		LogFormat:          "text",
		ListenAddr:         ":3000",
		RefreshLeadSeconds: 60,
	}
}

// RefreshLead is the configured refresh lead as a duration.
func (c Config) RefreshLead() time.Duration {
	return time.Duration(c.RefreshLeadSeconds) * time.Second
}

// ManifestSource describes where the backend's endpoints come from.
func (c Config) ManifestSource() manifest.Source {
	return manifest.Source{
		BaseURL:      c.BaseURL,
		URL:          c.ManifestURL,
		PublicKeyPEM: c.ManifestPublicKey,
		Overrides:    c.Endpoints,
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file, then applies .env and environment overrides.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	c, err := LoadFile(p)
	if err != nil {
		return c, err
	}
	c.ApplyEnv(Environment(".env"))
	return c, c.Validate()
}

// LoadFile reads configuration from p; a missing file returns defaults.
// Fields absent from the file keep their defaults.
func LoadFile(p string) (Config, error) {
	c := Defaults()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", p, err)
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(p, c)
}

// SaveFile writes c to p with 0600 permissions.
func SaveFile(p string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// LookupFunc reads one variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Environment returns a lookup over the process environment with the given
// dotenv files underneath. Process variables win; unreadable files are
// skipped. The process environment is not modified.
func Environment(files ...string) LookupFunc {
	fromFiles := map[string]string{}
	for _, f := range files {
		vars, err := godotenv.Read(f)
		if err != nil {
			continue
		}
		for k, v := range vars {
			if _, seen := fromFiles[k]; !seen {
				fromFiles[k] = v
			}
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fromFiles[key]
		return v, ok
	}
}

// ApplyEnv overrides fields from the environment. Empty values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvBaseURL, &c.BaseURL)
	str(EnvLogLevel, &c.LogLevel)
	str(EnvListenAddr, &c.ListenAddr)
	str(EnvKeyringBackend, &c.KeyringBackend)
	if v, ok := lookup(EnvKeyringPassword); ok && v != "" {
		c.KeyringPassword = v
	}
	if v, ok := lookup(EnvDev); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Dev = b
		}
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	switch c.KeyringBackend {
	case "", "file":
	default:
		return fmt.Errorf("keyring_backend must be empty or \"file\", got %q", c.KeyringBackend)
	}
	if c.RefreshLeadSeconds < 0 {
		return fmt.Errorf("refresh_lead_seconds must not be negative")
	}
	return nil
}
