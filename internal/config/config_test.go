package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(vars map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	c, err := LoadFile(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
	assert.Equal(t, time.Minute, c.RefreshLead())
}

func TestLoadFileKeepsDefaultsForAbsentFields(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"base_url":"https://id.example","endpoints":{"login":"/v2/login"}}`), 0o600))

	c, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "https://id.example", c.BaseURL)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, ":3000", c.ListenAddr)
	assert.Equal(t, "/v2/login", c.Endpoints.Login)
	assert.Equal(t, "/v2/login", c.ManifestSource().Overrides.Login)
}

func TestLoadFileRejectsBadJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{`), 0o600))
	_, err := LoadFile(p)
	assert.Error(t, err)
}

func TestSaveFileRoundTripOmitsPassword(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	c := Defaults()
	c.KeyringBackend = "file"
	c.KeyringPassword = "s3cret"
	require.NoError(t, SaveFile(p, c))

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "s3cret")

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	back, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "file", back.KeyringBackend)
	assert.Empty(t, back.KeyringPassword)
}

func TestApplyEnv(t *testing.T) {
	c := Defaults()
	c.ApplyEnv(lookup(map[string]string{
		EnvBaseURL:         " https://id.example ",
		EnvLogLevel:        "debug",
		EnvListenAddr:      "",
		EnvKeyringBackend:  "file",
		EnvKeyringPassword: "pw",
		EnvDev:             "true",
	}))

	assert.Equal(t, "https://id.example", c.BaseURL)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, ":3000", c.ListenAddr, "empty values are ignored")
	assert.Equal(t, "file", c.KeyringBackend)
	assert.Equal(t, "pw", c.KeyringPassword)
	assert.True(t, c.Dev)
}

func TestEnvironmentReadsDotEnvWithoutOverridingProcess(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("TECHSITE_TEST_ONLY_A=from-file\nTECHSITE_TEST_ONLY_B=from-file\n"), 0o600))
	t.Setenv("TECHSITE_TEST_ONLY_B", "from-process")

	env := Environment(p, filepath.Join(t.TempDir(), "missing.env"))

	v, ok := env("TECHSITE_TEST_ONLY_A")
	assert.True(t, ok)
	assert.Equal(t, "from-file", v)

	v, _ = env("TECHSITE_TEST_ONLY_B")
	assert.Equal(t, "from-process", v)

	_, ok = env("TECHSITE_TEST_ONLY_C")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"relative base url", func(c *Config) { c.BaseURL = "/api" }, true},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://id.example" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"json format", func(c *Config) { c.LogFormat = "json" }, false},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"unknown keyring", func(c *Config) { c.KeyringBackend = "vault" }, true},
		{"negative lead", func(c *Config) { c.RefreshLeadSeconds = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadUsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvBaseURL, "https://env.example")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", c.BaseURL)

	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "config.json", filepath.Base(p))
}
