package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "sse", cfg.Transport)
	assert.Equal(t, "file", cfg.StateBackend)
	assert.Equal(t, "github.com", cfg.GitHubHost)
	assert.Equal(t, 5*time.Minute, cfg.CommandTimeout)
	assert.False(t, cfg.ScanLeaks)
	assert.NoError(t, cfg.Validate())
}

func TestTransports(t *testing.T) {
	assert.Equal(t, []string{"sse", "http", "stdio"}, Transports)

	for _, transport := range Transports {
		cfg := Default()
		cfg.Transport = transport
		assert.NoError(t, cfg.Validate(), transport)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, Default().Transport, cfg.Transport)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
host = "0.0.0.0"
port = 9100
transport = "http"
state_backend = "bolt"
clone_root = "/var/tmp/clones"
github_api_url = "https://ghe.example.com/api/v3/"
scan_leaks = true
command_timeout = "90s"
log_format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, "bolt", cfg.StateBackend)
	assert.Equal(t, "/var/tmp/clones", cfg.CloneRoot)
	assert.Equal(t, "https://ghe.example.com/api/v3/", cfg.GitHubAPIURL)
	assert.True(t, cfg.ScanLeaks)
	assert.Equal(t, 90*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "json", cfg.LogFormat)

	// untouched keys keep their defaults
	assert.Equal(t, "github.com", cfg.GitHubHost)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("port = [nope"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`port = 9100`), 0o600))

	t.Setenv("GITPR_PORT", "9200")
	t.Setenv("GITPR_TRANSPORT", "stdio")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Port)
	assert.Equal(t, "stdio", cfg.Transport)
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "strings",
			env: map[string]string{
				"GITPR_HOST":           "localhost",
				"GITPR_STATE_BACKEND":  "sqlite",
				"GITPR_STATE_PATH":     "/tmp/state.db",
				"GITPR_GITHUB_HOST":    "ghe.example.com",
				"GITPR_LOG_LEVEL":      "debug",
				"GITPR_GITHUB_API_URL": "https://ghe.example.com/api/v3/",
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "localhost", cfg.Host)
				assert.Equal(t, "sqlite", cfg.StateBackend)
				assert.Equal(t, "/tmp/state.db", cfg.StatePath)
				assert.Equal(t, "ghe.example.com", cfg.GitHubHost)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "https://ghe.example.com/api/v3/", cfg.GitHubAPIURL)
			},
		},
		{
			name: "typed values",
			env: map[string]string{
				"GITPR_PORT":            " 8080 ",
				"GITPR_SCAN_LEAKS":      "true",
				"GITPR_COMMAND_TIMEOUT": "30s",
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 8080, cfg.Port)
				assert.True(t, cfg.ScanLeaks)
				assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
			},
		},
		{name: "bad port", env: map[string]string{"GITPR_PORT": "eighty"}, wantErr: true},
		{name: "bad bool", env: map[string]string{"GITPR_SCAN_LEAKS": "maybe"}, wantErr: true},
		{name: "bad duration", env: map[string]string{"GITPR_COMMAND_TIMEOUT": "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			})

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{name: "transport", modify: func(c *Config) { c.Transport = "websocket" }, errMsg: `invalid transport "websocket"`},
		{name: "backend", modify: func(c *Config) { c.StateBackend = "redis" }, errMsg: `unknown state backend "redis"`},
		{name: "port zero", modify: func(c *Config) { c.Port = 0 }, errMsg: "invalid port 0"},
		{name: "port too high", modify: func(c *Config) { c.Port = 70000 }, errMsg: "invalid port 70000"},
		{name: "timeout", modify: func(c *Config) { c.CommandTimeout = 0 }, errMsg: "invalid command_timeout"},
		{name: "negative timeout", modify: func(c *Config) { c.CommandTimeout = -time.Second }, errMsg: "invalid command_timeout"},
		{name: "log level", modify: func(c *Config) { c.LogLevel = "trace" }, errMsg: `invalid log_level "trace"`},
		{name: "log format", modify: func(c *Config) { c.LogFormat = "xml" }, errMsg: `invalid log_format "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestResolveStatePath_Explicit(t *testing.T) {
	cfg := Default()
	cfg.StatePath = "/srv/state.json"

	path, err := cfg.ResolveStatePath()
	require.NoError(t, err)
	assert.Equal(t, "/srv/state.json", path)
}

func TestFormatOptions(t *testing.T) {
	assert.Equal(t, `"a"`, formatOptions([]string{"a"}))
	assert.Equal(t, `"a" or "b"`, formatOptions([]string{"a", "b"}))
	assert.Equal(t, `"a", "b", or "c"`, formatOptions([]string{"a", "b", "c"}))
}
