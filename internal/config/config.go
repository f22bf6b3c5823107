package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/inovacc/git-pr-mcp/internal/application"
	"github.com/inovacc/git-pr-mcp/internal/store"
)

// FileName is the config file name inside the application directory
const FileName = "config.toml"

// EnvPrefix prefixes every environment override
const EnvPrefix = "GITPR_"

// Transport names
const (
	TransportSSE   = "sse"
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Valid enum values
var (
	Transports      = []string{TransportSSE, TransportHTTP, TransportStdio}
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"text", "json"}
)

// Config holds the git-pr-mcp configuration
type Config struct {
	Host           string        `toml:"host"`
	Port           int           `toml:"port"`
	Transport      string        `toml:"transport"`
	StateBackend   string        `toml:"state_backend"`
	StatePath      string        `toml:"state_path"` // derived from the backend when empty
	CloneRoot      string        `toml:"clone_root"` // OS temp dir when empty
	GitHubHost     string        `toml:"github_host"`
	GitHubAPIURL   string        `toml:"github_api_url"` // public API when empty
	ScanLeaks      bool          `toml:"scan_leaks"`
	CommandTimeout time.Duration `toml:"command_timeout"`
	LogLevel       string        `toml:"log_level"`
	LogFormat      string        `toml:"log_format"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           8000,
		Transport:      TransportSSE,
		StateBackend:   string(store.BackendFile),
		GitHubHost:     "github.com",
		CommandTimeout: 5 * time.Minute,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// DefaultPath returns the config file location in the application directory
func DefaultPath() (string, error) {
	dir, err := application.GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, FileName), nil
}

// Load reads the TOML file at path over the defaults and applies environment
// overrides. An empty path means DefaultPath. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}

		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// applyEnv overrides fields from GITPR_* variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	str("HOST", &c.Host)
	str("TRANSPORT", &c.Transport)
	str("STATE_BACKEND", &c.StateBackend)
	str("STATE_PATH", &c.StatePath)
	str("CLONE_ROOT", &c.CloneRoot)
	str("GITHUB_HOST", &c.GitHubHost)
	str("GITHUB_API_URL", &c.GitHubAPIURL)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := lookup(EnvPrefix + "PORT"); ok {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sPORT %q: %w", EnvPrefix, v, err)
		}

		c.Port = port
	}

	if v, ok := lookup(EnvPrefix + "SCAN_LEAKS"); ok {
		scan, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sSCAN_LEAKS %q: %w", EnvPrefix, v, err)
		}

		c.ScanLeaks = scan
	}

	if v, ok := lookup(EnvPrefix + "COMMAND_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sCOMMAND_TIMEOUT %q: %w", EnvPrefix, v, err)
		}

		c.CommandTimeout = d
	}

	return nil
}

// Validate checks enum fields, the port range and the timeout
func (c Config) Validate() error {
	if !slices.Contains(Transports, c.Transport) {
		return fmt.Errorf("invalid transport %q: must be %s", c.Transport, formatOptions(Transports))
	}

	if _, err := store.ParseBackend(c.StateBackend); err != nil {
		return err
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}

	if c.CommandTimeout <= 0 {
		return fmt.Errorf("invalid command_timeout %s: must be positive", c.CommandTimeout)
	}

	if !slices.Contains(ValidLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q: must be %s", c.LogLevel, formatOptions(ValidLogLevels))
	}

	if !slices.Contains(ValidLogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("invalid log_format %q: must be %s", c.LogFormat, formatOptions(ValidLogFormats))
	}

	return nil
}

// Backend returns the parsed state backend
func (c Config) Backend() (store.Backend, error) {
	return store.ParseBackend(c.StateBackend)
}

// ResolveStatePath returns StatePath, or the backend's default file in the
// application directory.
func (c Config) ResolveStatePath() (string, error) {
	if c.StatePath != "" {
		return c.StatePath, nil
	}

	backend, err := c.Backend()
	if err != nil {
		return "", err
	}

	dir, err := application.EnsureApplicationDirectory()
	if err != nil {
		return "", err
	}

	return store.DefaultPath(dir, backend), nil
}

// formatOptions renders ["a", "b", "c"] as `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = strconv.Quote(o)
	}

	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
