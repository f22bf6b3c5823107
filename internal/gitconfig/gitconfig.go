// Package gitconfig reads remotes from a checkout's .git/config.
package gitconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrNoRemote is returned when the requested remote is not configured
var ErrNoRemote = errors.New("remote not configured")

// Remote is a [remote "<name>"] section
type Remote struct {
	Name  string `ini:"-"`
	URL   string `ini:"url"`
	Fetch string `ini:"fetch"`
}

// Config holds the parts of .git/config this server cares about
type Config struct {
	Bare    bool
	Remotes map[string]Remote
}

const remotePrefix = `remote "`

// Load parses <repoDir>/.git/config
func Load(repoDir string) (*Config, error) {
	path := filepath.Join(repoDir, ".git", "config")

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("git config not found: %w", err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		AllowShadows:        true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg := &Config{
		Bare:    file.Section("core").Key("bare").MustBool(false),
		Remotes: make(map[string]Remote),
	}

	for _, sec := range file.Sections() {
		name := sec.Name()
		if !strings.HasPrefix(name, remotePrefix) || !strings.HasSuffix(name, `"`) {
			continue
		}

		var remote Remote
		if err := sec.MapTo(&remote); err != nil {
			return nil, fmt.Errorf("failed to read section %s: %w", name, err)
		}

		remote.Name = name[len(remotePrefix) : len(name)-1]
		cfg.Remotes[remote.Name] = remote
	}

	return cfg, nil
}

// RemoteURL returns the URL of the named remote
func (c *Config) RemoteURL(name string) (string, error) {
	remote, ok := c.Remotes[name]
	if !ok || remote.URL == "" {
		return "", fmt.Errorf("%w: %s", ErrNoRemote, name)
	}

	return remote.URL, nil
}

// RemoteNames returns configured remote names in sorted order
func (c *Config) RemoteNames() []string {
	names := make([]string, 0, len(c.Remotes))
	for name := range c.Remotes {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// OriginURL is a shortcut for reading the origin remote of repoDir
func OriginURL(repoDir string) (string, error) {
	cfg, err := Load(repoDir)
	if err != nil {
		return "", err
	}

	return cfg.RemoteURL("origin")
}
