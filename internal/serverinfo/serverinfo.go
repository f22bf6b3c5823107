// Package serverinfo records the running server in a JSON file so that
// "server stop" and "server status" can find it.
package serverinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inovacc/git-pr-mcp/internal/application"
	"github.com/inovacc/git-pr-mcp/internal/process"
)

// FileName is the server info file inside the application directory
const FileName = "server.json"

// ErrNoServerInfo indicates no server info file exists
var ErrNoServerInfo = errors.New("no server info file")

// Info describes a running server
type Info struct {
	PID       int       `json:"pid"`
	Address   string    `json:"address,omitempty"` // empty for stdio
	Transport string    `json:"transport"`
	StartedAt time.Time `json:"started_at"`
}

// DefaultPath returns the server info location in the application directory
func DefaultPath() (string, error) {
	dir, err := application.GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, FileName), nil
}

// New describes the current process
func New(address, transport string) Info {
	return Info{
		PID:       os.Getpid(),
		Address:   address,
		Transport: transport,
		StartedAt: time.Now(),
	}
}

// Write stores info at path
func Write(path string, info Info) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create server info directory: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal server info: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write server info file: %w", err)
	}

	return nil
}

// Read loads the info at path
func Read(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoServerInfo
		}

		return nil, fmt.Errorf("failed to read server info: %w", err)
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse server info: %w", err)
	}

	return &info, nil
}

// Remove deletes the info file, ignoring errors
func Remove(path string) {
	_ = os.Remove(path)
}

// Running returns the recorded server when its process is alive. A record
// left by a dead process is removed.
func Running(path string) *Info {
	return running(path, process.IsRunning)
}

func running(path string, alive func(pid int) bool) *Info {
	info, err := Read(path)
	if err != nil {
		return nil
	}

	if alive(info.PID) {
		return info
	}

	Remove(path)

	return nil
}
