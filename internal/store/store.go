package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/inovacc/git-pr-mcp/internal/model"
)

// ErrNotFound is returned by Load when no record has been saved
var ErrNotFound = errors.New("no active repository record")

// Backend names a storage implementation
type Backend string

const (
	BackendFile   Backend = "file"
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
)

// Backends lists every supported backend
var Backends = []Backend{BackendFile, BackendBolt, BackendSQLite}

// Store loads and saves the active repository record.
type Store interface {
	Load() (*model.ActiveRepository, error)
	Save(repo *model.ActiveRepository) error
	Close() error
}

// ParseBackend validates a backend name
func ParseBackend(name string) (Backend, error) {
	for _, b := range Backends {
		if string(b) == name {
			return b, nil
		}
	}

	return "", fmt.Errorf("unknown state backend %q (want file, bolt or sqlite)", name)
}

// DefaultPath returns the state location for backend inside dir
func DefaultPath(dir string, backend Backend) string {
	switch backend {
	case BackendBolt:
		return filepath.Join(dir, "active_repo_state.bolt")
	case BackendSQLite:
		return filepath.Join(dir, "active_repo_state.db")
	default:
		return filepath.Join(dir, "active_repo_state.json")
	}
}

// Open opens the named backend at path
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFile(path), nil
	case BackendBolt:
		return NewBolt(path)
	case BackendSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown state backend %q", backend)
	}
}
