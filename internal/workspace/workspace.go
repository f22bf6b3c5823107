// Package workspace owns the active repository: the single checkout that
// branch, write, commit, push and pull request operations act on.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/inovacc/git-pr-mcp/internal/git"
	"github.com/inovacc/git-pr-mcp/internal/gitconfig"
	"github.com/inovacc/git-pr-mcp/internal/giturl"
	"github.com/inovacc/git-pr-mcp/internal/model"
	"github.com/inovacc/git-pr-mcp/internal/store"
)

// ClonePrefix prefixes every temporary checkout directory
const ClonePrefix = "mcp_clone_"

var (
	// ErrNoActiveRepository is returned when an operation needs a checkout and none is set
	ErrNoActiveRepository = errors.New("no active repository")

	// ErrPathOutsideRepository is returned when a relative path escapes the checkout
	ErrPathOutsideRepository = errors.New("path is outside the active repository")
)

// Options configures a Workspace
type Options struct {
	Store     store.Store
	Git       *git.Client // Base client; clones use it and per-checkout clients copy its settings
	CloneRoot string      // Parent of temporary checkouts, OS temp dir when empty
	Logger    *slog.Logger
}

// Workspace holds the active repository and serialises operations on it
type Workspace struct {
	mu        sync.Mutex
	store     store.Store
	git       *git.Client
	cloneRoot string
	logger    *slog.Logger
	active    model.ActiveRepository
}

// New creates a Workspace with no active repository. Call Load to adopt the stored record.
func New(opts Options) *Workspace {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gitClient := opts.Git
	if gitClient == nil {
		gitClient = git.NewClient()
	}

	return &Workspace{
		store:     opts.Store,
		git:       gitClient,
		cloneRoot: opts.CloneRoot,
		logger:    logger.With("component", "workspace"),
	}
}

// Load adopts the stored record when its path is still a directory. A missing,
// unreadable or stale record leaves the workspace empty.
func (w *Workspace) Load() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.active = model.ActiveRepository{}

	if w.store == nil {
		return
	}

	stored, err := w.store.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			w.logger.Info("no saved state, starting fresh")
		} else {
			w.logger.Error("failed to load state, starting fresh", "error", err)
		}

		return
	}

	if !stored.IsActive() {
		w.logger.Info("saved state has no active repository, starting fresh")
		return
	}

	if info, err := os.Stat(stored.Path); err != nil || !info.IsDir() {
		w.logger.Warn("saved state references a path that no longer exists, ignoring", "path", stored.Path)
		return
	}

	w.active = *stored
	w.logger.Info("loaded active repository", "path", stored.Path, "url", stored.URL)

	w.checkOrigin(stored)
}

// checkOrigin warns when the checkout's origin no longer matches the stored URL
func (w *Workspace) checkOrigin(repo *model.ActiveRepository) {
	origin, err := gitconfig.OriginURL(repo.Path)
	if err != nil {
		w.logger.Warn("could not read origin of active repository", "path", repo.Path, "error", err)
		return
	}

	if repo.URL != "" && origin != repo.URL {
		w.logger.Warn("active repository origin differs from saved URL",
			"path", repo.Path, "origin", origin, "saved_url", repo.URL)
	}
}

// Active returns a copy of the current record
func (w *Workspace) Active() model.ActiveRepository {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.active
}

// Run calls fn with the active repository while holding the workspace lock.
// It returns ErrNoActiveRepository without calling fn when none is set.
func (w *Workspace) Run(fn func(repo model.ActiveRepository) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active.IsActive() {
		return ErrNoActiveRepository
	}

	return fn(w.active)
}

// GitFor returns a git client bound to the checkout at path
func (w *Workspace) GitFor(path string) *git.Client {
	c := *w.git
	c.RepoDir = path

	return &c
}

// Clone replaces the active repository with a fresh clone of url.
// The previous checkout is deleted and the cleared record persisted before
// cloning; on failure the workspace stays empty.
func (w *Workspace) Clone(ctx context.Context, url string) (model.ActiveRepository, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if prev := w.active.Path; prev != "" {
		if _, err := os.Stat(prev); err == nil {
			w.logger.Info("removing previous active repository", "path", prev)

			if err := os.RemoveAll(prev); err != nil {
				w.logger.Warn("failed to remove previous repository directory", "path", prev, "error", err)
			}
		}
	}

	w.active = model.ActiveRepository{}
	w.save()

	root := w.cloneRoot
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return model.ActiveRepository{}, fmt.Errorf("failed to create clone root %s: %w", root, err)
		}
	}

	dir, err := os.MkdirTemp(root, ClonePrefix)
	if err != nil {
		return model.ActiveRepository{}, fmt.Errorf("failed to create clone directory: %w", err)
	}

	w.logger.Info("cloning repository", "url", url, "path", dir)

	if err := w.git.Clone(ctx, url, dir); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			w.logger.Warn("failed to clean up after failed clone", "path", dir, "error", rmErr)
		}

		return model.ActiveRepository{}, err
	}

	owner, name, _ := giturl.ParseOwnerName(url)

	w.active = model.ActiveRepository{
		Path:  dir,
		URL:   url,
		Owner: owner,
		Name:  name,
	}
	w.save()

	return w.active, nil
}

// Clear resets to no active repository and persists it. The checkout is left on disk.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.active = model.ActiveRepository{}
	w.save()
}

// save persists the current record; failures are logged, not returned
func (w *Workspace) save() {
	if w.store == nil {
		return
	}

	if err := w.store.Save(&w.active); err != nil {
		w.logger.Error("failed to save state", "error", err)
		return
	}

	w.logger.Debug("saved active repository state", "path", w.active.Path)
}

// ResolvePath joins rel onto root and rejects results outside root
func ResolvePath(root, rel string) (string, error) {
	full := filepath.Join(root, rel)

	relToRoot, err := filepath.Rel(root, full)
	if err != nil {
		return full, fmt.Errorf("%w: %s", ErrPathOutsideRepository, rel)
	}

	if relToRoot == ".." || strings.HasPrefix(relToRoot, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return full, fmt.Errorf("%w: %s", ErrPathOutsideRepository, rel)
	}

	return full, nil
}
