package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/inovacc/git-pr-mcp/internal/auth"
	"github.com/inovacc/git-pr-mcp/internal/config"
	"github.com/inovacc/git-pr-mcp/internal/git"
	"github.com/inovacc/git-pr-mcp/internal/github"
	"github.com/inovacc/git-pr-mcp/internal/security"
	"github.com/inovacc/git-pr-mcp/internal/store"
	"github.com/inovacc/git-pr-mcp/internal/tools"
	"github.com/inovacc/git-pr-mcp/internal/workspace"
)

// app is the dispatcher and everything it owns
type app struct {
	store      store.Store
	workspace  *workspace.Workspace
	dispatcher *tools.Dispatcher
}

// newApp wires the state store, workspace, GitHub client and scanner into a
// dispatcher. An empty token leaves create_github_pr unconfigured.
func newApp(ctx context.Context, cfg config.Config, token string, logger *slog.Logger) (*app, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	gitClient := git.NewClient()

	if token != "" {
		exe, err := os.Executable()
		if err != nil {
			logger.Warn("cannot locate own executable, git will use its own credential helpers", "error", err)
		} else {
			gitClient = gitClient.WithCredentialHelper(exe, token, cfg.GitHubHost)
		}
	}

	ws := workspace.New(workspace.Options{
		Store:     st,
		Git:       gitClient,
		CloneRoot: cfg.CloneRoot,
		Logger:    logger,
	})
	ws.Load()

	opts := tools.Options{
		Workspace: ws,
		Git:       gitClient,
		Timeout:   cfg.CommandTimeout,
		Logger:    logger,
	}

	if token != "" {
		gh, err := github.NewClient(ctx, token, cfg.GitHubAPIURL)
		if err != nil {
			_ = st.Close()
			return nil, err
		}

		opts.PullRequests = gh
	}

	if cfg.ScanLeaks {
		scanner, err := security.NewLeakScanner()
		if err != nil {
			_ = st.Close()
			return nil, err
		}

		opts.Scanner = scanner
	}

	return &app{
		store:      st,
		workspace:  ws,
		dispatcher: tools.NewDispatcher(opts),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func openStore(cfg config.Config) (store.Store, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}

	path, err := cfg.ResolveStatePath()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(backend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s state store at %s: %w", backend, path, err)
	}

	return st, nil
}

// resolveToken returns the GitHub token for the configured host
func resolveToken(flagToken string, cfg config.Config, logger *slog.Logger) (string, error) {
	result, err := auth.ResolveGitHubToken(flagToken, cfg.GitHubHost)
	if err != nil {
		return "", err
	}

	logger.Debug("resolved GitHub token", "source", result.Source)

	return result.Token, nil
}
