// Package tools routes named tool calls to git and GitHub operations and
// renders every outcome, including failures, as text.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/git-pr-mcp/internal/git"
	"github.com/inovacc/git-pr-mcp/internal/github"
	"github.com/inovacc/git-pr-mcp/internal/security"
	"github.com/inovacc/git-pr-mcp/internal/workspace"
)

type handler func(ctx context.Context, args Args) (string, error)

// Options configures a Dispatcher
type Options struct {
	Workspace    *workspace.Workspace
	PullRequests github.PullRequestCreator
	Scanner      security.Scanner // nil disables the pre-push scan
	Git          *git.Client      // Base client for caller-path tools
	Timeout      time.Duration    // Per-call limit, none when zero
	Logger       *slog.Logger
}

// Dispatcher executes tools by name
type Dispatcher struct {
	ws       *workspace.Workspace
	prs      github.PullRequestCreator
	scanner  security.Scanner
	git      *git.Client
	timeout  time.Duration
	logger   *slog.Logger
	handlers map[string]handler
}

// NewDispatcher creates a Dispatcher over ws
func NewDispatcher(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gitClient := opts.Git
	if gitClient == nil {
		gitClient = git.NewClient()
	}

	d := &Dispatcher{
		ws:      opts.Workspace,
		prs:     opts.PullRequests,
		scanner: opts.Scanner,
		git:     gitClient,
		timeout: opts.Timeout,
		logger:  logger.With("component", "tools"),
	}

	d.handlers = map[string]handler{
		"get_git_status":     d.getGitStatus,
		"list_branches":      d.listBranches,
		"create_pr_summary":  d.createPRSummary,
		"get_commit_history": d.getCommitHistory,
		"get_git_diff":       d.getGitDiff,
		"clone_repository":   d.cloneRepository,
		"create_git_branch":  d.createGitBranch,
		"write_file_in_repo": d.writeFileInRepo,
		"read_file_in_repo":  d.readFileInRepo,
		"list_files_in_repo": d.listFilesInRepo,
		"git_commit_changes": d.gitCommitChanges,
		"git_push_branch":    d.gitPushBranch,
		"create_github_pr":   d.createGitHubPR,
	}

	return d
}

// Call runs the named tool. Errors are *ToolError values whose text is the
// caller-facing message.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	h, ok := d.handlers[name]
	if !ok {
		return "", &ToolError{Text: fmt.Sprintf("Error: unknown tool '%s'", name)}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	logger := d.logger.With("tool", name, "call_id", uuid.NewString())
	logger.Info("tool call started")

	start := time.Now()

	result, err := h(ctx, Args(args))
	if err != nil {
		logger.Warn("tool call failed", "duration", time.Since(start), "error", err)
		return "", err
	}

	logger.Info("tool call finished", "duration", time.Since(start))

	return result, nil
}

// clientFor returns a git client for a caller-supplied path
func (d *Dispatcher) clientFor(path string) *git.Client {
	c := *d.git
	c.RepoDir = path

	return &c
}

// withActive runs fn against the active repository under the workspace lock
func (d *Dispatcher) withActive(fn func(path string) (string, error)) (string, error) {
	var result string

	err := d.ws.Run(func(repo activeRepo) error {
		var err error
		result, err = fn(repo.Path)

		return err
	})
	if errors.Is(err, workspace.ErrNoActiveRepository) {
		return "", &ToolError{Text: msgNoActiveRepository, Err: err}
	}

	return result, err
}
