// Package git provides a git client with credential helper support.
// Pattern inspired by github.com/cli/cli
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Environment exported to the credential helper process
const (
	TokenEnv     = "GITHUB_TOKEN"
	TokenHostEnv = "GITPR_CREDENTIAL_HOST"
)

// Client wraps git operations for a single working directory
type Client struct {
	GitPath   string // Path to git executable, empty when git is not installed
	RepoDir   string // Repository directory
	HelperCmd string // Executable used as credential helper for network operations (optional)
	Token     string // Token exported to the credential helper (optional)
	TokenHost string // The only host the helper may hand Token to
}

// NewClient creates a new git client
func NewClient() *Client {
	gitPath, _ := exec.LookPath("git")

	return &Client{GitPath: gitPath}
}

// WithCredentialHelper returns a copy of the client that authenticates network
// operations through "<helperCmd> auth git-credential". The helper answers
// only for tokenHost.
func (c *Client) WithCredentialHelper(helperCmd, token, tokenHost string) *Client {
	cp := *c
	cp.HelperCmd = helperCmd
	cp.Token = token
	cp.TokenHost = tokenHost

	return &cp
}

// Output holds the captured streams of a successful git invocation
type Output struct {
	Stdout string
	Stderr string
}

// Command creates a git command without authentication
// Note: Do not set Stdout/Stderr if you plan to use CombinedOutput()
func (c *Client) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.GitPath, args...)

	if c.RepoDir != "" {
		cmd.Dir = c.RepoDir
	}

	return cmd
}

// AuthenticatedCommand creates a git command with the credential helper configured.
// Without a helper it is equivalent to Command.
func (c *Client) AuthenticatedCommand(ctx context.Context, args ...string) *exec.Cmd {
	if c.HelperCmd == "" {
		return c.Command(ctx, args...)
	}

	credHelper := fmt.Sprintf("!%q auth git-credential", c.HelperCmd)

	// Clear inherited helpers so ours is consulted first
	preArgs := []string{
		"-c", "credential.helper=",
		"-c", fmt.Sprintf("credential.helper=%s", credHelper),
	}

	cmd := c.Command(ctx, append(preArgs, args...)...)
	if c.Token != "" {
		cmd.Env = append(os.Environ(), TokenEnv+"="+c.Token, TokenHostEnv+"="+c.TokenHost)
	}

	return cmd
}

func (c *Client) run(ctx context.Context, authenticated bool, args ...string) (*Output, error) {
	if c.GitPath == "" {
		return nil, NewGitError(args, "", "", exec.ErrNotFound)
	}

	var cmd *exec.Cmd
	if authenticated {
		cmd = c.AuthenticatedCommand(ctx, args...)
	} else {
		cmd = c.Command(ctx, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewGitError(args, stdout.String(), stderr.String(), err)
	}

	return &Output{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// Run executes an arbitrary git subcommand and returns its stdout
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	out, err := c.run(ctx, false, args...)
	if err != nil {
		return "", err
	}

	return out.Stdout, nil
}

// StatusPorcelain returns `git status --porcelain`
func (c *Client) StatusPorcelain(ctx context.Context) (string, error) {
	return c.Run(ctx, "status", "--porcelain")
}

// ListBranches returns `git branch -v`, including remote-tracking branches when all is set
func (c *Client) ListBranches(ctx context.Context, all bool) (string, error) {
	args := []string{"branch", "-v"}
	if all {
		args = append(args, "-a")
	}

	return c.Run(ctx, args...)
}

// CurrentBranch returns the current branch name
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// DiffStat returns the --stat summary of changes on head since it forked from base
func (c *Client) DiffStat(ctx context.Context, base, head string) (string, error) {
	return c.Run(ctx, "diff", fmt.Sprintf("%s...%s", base, head), "--stat")
}

// Log returns up to limit one-line commits reachable from ref (HEAD when empty)
func (c *Client) Log(ctx context.Context, limit int, ref string) (string, error) {
	args := []string{"log", "--max-count=" + strconv.Itoa(limit), "--oneline"}
	if ref != "" {
		args = append(args, ref)
	}

	return c.Run(ctx, args...)
}

// Diff returns `git diff [target]`
func (c *Client) Diff(ctx context.Context, target string) (string, error) {
	args := []string{"diff"}
	if target != "" {
		args = append(args, target)
	}

	return c.Run(ctx, args...)
}

// Clone clones a repository into targetPath
func (c *Client) Clone(ctx context.Context, cloneURL, targetPath string) error {
	_, err := c.run(ctx, true, "clone", cloneURL, targetPath)
	return err
}

// CheckoutNewBranch creates and checks out name, starting at base when given
func (c *Client) CheckoutNewBranch(ctx context.Context, name, base string) error {
	args := []string{"checkout", "-b", name}
	if base != "" {
		args = append(args, base)
	}

	_, err := c.run(ctx, false, args...)

	return err
}

// AddAll stages every change under the working directory
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.run(ctx, false, "add", ".")
	return err
}

// Commit creates a commit
func (c *Client) Commit(ctx context.Context, message string, opts CommitOptions) (*Output, error) {
	if opts.All {
		if err := c.AddAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to stage files: %w", err)
		}
	}

	return c.run(ctx, false, "commit", "-m", message)
}

// Push pushes branch to remote with authentication
func (c *Client) Push(ctx context.Context, remote, branch string, opts PushOptions) (*Output, error) {
	args := []string{"push"}

	if opts.SetUpstream {
		args = append(args, "-u")
	}

	if remote != "" {
		args = append(args, remote)
		if branch != "" {
			args = append(args, branch)
		}
	}

	return c.run(ctx, true, args...)
}

// PushOptions configures push behavior
type PushOptions struct {
	SetUpstream bool
}

// CommitOptions configures commit behavior
type CommitOptions struct {
	All bool // Stage all changes before committing
}
