package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Common error messages from git
const (
	errMsgAuthFailed       = "Authentication failed"
	errMsgPermissionDenied = "Permission denied"
	errMsgNoCredentials    = "could not read Username"
	errMsgNothingToCommit  = "nothing to commit"
	errMsgNoChangesAdded   = "no changes added to commit"
)

// GitError represents a failed git invocation
type GitError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	err      error
}

// NewGitError creates a GitError from command output and error
func NewGitError(args []string, stdout, stderr string, err error) *GitError {
	exitCode := -1

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	return &GitError{
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		err:      err,
	}
}

func (e *GitError) Error() string {
	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("git %s failed: %s", e.subcommand(), detail)
	}

	return fmt.Sprintf("git %s failed", e.subcommand())
}

func (e *GitError) Unwrap() error {
	return e.err
}

// Detail returns the most useful description of the failure: stderr, else stdout,
// else the underlying error text.
func (e *GitError) Detail() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}

	if s := strings.TrimSpace(e.Stdout); s != "" {
		return s
	}

	if e.err != nil {
		return e.err.Error()
	}

	return ""
}

func (e *GitError) subcommand() string {
	if len(e.Args) == 0 {
		return "command"
	}

	return e.Args[0]
}

// Detail returns the GitError detail for err when it wraps one, else err.Error()
func Detail(err error) string {
	if err == nil {
		return ""
	}

	var gitErr *GitError
	if errors.As(err, &gitErr) {
		return gitErr.Detail()
	}

	return err.Error()
}

// IsGitNotFound checks if the git executable could not be found
func IsGitNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

// IsAuthRequired checks if the error indicates authentication is required
func IsAuthRequired(err error) bool {
	return containsError(err, errMsgAuthFailed) ||
		containsError(err, errMsgPermissionDenied) ||
		containsError(err, errMsgNoCredentials)
}

// IsNothingToCommit checks if a commit failed only because there was nothing to record
func IsNothingToCommit(err error) bool {
	return containsError(err, errMsgNothingToCommit) || containsError(err, errMsgNoChangesAdded)
}

// containsError checks stdout and stderr of a GitError, or the error text, for msg
func containsError(err error, msg string) bool {
	if err == nil {
		return false
	}

	msg = strings.ToLower(msg)

	var gitErr *GitError
	if errors.As(err, &gitErr) {
		return strings.Contains(strings.ToLower(gitErr.Stderr), msg) ||
			strings.Contains(strings.ToLower(gitErr.Stdout), msg)
	}

	return strings.Contains(strings.ToLower(err.Error()), msg)
}
