package tools

import (
	"errors"
	"fmt"

	"github.com/inovacc/git-pr-mcp/internal/git"
)

// Shared error texts
const (
	msgNoActiveRepository = "Error: No active repository. Please clone a repository first using 'clone_repository'."
	msgMissingCoordinates = "Error: Active repository details (owner/name) not found or incomplete. " +
		"Ensure the repository was cloned successfully and owner/name could be parsed from the URL."
	msgGitNotFound = "Error: Git command not found. Please ensure Git is installed and in your PATH."
	msgAuthHint    = "Hint: the remote rejected the credentials. Check that the GitHub token can access this repository " +
		"and that the URL points at the configured GitHub host."
)

// ToolError is a failed tool call. Text is the complete message returned to the caller.
type ToolError struct {
	Text string
	Err  error
}

func (e *ToolError) Error() string {
	return e.Text
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func toolErrorf(err error, format string, args ...any) *ToolError {
	return &ToolError{Text: fmt.Sprintf(format, args...), Err: err}
}

// gitFailure renders a git error as "<prefix>: <detail>", or the git-not-found
// text. Authentication failures get a hint line.
func gitFailure(err error, format string, args ...any) *ToolError {
	if git.IsGitNotFound(err) {
		return &ToolError{Text: msgGitNotFound, Err: err}
	}

	text := fmt.Sprintf(format, args...) + ": " + git.Detail(err)
	if git.IsAuthRequired(err) {
		text += "\n" + msgAuthHint
	}

	return &ToolError{Text: text, Err: err}
}

// Text returns the caller-facing message for any error returned by Call
func Text(err error) string {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Text
	}

	return "Error: " + err.Error()
}
