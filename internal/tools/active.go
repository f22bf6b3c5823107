package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inovacc/git-pr-mcp/internal/git"
	"github.com/inovacc/git-pr-mcp/internal/github"
	"github.com/inovacc/git-pr-mcp/internal/model"
	"github.com/inovacc/git-pr-mcp/internal/security"
	"github.com/inovacc/git-pr-mcp/internal/workspace"
)

type activeRepo = model.ActiveRepository

// Tools that act on the active repository.

func (d *Dispatcher) cloneRepository(ctx context.Context, args Args) (string, error) {
	url, err := args.RequireString("repo_url")
	if err != nil {
		return "", err
	}

	repo, err := d.ws.Clone(ctx, url)
	if err != nil {
		return "", gitFailure(err, "Error cloning repository %s", url)
	}

	msg := fmt.Sprintf("Repository %s cloned successfully to %s and set as active. State saved.", url, repo.Path)
	if repo.HasCoordinates() {
		msg += fmt.Sprintf(" Parsed owner: '%s', name: '%s'.", repo.Owner, repo.Name)
	} else {
		msg += " Could not parse owner/name from URL for GitHub operations."
	}

	return msg, nil
}

func (d *Dispatcher) createGitBranch(ctx context.Context, args Args) (string, error) {
	name, err := args.RequireString("branch_name")
	if err != nil {
		return "", err
	}

	base, err := args.String("base_branch", "")
	if err != nil {
		return "", err
	}

	return d.withActive(func(path string) (string, error) {
		if err := d.ws.GitFor(path).CheckoutNewBranch(ctx, name, base); err != nil {
			return "", gitFailure(err, "Error creating branch '%s'", name)
		}

		from := base
		if from == "" {
			from = "current HEAD"
		}

		return fmt.Sprintf("Branch '%s' created successfully and checked out from '%s' in %s.", name, from, path), nil
	})
}

func (d *Dispatcher) writeFileInRepo(_ context.Context, args Args) (string, error) {
	rel, err := args.RequireString("relative_file_path")
	if err != nil {
		return "", err
	}

	content, err := args.RequireString("content")
	if err != nil {
		return "", err
	}

	return d.withActive(func(path string) (string, error) {
		full, err := workspace.ResolvePath(path, rel)
		if err != nil {
			return "", toolErrorf(err, "Error writing file %s in active repo: %v", full, err)
		}

		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return "", toolErrorf(err, "Error writing file %s in active repo: %v", full, err)
		}

		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return "", toolErrorf(err, "Error writing file %s in active repo: %v", full, err)
		}

		return "Successfully wrote content to " + full, nil
	})
}

func (d *Dispatcher) readFileInRepo(_ context.Context, args Args) (string, error) {
	rel, err := args.RequireString("relative_file_path")
	if err != nil {
		return "", err
	}

	return d.withActive(func(path string) (string, error) {
		full, err := workspace.ResolvePath(path, rel)
		if err != nil {
			return "", toolErrorf(err, "Error reading file %s in active repo: %v", full, err)
		}

		info, err := os.Stat(full)
		if errors.Is(err, fs.ErrNotExist) {
			return "", toolErrorf(err, "Error: File not found at %s", full)
		}

		if err != nil {
			return "", toolErrorf(err, "Error reading file %s in active repo: %v", full, err)
		}

		if !info.Mode().IsRegular() {
			return "", toolErrorf(nil, "Error: Path exists but is not a file: %s", full)
		}

		data, err := os.ReadFile(full)
		if err != nil {
			return "", toolErrorf(err, "Error reading file %s in active repo: %v", full, err)
		}

		return string(data), nil
	})
}

func (d *Dispatcher) listFilesInRepo(_ context.Context, _ Args) (string, error) {
	return d.withActive(func(path string) (string, error) {
		var files []string

		err := filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				if entry.Name() == ".git" && p != path {
					return filepath.SkipDir
				}

				return nil
			}

			rel, err := filepath.Rel(path, p)
			if err != nil {
				return err
			}

			files = append(files, filepath.ToSlash(rel))

			return nil
		})
		if err != nil {
			return "", toolErrorf(err, "Error listing files in active repo %s: %v", path, err)
		}

		if len(files) == 0 {
			return "No files found in the active repository.", nil
		}

		sort.Strings(files)

		return "Files in repository:\n" + strings.Join(files, "\n"), nil
	})
}

func (d *Dispatcher) gitCommitChanges(ctx context.Context, args Args) (string, error) {
	message, err := args.RequireString("commit_message")
	if err != nil {
		return "", err
	}

	return d.withActive(func(path string) (string, error) {
		noChanges := fmt.Sprintf("No changes to commit in active repo (%s). Working tree clean.", path)

		out, err := d.ws.GitFor(path).Commit(ctx, message, git.CommitOptions{All: true})
		if err != nil {
			if git.IsNothingToCommit(err) {
				return noChanges, nil
			}

			return "", gitFailure(err, "Error during git operation in active repo (%s)", path)
		}

		if strings.Contains(out.Stdout, "nothing to commit, working tree clean") ||
			strings.Contains(out.Stdout, "no changes added to commit") {
			return noChanges, nil
		}

		return fmt.Sprintf("Changes committed successfully in active repo (%s) with message: '%s'.", path, message), nil
	})
}

func (d *Dispatcher) gitPushBranch(ctx context.Context, args Args) (string, error) {
	branch, err := args.RequireString("branch_name")
	if err != nil {
		return "", err
	}

	setUpstream, err := args.Bool("set_upstream", true)
	if err != nil {
		return "", err
	}

	return d.withActive(func(path string) (string, error) {
		if err := d.scanBeforePush(ctx, path); err != nil {
			return "", toolErrorf(err, "Error pushing branch '%s' in active repo (%s): %v", branch, path, err)
		}

		out, err := d.ws.GitFor(path).Push(ctx, "origin", branch, git.PushOptions{SetUpstream: setUpstream})
		if err != nil {
			return "", gitFailure(err, "Error pushing branch '%s' in active repo (%s)", branch, path)
		}

		msg := fmt.Sprintf("Branch '%s' pushed to origin successfully from active repo (%s).", branch, path)

		if s := strings.TrimSpace(out.Stdout); s != "" {
			msg += "\nOutput:\n" + s
		}

		if s := strings.TrimSpace(out.Stderr); s != "" {
			msg += "\nInfo:\n" + s
		}

		return msg, nil
	})
}

// scanBeforePush returns a *security.BlockedError when the scan finds secrets.
// A scan that cannot run is logged and does not block the push.
func (d *Dispatcher) scanBeforePush(ctx context.Context, path string) error {
	if d.scanner == nil {
		return nil
	}

	result, err := d.scanner.ScanUnpushed(ctx, path)
	if err != nil {
		d.logger.Warn("leak scan failed, pushing anyway", "path", path, "error", err)
		return nil
	}

	if result.HasLeaks {
		d.logger.Warn("push blocked by leak scan", "path", path, "findings", len(result.Findings))
		return &security.BlockedError{Findings: result.Findings}
	}

	return nil
}

func (d *Dispatcher) createGitHubPR(ctx context.Context, args Args) (string, error) {
	title, err := args.RequireString("title")
	if err != nil {
		return "", err
	}

	body, err := args.RequireString("body")
	if err != nil {
		return "", err
	}

	base, err := args.RequireString("base_branch")
	if err != nil {
		return "", err
	}

	head, err := args.RequireString("head_branch")
	if err != nil {
		return "", err
	}

	draft, err := args.Bool("draft", false)
	if err != nil {
		return "", err
	}

	var result string

	err = d.ws.Run(func(repo activeRepo) error {
		if !repo.HasCoordinates() {
			return &ToolError{Text: msgMissingCoordinates}
		}

		if d.prs == nil {
			return toolErrorf(nil, "Error creating GitHub PR for active repo %s ('%s' -> '%s'): no GitHub client configured",
				repo.FullName(), head, base)
		}

		url, err := d.prs.CreatePullRequest(ctx, repo.Owner, repo.Name, github.PullRequest{
			Title: title,
			Body:  body,
			Head:  head,
			Base:  base,
			Draft: draft,
		})
		if err != nil {
			return toolErrorf(err, "Error creating GitHub PR for active repo %s ('%s' -> '%s'): %s",
				repo.FullName(), head, base, github.DescribeError(err))
		}

		result = "Successfully created PR: " + url

		return nil
	})
	if errors.Is(err, workspace.ErrNoActiveRepository) {
		return "", &ToolError{Text: msgNoActiveRepository, Err: err}
	}

	return result, err
}
