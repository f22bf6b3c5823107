package tools

import (
	"context"
	"fmt"
	"strings"
)

// Tools that run git against a caller-supplied path.

func (d *Dispatcher) getGitStatus(ctx context.Context, args Args) (string, error) {
	repoPath, err := args.String("repo_path", ".")
	if err != nil {
		return "", err
	}

	out, err := d.clientFor(repoPath).StatusPorcelain(ctx)
	if err != nil {
		return "", gitFailure(err, "Error running git status")
	}

	status := strings.TrimRight(out, " \t\r\n")
	if status == "" {
		return "Repository is clean - no changes detected.", nil
	}

	return "Git Status:\n" + status, nil
}

func (d *Dispatcher) listBranches(ctx context.Context, args Args) (string, error) {
	repoPath, err := args.String("repo_path", ".")
	if err != nil {
		return "", err
	}

	remote, err := args.Bool("remote", false)
	if err != nil {
		return "", err
	}

	out, err := d.clientFor(repoPath).ListBranches(ctx, remote)
	if err != nil {
		return "", gitFailure(err, "Error running git branch")
	}

	return "Branches:\n" + strings.TrimRight(out, " \t\r\n"), nil
}

func (d *Dispatcher) createPRSummary(ctx context.Context, args Args) (string, error) {
	base, err := args.RequireString("base_branch")
	if err != nil {
		return "", err
	}

	head, err := args.String("head_branch", "")
	if err != nil {
		return "", err
	}

	repoPath, err := args.String("repo_path", ".")
	if err != nil {
		return "", err
	}

	client := d.clientFor(repoPath)

	if head == "" {
		head, err = client.CurrentBranch(ctx)
		if err != nil {
			return "", gitFailure(err, "Error creating PR summary")
		}
	}

	out, err := client.DiffStat(ctx, base, head)
	if err != nil {
		return "", gitFailure(err, "Error creating PR summary")
	}

	stat := strings.TrimRight(out, " \t\r\n")
	if stat == "" {
		return fmt.Sprintf("No differences found between %s and %s", base, head), nil
	}

	return fmt.Sprintf("PR Summary (%s -> %s):\n\nChanges:\n%s", head, base, stat), nil
}

func (d *Dispatcher) getCommitHistory(ctx context.Context, args Args) (string, error) {
	branch, err := args.String("branch", "")
	if err != nil {
		return "", err
	}

	limit, err := args.Int("limit", 10)
	if err != nil {
		return "", err
	}

	repoPath, err := args.String("repo_path", ".")
	if err != nil {
		return "", err
	}

	out, err := d.clientFor(repoPath).Log(ctx, limit, branch)
	if err != nil {
		return "", gitFailure(err, "Error getting commit history")
	}

	commits := strings.TrimRight(out, " \t\r\n")
	if commits == "" {
		return "No commits found", nil
	}

	label := ""
	if branch != "" {
		label = fmt.Sprintf(" for branch '%s'", branch)
	}

	return fmt.Sprintf("Recent commits%s:\n%s", label, commits), nil
}

func (d *Dispatcher) getGitDiff(ctx context.Context, args Args) (string, error) {
	target, err := args.String("target", "")
	if err != nil {
		return "", err
	}

	repoPath, err := args.String("repo_path", ".")
	if err != nil {
		return "", err
	}

	out, err := d.clientFor(repoPath).Diff(ctx, target)
	if err != nil {
		return "", gitFailure(err, "Error running git diff")
	}

	label := " (working directory vs HEAD)"
	if target != "" {
		label = " against " + target
	}

	diff := strings.TrimRight(out, " \t\r\n")
	if diff == "" {
		return "No differences found" + label, nil
	}

	return fmt.Sprintf("Git Diff%s:\n%s", label, diff), nil
}
