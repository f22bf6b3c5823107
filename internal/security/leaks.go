// Package security scans a checkout for secrets before it is pushed.
package security

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
	"github.com/zricethezav/gitleaks/v8/report"
	"github.com/zricethezav/gitleaks/v8/sources"
)

// unpushedLogOpts selects commits reachable from HEAD that no remote-tracking
// branch contains, which also covers branches without an upstream.
const unpushedLogOpts = "HEAD --not --remotes"

// Scanner checks a repository before push
type Scanner interface {
	ScanUnpushed(ctx context.Context, repoPath string) (*ScanResult, error)
}

// LeakScanner provides secret detection with the default gitleaks rules
type LeakScanner struct{}

// ScanResult contains the results of a leak scan
type ScanResult struct {
	Findings    []Finding
	HasLeaks    bool
	ScannedPath string
	Source      string // unpushed, staged or directory
}

// Finding represents a detected secret
type Finding struct {
	RuleID      string
	Description string
	File        string
	Line        int
	Secret      string // Redacted
	Commit      string
}

// NewLeakScanner creates a scanner; the gitleaks configuration is validated eagerly
func NewLeakScanner() (*LeakScanner, error) {
	if _, err := detect.NewDetectorDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load gitleaks config: %w", err)
	}

	return &LeakScanner{}, nil
}

// newDetector builds a fresh detector for repoPath. Detectors accumulate
// findings, so one is never shared between scans.
func (s *LeakScanner) newDetector(repoPath string) (*detect.Detector, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load gitleaks config: %w", err)
	}

	detector.Redact = 80 // Redact 80% of the secret

	ignorePath := filepath.Join(repoPath, ".gitleaksignore")
	if _, err := os.Stat(ignorePath); err == nil {
		if err := detector.AddGitleaksIgnore(ignorePath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", ignorePath, err)
		}
	}

	return detector, nil
}

// ScanUnpushed scans commits not yet on any remote, falling back to staged
// changes and then the working tree when git history cannot be read.
func (s *LeakScanner) ScanUnpushed(ctx context.Context, repoPath string) (*ScanResult, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	detector, err := s.newDetector(absPath)
	if err != nil {
		return nil, err
	}

	gitCmd, err := sources.NewGitLogCmdContext(ctx, absPath, unpushedLogOpts)
	if err != nil {
		return s.ScanStaged(ctx, absPath)
	}

	findings, err := detector.DetectSource(ctx, &sources.Git{
		Cmd:    gitCmd,
		Config: &detector.Config,
		Sema:   detector.Sema,
	})
	if err != nil {
		return s.ScanStaged(ctx, absPath)
	}

	return buildResult(findings, absPath, "unpushed"), nil
}

// ScanStaged scans staged changes, falling back to the working tree
func (s *LeakScanner) ScanStaged(ctx context.Context, repoPath string) (*ScanResult, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	detector, err := s.newDetector(absPath)
	if err != nil {
		return nil, err
	}

	gitCmd, err := sources.NewGitDiffCmd(absPath, true)
	if err != nil {
		return s.ScanDirectory(ctx, absPath)
	}

	findings, err := detector.DetectSource(ctx, &sources.Git{
		Cmd:    gitCmd,
		Config: &detector.Config,
		Sema:   detector.Sema,
	})
	if err != nil {
		return nil, fmt.Errorf("staged scan failed: %w", err)
	}

	return buildResult(findings, absPath, "staged"), nil
}

// ScanDirectory scans every file under path
func (s *LeakScanner) ScanDirectory(ctx context.Context, path string) (*ScanResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	detector, err := s.newDetector(absPath)
	if err != nil {
		return nil, err
	}

	findings, err := detector.DetectSource(ctx, &sources.Files{
		Path:   absPath,
		Config: &detector.Config,
		Sema:   detector.Sema,
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return buildResult(findings, absPath, "directory"), nil
}

func buildResult(findings []report.Finding, path, source string) *ScanResult {
	result := &ScanResult{
		ScannedPath: path,
		Source:      source,
		HasLeaks:    len(findings) > 0,
		Findings:    make([]Finding, 0, len(findings)),
	}

	for _, f := range findings {
		result.Findings = append(result.Findings, Finding{
			RuleID:      f.RuleID,
			Description: f.Description,
			File:        f.File,
			Line:        f.StartLine,
			Secret:      f.Secret,
			Commit:      f.Commit,
		})
	}

	return result
}

// ErrLeaksFound is wrapped by BlockedError
var ErrLeaksFound = errors.New("potential secrets found")

// BlockedError reports findings that stopped a push
type BlockedError struct {
	Findings []Finding
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("push blocked, found %d potential secret(s): %s", len(e.Findings), Summary(e.Findings))
}

func (e *BlockedError) Unwrap() error {
	return ErrLeaksFound
}

// Summary renders findings as "rule@file:line" joined by ", "
func Summary(findings []Finding) string {
	parts := make([]string, 0, len(findings))

	for _, f := range findings {
		parts = append(parts, fmt.Sprintf("%s@%s:%d", f.RuleID, f.File, f.Line))
	}

	return strings.Join(parts, ", ")
}
