package cmd

import (
	"log/slog"
	"os"

	"github.com/inovacc/git-pr-mcp/internal/application"
	"github.com/inovacc/git-pr-mcp/internal/config"
	"github.com/inovacc/git-pr-mcp/internal/logging"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "MCP server for a clone, branch, commit, push and pull request workflow",
	Long: `git-pr-mcp exposes git and GitHub operations as Model Context Protocol tools.

An assistant clones a repository, which becomes the active repository, then
creates a branch, edits files, commits, pushes and opens a pull request.
Read-only tools inspect any local repository by path.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <user config dir>/git-pr-mcp/config.toml)")
}

// loadConfig reads and validates the configuration, then installs the logger
// it describes. Logs always go to stderr.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger, err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, err
	}

	return cfg, logger, nil
}
