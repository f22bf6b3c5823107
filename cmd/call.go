package cmd

import (
	"errors"
	"fmt"

	"github.com/inovacc/git-pr-mcp/internal/tools"
	"github.com/spf13/cobra"
)

var callToken string

var errToolFailed = errors.New("tool call failed")

var callCmd = &cobra.Command{
	Use:   "call <tool> [key=value ...]",
	Short: "Run one tool and print its result",
	Long: `Run one tool through the same dispatcher the server uses and print the text
it returns. Arguments are key=value pairs; booleans and numbers may be given as
text (set_upstream=false, limit=5).

The active repository is shared with the server through the state store.`,
	Example: `  git-pr-mcp call get_git_status repo_path=.
  git-pr-mcp call clone_repository repo_url=https://github.com/octo/hello.git
  git-pr-mcp call get_commit_history limit=5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVar(&callToken, "token", "", "GitHub token (overrides GITHUB_TOKEN, GH_TOKEN and gh CLI)")
}

func runCall(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, ok := tools.Lookup(name); !ok {
		return fmt.Errorf("unknown tool %q, run '%s tools' to list them", name, rootCmd.Name())
	}

	toolArgs, err := tools.ParseKeyValues(args[1:])
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	token, err := resolveToken(callToken, cfg, logger)
	if err != nil {
		logger.Debug("no GitHub token, pull requests and authenticated pushes are unavailable", "error", err)
	}

	a, err := newApp(cmd.Context(), cfg, token, logger)
	if err != nil {
		return err
	}

	defer func() { _ = a.Close() }()

	out, err := a.dispatcher.Call(cmd.Context(), name, toolArgs)
	if err != nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(tools.Text(err)))
		cmd.SilenceErrors = true

		return errToolFailed
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)

	return nil
}
