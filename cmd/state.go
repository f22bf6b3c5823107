package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/inovacc/git-pr-mcp/internal/gitconfig"
	"github.com/inovacc/git-pr-mcp/internal/model"
	"github.com/inovacc/git-pr-mcp/internal/serverinfo"
	"github.com/inovacc/git-pr-mcp/internal/store"
	"github.com/inovacc/git-pr-mcp/internal/workspace"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or reset the persisted active repository",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved active repository",
	Args:  cobra.NoArgs,
	RunE:  runStateShow,
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the active repository (the checkout stays on disk)",
	Args:  cobra.NoArgs,
	RunE:  runStateClear,
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateClearCmd)
}

func runStateShow(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer func() { _ = st.Close() }()

	out := cmd.OutOrStdout()

	repo, err := st.Load()
	if errors.Is(err, store.ErrNotFound) || (err == nil && !repo.IsActive()) {
		_, _ = fmt.Fprintln(out, mutedStyle.Render("No active repository"))
		return nil
	}

	if err != nil {
		return err
	}

	printRepository(out, repo)

	return nil
}

func printRepository(out io.Writer, repo *model.ActiveRepository) {
	_, _ = fmt.Fprintln(out, titleStyle.Render("Active repository"))
	_, _ = fmt.Fprintf(out, "  Path: %s\n", repo.Path)
	_, _ = fmt.Fprintf(out, "  URL: %s\n", valueOrNone(repo.URL))

	if repo.HasCoordinates() {
		_, _ = fmt.Fprintf(out, "  GitHub: %s\n", repo.FullName())
	} else {
		_, _ = fmt.Fprintf(out, "  GitHub: %s\n", mutedStyle.Render("(owner/name unknown)"))
	}

	if info, err := os.Stat(repo.Path); err != nil || !info.IsDir() {
		_, _ = fmt.Fprintf(out, "  %s\n", errorStyle.Render("checkout is missing, the record will be ignored on startup"))
		return
	}

	gc, err := gitconfig.Load(repo.Path)
	if err != nil {
		_, _ = fmt.Fprintf(out, "  %s\n", errorStyle.Render("cannot read git config: "+err.Error()))
		return
	}

	for _, name := range gc.RemoteNames() {
		url, _ := gc.RemoteURL(name)
		_, _ = fmt.Fprintf(out, "  Remote %s: %s\n", name, url)
	}
}

func valueOrNone(s string) string {
	if s == "" {
		return mutedStyle.Render("(none)")
	}

	return s
}

func runStateClear(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer func() { _ = st.Close() }()

	workspace.New(workspace.Options{Store: st, Logger: logger}).Clear()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Active repository cleared"))

	if infoPath, err := serverinfo.DefaultPath(); err == nil {
		if info := serverinfo.Running(infoPath); info != nil {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n",
				mutedStyle.Render(fmt.Sprintf("The running server (PID %d) keeps its in-memory record until restarted.", info.PID)))
		}
	}

	return nil
}
