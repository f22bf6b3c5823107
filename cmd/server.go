package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inovacc/git-pr-mcp/internal/config"
	"github.com/inovacc/git-pr-mcp/internal/mcpserver"
	"github.com/inovacc/git-pr-mcp/internal/process"
	"github.com/inovacc/git-pr-mcp/internal/serverinfo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	serverToken string
	stopTimeout time.Duration
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Manage the git-pr-mcp MCP server. Use 'git-pr-mcp server start' to start the server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the MCP server",
	Long: `Start the MCP server on the configured transport.

Transports:
  sse    Server-Sent Events on /sse with messages posted to /message (default)
  http   Streamable HTTP on /mcp
  stdio  JSON-RPC over standard input and output

A GitHub token is required. It is taken from --token, GITHUB_TOKEN, GH_TOKEN
or the gh CLI, in that order. The server stops on Ctrl+C or SIGTERM.`,
	RunE: runServerStart,
}

var serverStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running MCP server",
	Long:  `Stop the MCP server by sending a termination signal to the running process.`,
	RunE:  runServerStop,
}

var serverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	RunE:  runServerStatus,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverStopCmd)
	serverCmd.AddCommand(serverStatusCmd)

	serverStartCmd.Flags().String("host", "", "Host to bind (overrides config)")
	serverStartCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serverStartCmd.Flags().StringP("transport", "t", "", "Transport: sse, http or stdio (overrides config)")
	serverStartCmd.Flags().StringVar(&serverToken, "token", "", "GitHub token (overrides GITHUB_TOKEN, GH_TOKEN and gh CLI)")

	serverStopCmd.Flags().DurationVar(&stopTimeout, "timeout", 30*time.Second, "Timeout waiting for server to stop")
}

func runServerStart(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	if err := applyServerFlags(cmd.Flags(), &cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	infoPath, err := serverinfo.DefaultPath()
	if err != nil {
		return err
	}

	if info := serverinfo.Running(infoPath); info != nil && info.PID != os.Getpid() {
		return fmt.Errorf("server already running (PID: %d, transport: %s)", info.PID, info.Transport)
	}

	token, err := resolveToken(serverToken, cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, token, logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close state store", "error", err)
		}
	}()

	opts := mcpserver.Options{
		Transport: cfg.Transport,
		Host:      cfg.Host,
		Port:      cfg.Port,
		Logger:    logger,
	}

	runner, err := mcpserver.NewRunner(mcpserver.New(a.dispatcher), opts)
	if err != nil {
		return err
	}

	addr := ""
	if cfg.Transport != config.TransportStdio {
		addr = opts.Addr()
	}

	if err := serverinfo.Write(infoPath, serverinfo.New(addr, cfg.Transport)); err != nil {
		logger.Warn("failed to write server info file", "error", err)
	}

	defer serverinfo.Remove(infoPath)

	if active := a.workspace.Active(); active.IsActive() {
		logger.Info("resuming with active repository", "path", active.Path, "repo", active.FullName())
	}

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("server stopped")

	return nil
}

// applyServerFlags copies explicitly set --host, --port and --transport over cfg
func applyServerFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error

	if flags.Changed("host") {
		if cfg.Host, err = flags.GetString("host"); err != nil {
			return err
		}
	}

	if flags.Changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return err
		}
	}

	if flags.Changed("transport") {
		if cfg.Transport, err = flags.GetString("transport"); err != nil {
			return err
		}
	}

	return nil
}

func runServerStop(cmd *cobra.Command, _ []string) error {
	infoPath, err := serverinfo.DefaultPath()
	if err != nil {
		return err
	}

	info := serverinfo.Running(infoPath)
	if info == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Server is not running")
		return nil
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stopping server (PID: %d)...\n", info.PID)

	if err := process.Terminate(info.PID); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := process.WaitForExit(context.Background(), info.PID, stopTimeout); err != nil {
		return fmt.Errorf("server did not stop within timeout: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Server stopped successfully"))

	return nil
}

func runServerStatus(cmd *cobra.Command, _ []string) error {
	infoPath, err := serverinfo.DefaultPath()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	info := serverinfo.Running(infoPath)
	if info == nil {
		_, _ = fmt.Fprintf(out, "Server status: %s\n", mutedStyle.Render("stopped"))
		return nil
	}

	_, _ = fmt.Fprintf(out, "Server status: %s\n", successStyle.Render("running"))
	_, _ = fmt.Fprintf(out, "  Transport: %s\n", info.Transport)

	if info.Address != "" {
		_, _ = fmt.Fprintf(out, "  Address: %s\n", info.Address)
	}

	_, _ = fmt.Fprintf(out, "  PID: %d\n", info.PID)
	_, _ = fmt.Fprintf(out, "  Started: %s\n", info.StartedAt.Format(time.RFC3339))
	_, _ = fmt.Fprintf(out, "  Uptime: %s\n", time.Since(info.StartedAt).Round(time.Second))

	return nil
}
