package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/inovacc/git-pr-mcp/internal/application"
	"github.com/inovacc/git-pr-mcp/internal/process"
	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

var (
	serviceStart     bool
	serviceStop      bool
	serviceInstall   bool
	serviceUninstall bool
	serviceStatus    bool
	serviceRun       bool
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the MCP server as a system service",
	Long: `Install, uninstall, start, stop, or check the status of the MCP server as a system service.

On Windows, this creates/manages a Windows Service.
On Linux/macOS, this creates/manages a systemd/launchd service.

The service runs 'git-pr-mcp server start' with the configuration file given by
--config, so the service account needs a GitHub token in that file's
environment (GITHUB_TOKEN or GH_TOKEN) or a gh CLI login.`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.Flags().BoolVar(&serviceStart, "start", false, "Start the service")
	serviceCmd.Flags().BoolVar(&serviceStop, "stop", false, "Stop the service")
	serviceCmd.Flags().BoolVar(&serviceInstall, "install", false, "Install the MCP server as a system service")
	serviceCmd.Flags().BoolVar(&serviceUninstall, "uninstall", false, "Uninstall the system service")
	serviceCmd.Flags().BoolVar(&serviceStatus, "status", false, "Check service status")
	serviceCmd.Flags().BoolVar(&serviceRun, "run", false, "Run under the service manager (used by the installed service)")
	_ = serviceCmd.Flags().MarkHidden("run")
}

// program supervises a "server start" child process
type program struct {
	exe  string
	args []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

func (p *program) Start(_ service.Service) error {
	go p.run()
	return nil
}

func (p *program) run() {
	cmd := exec.Command(p.exe, p.args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()

	if err := cmd.Run(); err != nil {
		_ = service.ConsoleLogger.Errorf("Server exited with error: %v", err)
	}
}

func (p *program) Stop(_ service.Service) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}

	return process.Terminate(p.cmd.Process.Pid)
}

// serverArgs is the command line the service runs
func serverArgs() []string {
	args := []string{"server", "start"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	return args
}

func newService() (service.Service, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}

	svcArgs := []string{"service", "--run"}
	if configPath != "" {
		svcArgs = append(svcArgs, "--config", configPath)
	}

	svcConfig := &service.Config{
		Name:        application.ServiceName,
		DisplayName: "Git PR MCP Server",
		Description: "Model Context Protocol server for git branch, commit, push and pull request workflows",
		Executable:  exe,
		Arguments:   svcArgs,
	}

	return service.New(&program{exe: exe, args: serverArgs()}, svcConfig)
}

func runService(_ *cobra.Command, _ []string) error {
	selected := 0
	for _, set := range []bool{serviceStart, serviceStop, serviceInstall, serviceUninstall, serviceStatus, serviceRun} {
		if set {
			selected++
		}
	}

	if selected == 0 {
		return errors.New("please specify one of: --start, --stop, --install, --uninstall, --status")
	}

	if selected > 1 {
		return errors.New("please specify only one operation at a time")
	}

	s, err := newService()
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	switch {
	case serviceRun:
		return s.Run()
	case serviceInstall:
		if err := s.Install(); err != nil {
			return fmt.Errorf("failed to install service: %w", err)
		}

		fmt.Println(successStyle.Render("Service installed"))
		fmt.Printf("\nStart it with:\n  %s service --start\n", application.AppName)
	case serviceUninstall:
		_ = s.Stop()

		if err := s.Uninstall(); err != nil {
			return fmt.Errorf("failed to uninstall service: %w", err)
		}

		fmt.Println(successStyle.Render("Service uninstalled"))
	case serviceStart:
		if err := s.Start(); err != nil {
			return fmt.Errorf("failed to start service: %w", err)
		}

		fmt.Println(successStyle.Render("Service started"))
	case serviceStop:
		if err := s.Stop(); err != nil {
			return fmt.Errorf("failed to stop service: %w", err)
		}

		fmt.Println(successStyle.Render("Service stopped"))
	case serviceStatus:
		return printServiceStatus(s)
	}

	return nil
}

func printServiceStatus(s service.Service) error {
	status, err := s.Status()
	if err != nil {
		return fmt.Errorf("failed to get service status: %w", err)
	}

	fmt.Print("Service Status: ")

	switch status {
	case service.StatusRunning:
		fmt.Println(successStyle.Render("Running"))
	case service.StatusStopped:
		fmt.Println("Stopped")
	case service.StatusUnknown:
		fmt.Println(mutedStyle.Render("Unknown"))
	default:
		fmt.Printf("%v\n", status)
	}

	return nil
}
