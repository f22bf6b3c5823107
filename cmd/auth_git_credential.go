package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inovacc/git-pr-mcp/internal/auth"
	"github.com/inovacc/git-pr-mcp/internal/config"
	"github.com/inovacc/git-pr-mcp/internal/git"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:    "auth",
	Short:  "Authentication commands",
	Hidden: true,
}

var gitCredentialCmd = &cobra.Command{
	Use:    "git-credential",
	Short:  "Git credential helper (internal use)",
	Long:   `This command is used as a git credential helper. It is called by git automatically.`,
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		operation := "get"
		if len(args) > 0 {
			operation = args[0]
		}

		return gitCredential(operation, credentialHost(), cmd.InOrStdin(), cmd.OutOrStdout(), func(host string) string {
			result, err := auth.ResolveGitHubToken("", host)
			if err != nil {
				return ""
			}

			return result.Token
		})
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(gitCredentialCmd)
}

// credentialHost is the only host the helper answers for: the host exported by
// the server, else the configured github_host.
func credentialHost() string {
	if host := os.Getenv(git.TokenHostEnv); host != "" {
		return host
	}

	cfg, _ := config.Load(configPath)

	return cfg.GitHubHost
}

// gitCredential answers a git credential "get" request for allowedHost. store
// and erase are ignored, as are non-HTTPS requests, other hosts and hosts
// without a token, so that git falls through to its other helpers.
func gitCredential(operation, allowedHost string, in io.Reader, out io.Writer, tokenFor func(host string) string) error {
	if operation != "get" {
		return nil
	}

	wants := make(map[string]string)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		if key, value, ok := strings.Cut(line, "="); ok {
			wants[key] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	if wants["protocol"] != "https" {
		return nil
	}

	host := wants["host"]
	if host == "" || allowedHost == "" || !strings.EqualFold(host, allowedHost) {
		return nil
	}

	// The server exports its resolved token to the helper process
	token := os.Getenv(git.TokenEnv)
	if token == "" {
		token = tokenFor(host)
	}

	if token == "" {
		return nil
	}

	_, _ = fmt.Fprintf(out, "protocol=https\n")
	_, _ = fmt.Fprintf(out, "host=%s\n", host)
	_, _ = fmt.Fprintf(out, "username=x-access-token\n")
	_, _ = fmt.Fprintf(out, "password=%s\n", token)

	return nil
}
