package auth

import (
	ghauth "github.com/cli/go-gh/v2/pkg/auth"
)

const githubHelp = `Provide a token via one of:
  * --token flag
  * GITHUB_TOKEN env var
  * GH_TOKEN env var
  * gh auth login             (auto-detected from gh CLI)

Create a token at: https://github.com/settings/tokens`

// ghTokenForHost reads the gh CLI's stored credentials. Replaced in tests.
var ghTokenForHost = func(host string) string {
	token, _ := ghauth.TokenForHost(host)
	return token
}

// ResolveGitHubToken finds the token used for pushes and pull requests.
// Priority order:
//  1. flagToken (explicit --token flag)
//  2. GITHUB_TOKEN environment variable
//  3. GH_TOKEN environment variable
//  4. gh CLI auth for host
func ResolveGitHubToken(flagToken, host string) (*Result, error) {
	if host == "" {
		host = "github.com"
	}

	return NewResolver("GitHub").
		WithFlagValue(flagToken).
		WithEnvs("GITHUB_TOKEN", "GH_TOKEN").
		WithProvider(func() (string, string, error) {
			return ghTokenForHost(host), "cli:" + host, nil
		}).
		WithHelpMessage(githubHelp).
		Resolve()
}
