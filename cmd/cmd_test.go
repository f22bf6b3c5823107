package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/inovacc/git-pr-mcp/internal/config"
	"github.com/inovacc/git-pr-mcp/internal/tools"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitCredential(t *testing.T) {
	tokenFor := func(host string) string {
		if host == "github.com" {
			return "resolved-token"
		}

		return ""
	}

	tests := []struct {
		name      string
		operation string
		input     string
		envToken  string
		want      string
	}{
		{
			name:      "get from resolver",
			operation: "get",
			input:     "protocol=https\nhost=github.com\n\n",
			want:      "protocol=https\nhost=github.com\nusername=x-access-token\npassword=resolved-token\n",
		},
		{
			name:      "exported token wins",
			operation: "get",
			input:     "protocol=https\nhost=github.com\n",
			envToken:  "server-token",
			want:      "protocol=https\nhost=github.com\nusername=x-access-token\npassword=server-token\n",
		},
		{name: "store ignored", operation: "store", input: "protocol=https\nhost=github.com\n"},
		{name: "ssh ignored", operation: "get", input: "protocol=ssh\nhost=github.com\n"},
		{name: "no host", operation: "get", input: "protocol=https\n"},
		{name: "unknown host", operation: "get", input: "protocol=https\nhost=gitlab.com\n"},
		{
			name:      "foreign host gets no exported token",
			operation: "get",
			input:     "protocol=https\nhost=attacker.example\n",
			envToken:  "ghp_secret",
		},
		{
			name:      "host match ignores case",
			operation: "get",
			input:     "protocol=https\nhost=GitHub.com\n",
			envToken:  "server-token",
			want:      "protocol=https\nhost=GitHub.com\nusername=x-access-token\npassword=server-token\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", tt.envToken)

			var out bytes.Buffer
			require.NoError(t, gitCredential(tt.operation, "github.com", strings.NewReader(tt.input), &out, tokenFor))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestGitCredential_EnterpriseHost(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghe-token")

	var out bytes.Buffer
	require.NoError(t, gitCredential("get", "ghe.example.com", strings.NewReader("protocol=https\nhost=github.com\n"), &out, nil))
	assert.Empty(t, out.String())

	require.NoError(t, gitCredential("get", "ghe.example.com", strings.NewReader("protocol=https\nhost=ghe.example.com\n"), &out, nil))
	assert.Contains(t, out.String(), "password=ghe-token")
}

func TestCredentialHost(t *testing.T) {
	t.Setenv("GITPR_CREDENTIAL_HOST", "ghe.example.com")
	assert.Equal(t, "ghe.example.com", credentialHost())
}

func TestRenderTools(t *testing.T) {
	out := renderTools(tools.Definitions)

	for _, def := range tools.Definitions {
		assert.Contains(t, out, def.Name)
	}

	assert.Contains(t, out, "branch_name (string) required")
	assert.Contains(t, out, "limit (number) default 10")
}

func TestServerArgs(t *testing.T) {
	prev := configPath
	t.Cleanup(func() { configPath = prev })

	configPath = ""
	assert.Equal(t, []string{"server", "start"}, serverArgs())

	configPath = "/etc/git-pr-mcp.toml"
	assert.Equal(t, []string{"server", "start", "--config", "/etc/git-pr-mcp.toml"}, serverArgs())
}

func TestCommandTree(t *testing.T) {
	root := rootCmd

	for _, path := range [][]string{
		{"server", "start"},
		{"server", "stop"},
		{"server", "status"},
		{"service"},
		{"call"},
		{"tools"},
		{"state", "show"},
		{"state", "clear"},
		{"version"},
		{"auth", "git-credential"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, strings.Join(path, " "))
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestApplyServerFlags(t *testing.T) {
	flags := pflag.NewFlagSet("start", pflag.ContinueOnError)
	flags.String("host", "", "")
	flags.IntP("port", "p", 0, "")
	flags.StringP("transport", "t", "", "")

	require.NoError(t, flags.Parse([]string{"-p", "9000", "--transport", "stdio"}))

	cfg := config.Default()
	require.NoError(t, applyServerFlags(flags, &cfg))

	assert.Equal(t, "127.0.0.1", cfg.Host, "unset flags keep the configured value")
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "stdio", cfg.Transport)
}
