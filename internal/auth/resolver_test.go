package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubGH(t *testing.T, token string) {
	t.Helper()

	orig := ghTokenForHost
	ghTokenForHost = func(string) string { return token }

	t.Cleanup(func() { ghTokenForHost = orig })
}

func TestResolver_Order(t *testing.T) {
	t.Setenv("TEST_TOKEN_A", "")
	t.Setenv("TEST_TOKEN_B", "from-b")

	res, err := NewResolver("Test").
		WithFlagValue("").
		WithEnvs("TEST_TOKEN_A", "TEST_TOKEN_B").
		Resolve()
	require.NoError(t, err)
	assert.Equal(t, "from-b", res.Token)
	assert.Equal(t, "TEST_TOKEN_B", res.Source)
}

func TestResolver_ProviderError(t *testing.T) {
	_, err := NewResolver("Test").
		WithProvider(func() (string, string, error) { return "", "", errors.New("keyring locked") }).
		Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyring locked")
}

func TestResolver_NoToken(t *testing.T) {
	_, err := NewResolver("Test").Resolve()
	require.EqualError(t, err, "Test token required")

	_, err = NewResolver("Test").WithHelpMessage("set TEST_TOKEN").Resolve()
	require.EqualError(t, err, "Test token required\n\nset TEST_TOKEN")
}

func TestResolveGitHubToken(t *testing.T) {
	t.Run("flag first", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env")
		stubGH(t, "cli")

		res, err := ResolveGitHubToken("flag-token", "")
		require.NoError(t, err)
		assert.Equal(t, "flag-token", res.Token)
		assert.Equal(t, "flag", res.Source)
	})

	t.Run("GITHUB_TOKEN before GH_TOKEN", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "github")
		t.Setenv("GH_TOKEN", "gh")
		stubGH(t, "")

		res, err := ResolveGitHubToken("", "")
		require.NoError(t, err)
		assert.Equal(t, "github", res.Token)
		assert.Equal(t, "GITHUB_TOKEN", res.Source)
	})

	t.Run("GH_TOKEN", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GH_TOKEN", "gh")
		stubGH(t, "")

		res, err := ResolveGitHubToken("", "")
		require.NoError(t, err)
		assert.Equal(t, "gh", res.Token)
		assert.Equal(t, "GH_TOKEN", res.Source)
	})

	t.Run("gh cli", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GH_TOKEN", "")
		stubGH(t, "cli-token")

		res, err := ResolveGitHubToken("", "github.example.com")
		require.NoError(t, err)
		assert.Equal(t, "cli-token", res.Token)
		assert.Equal(t, "cli:github.example.com", res.Source)
	})

	t.Run("none", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GH_TOKEN", "")
		stubGH(t, "")

		_, err := ResolveGitHubToken("", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GitHub token required")
		assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	})
}
