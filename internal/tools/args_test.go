package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	args := Args{
		"name":  "value",
		"empty": "",
		"null":  nil,
		"flag":  "true",
		"real":  true,
		"count": 3.0,
		"text":  "7",
		"bad":   []any{1},
	}

	s, err := args.RequireString("name")
	require.NoError(t, err)
	assert.Equal(t, "value", s)

	s, err = args.RequireString("empty")
	require.NoError(t, err)
	assert.Empty(t, s)

	_, err = args.RequireString("null")
	assert.EqualError(t, err, "Error: missing required argument 'null'")

	s, err = args.String("empty", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", s)

	_, err = args.String("count", "")
	assert.EqualError(t, err, "Error: argument 'count' must be a string")

	b, err := args.Bool("flag", false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = args.Bool("absent", true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = args.Bool("bad", false)
	assert.EqualError(t, err, "Error: argument 'bad' must be a boolean")

	n, err := args.Int("count", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = args.Int("text", 10)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = args.Int("absent", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	_, err = args.Int("name", 10)
	assert.EqualError(t, err, "Error: argument 'name' must be an integer")
}

func TestParseKeyValues(t *testing.T) {
	args, err := ParseKeyValues([]string{"repo_path=/tmp/x", "content=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, Args{"repo_path": "/tmp/x", "content": "a=b", "empty": ""}, args)

	_, err = ParseKeyValues([]string{"novalue"})
	assert.Error(t, err)

	_, err = ParseKeyValues([]string{"=x"})
	assert.Error(t, err)
}

func TestDefinitions(t *testing.T) {
	f := newFixture(t)

	assert.Len(t, Definitions, len(f.d.handlers))

	for _, def := range Definitions {
		_, ok := f.d.handlers[def.Name]
		assert.True(t, ok, "no handler for %s", def.Name)
	}

	def, ok := Lookup("git_push_branch")
	require.True(t, ok)
	assert.Equal(t, true, def.Params[1].Default)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
