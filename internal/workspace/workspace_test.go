package workspace

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inovacc/git-pr-mcp/internal/model"
	"github.com/inovacc/git-pr-mcp/internal/store"
	"github.com/inovacc/git-pr-mcp/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkspace(t *testing.T) (*Workspace, store.Store) {
	t.Helper()

	st := store.NewFile(filepath.Join(t.TempDir(), "state.json"))
	ws := New(Options{Store: st, CloneRoot: t.TempDir()})

	return ws, st
}

func TestLoad(t *testing.T) {
	t.Run("missing state", func(t *testing.T) {
		ws, _ := newWorkspace(t)
		ws.Load()
		active := ws.Active()
		assert.False(t, active.IsActive())
	})

	t.Run("existing directory is adopted", func(t *testing.T) {
		ws, st := newWorkspace(t)
		dir := t.TempDir()
		require.NoError(t, st.Save(&model.ActiveRepository{Path: dir, URL: "https://github.com/o/r.git", Owner: "o", Name: "r"}))

		ws.Load()
		assert.Equal(t, model.ActiveRepository{Path: dir, URL: "https://github.com/o/r.git", Owner: "o", Name: "r"}, ws.Active())
	})

	t.Run("vanished directory is ignored", func(t *testing.T) {
		ws, st := newWorkspace(t)
		require.NoError(t, st.Save(&model.ActiveRepository{Path: filepath.Join(t.TempDir(), "gone")}))

		ws.Load()
		active := ws.Active()
		assert.False(t, active.IsActive())
	})

	t.Run("file instead of directory is ignored", func(t *testing.T) {
		ws, st := newWorkspace(t)
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o600))
		require.NoError(t, st.Save(&model.ActiveRepository{Path: file}))

		ws.Load()
		active := ws.Active()
		assert.False(t, active.IsActive())
	})
}

func TestLoad_OriginCheck(t *testing.T) {
	src := testutil.InitRepo(t)
	checkout := filepath.Join(t.TempDir(), "checkout")
	testutil.Git(t, src, "clone", "-q", src, checkout)

	load := func(t *testing.T, url string) (*Workspace, string) {
		t.Helper()

		var logs bytes.Buffer

		st := store.NewFile(filepath.Join(t.TempDir(), "state.json"))
		require.NoError(t, st.Save(&model.ActiveRepository{Path: checkout, URL: url}))

		ws := New(Options{Store: st, Logger: slog.New(slog.NewTextHandler(&logs, nil))})
		ws.Load()

		return ws, logs.String()
	}

	t.Run("mismatch warns but adopts", func(t *testing.T) {
		ws, logs := load(t, "https://github.com/o/r.git")

		assert.Equal(t, checkout, ws.Active().Path)
		assert.Contains(t, logs, "level=WARN")
		assert.Contains(t, logs, "active repository origin differs from saved URL")
		assert.Contains(t, logs, "saved_url=https://github.com/o/r.git")
	})

	t.Run("matching origin is quiet", func(t *testing.T) {
		ws, logs := load(t, src)

		assert.Equal(t, checkout, ws.Active().Path)
		assert.NotContains(t, logs, "level=WARN")
	})
}

func TestRun_NoActiveRepository(t *testing.T) {
	ws, _ := newWorkspace(t)

	called := false
	err := ws.Run(func(model.ActiveRepository) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrNoActiveRepository)
	assert.False(t, called)
}

func TestClone(t *testing.T) {
	src := testutil.InitRepo(t)
	remote := testutil.InitBareRemote(t, src)
	ws, st := newWorkspace(t)
	ctx := context.Background()

	first, err := ws.Clone(ctx, remote)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(first.Path), ClonePrefix))
	assert.FileExists(t, filepath.Join(first.Path, "README.md"))
	assert.Equal(t, remote, first.URL)
	assert.Empty(t, first.Owner)

	saved, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, first, *saved)

	second, err := ws.Clone(ctx, remote)
	require.NoError(t, err)
	assert.NotEqual(t, first.Path, second.Path)
	assert.NoDirExists(t, first.Path)

	err = ws.Run(func(repo model.ActiveRepository) error {
		assert.Equal(t, second.Path, repo.Path)
		return errors.New("stop")
	})
	assert.EqualError(t, err, "stop")
}

func TestClone_Failure(t *testing.T) {
	src := testutil.InitRepo(t)
	remote := testutil.InitBareRemote(t, src)
	ws, st := newWorkspace(t)
	ctx := context.Background()

	first, err := ws.Clone(ctx, remote)
	require.NoError(t, err)

	_, err = ws.Clone(ctx, filepath.Join(t.TempDir(), "missing.git"))
	require.Error(t, err)

	active := ws.Active()

	assert.False(t, active.IsActive())
	assert.NoDirExists(t, first.Path)

	entries, err := os.ReadDir(ws.cloneRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)

	saved, err := st.Load()
	require.NoError(t, err)
	assert.False(t, saved.IsActive())
}

func TestClear(t *testing.T) {
	ws, st := newWorkspace(t)
	dir := t.TempDir()
	require.NoError(t, st.Save(&model.ActiveRepository{Path: dir}))
	ws.Load()
	active := ws.Active()
	require.True(t, active.IsActive())

	ws.Clear()
	active = ws.Active()
	assert.False(t, active.IsActive())
	assert.DirExists(t, dir)

	saved, err := st.Load()
	require.NoError(t, err)
	assert.False(t, saved.IsActive())
}

func TestResolvePath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "tmp", "mcp_clone_1")

	tests := []struct {
		rel     string
		want    string
		wantErr bool
	}{
		{rel: "README.md", want: filepath.Join(root, "README.md")},
		{rel: "src/pkg/file.go", want: filepath.Join(root, "src", "pkg", "file.go")},
		{rel: "a/../b.txt", want: filepath.Join(root, "b.txt")},
		{rel: "../escape.txt", wantErr: true},
		{rel: "a/../../escape.txt", wantErr: true},
		{rel: "..", wantErr: true},
		{rel: "/etc/passwd", wantErr: true},
		{rel: "..hidden", want: filepath.Join(root, "..hidden")},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got, err := ResolvePath(root, tt.rel)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPathOutsideRepository)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
