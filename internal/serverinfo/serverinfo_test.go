package serverinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inovacc/git-pr-mcp/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)

	assert.Equal(t, FileName, filepath.Base(path))
	assert.Equal(t, application.AppName, filepath.Base(filepath.Dir(path)))
}

func TestRead_NoFile(t *testing.T) {
	info, err := Read(filepath.Join(t.TempDir(), FileName))
	assert.ErrorIs(t, err, ErrNoServerInfo)
	assert.Nil(t, info)
}

func TestRead_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := Read(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoServerInfo)
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	info := New("127.0.0.1:8000", "sse")
	require.NoError(t, Write(path, info))

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, os.Getpid(), got.PID)
	assert.Equal(t, "127.0.0.1:8000", got.Address)
	assert.Equal(t, "sse", got.Transport)
	assert.WithinDuration(t, info.StartedAt, got.StartedAt, time.Second)

	Remove(path)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	assert.Nil(t, running(path, func(int) bool { return true }))

	require.NoError(t, Write(path, New("", "stdio")))

	got := running(path, func(pid int) bool { return pid == os.Getpid() })
	require.NotNil(t, got)
	assert.Equal(t, "stdio", got.Transport)

	// a dead process leaves a stale file that gets cleaned up
	assert.Nil(t, running(path, func(int) bool { return false }))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
