package main

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePIDFileWritesOwnPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "kmlsync.pid")

	cleanup, err := writePIDFile(path)
	require.NoError(t, err)
	defer cleanup()

	pid, err := readPIDFile(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestWritePIDFileRejectsSecondLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kmlsync.pid")

	cleanup, err := writePIDFile(path)
	require.NoError(t, err)
	defer cleanup()

	_, err = writePIDFile(path)
	assert.Error(t, err)
}

func TestCleanupRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kmlsync.pid")

	cleanup, err := writePIDFile(path)
	require.NoError(t, err)

	cleanup()

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSendSignalNoPIDFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.pid")

	err := sendSignal(path, syscall.SIGTERM)
	assert.Error(t, err)
}

func TestSendSignalStalePIDRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kmlsync.pid")
	require.NoError(t, os.WriteFile(path, []byte("999999\n"), 0o600))

	err := sendSignal(path, syscall.SIGTERM)
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
