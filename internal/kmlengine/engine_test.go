package kmlengine_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravensync/kmlsync/internal/config"
	"github.com/ravensync/kmlsync/internal/kmlengine"
	"github.com/ravensync/kmlsync/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type noopDownloader struct{}

func (noopDownloader) StartDownload(ctx context.Context, item model.CloudItem) error { return nil }

func newTestConfig(t *testing.T, localRoot string) config.Config {
	t.Helper()

	cfg := *config.DefaultConfig()
	cfg.Sync.SyncRoot = localRoot
	cfg.Sync.ContainerID = "test-container"
	cfg.Sync.DeviceName = "test-device"

	return cfg
}

func TestNewAssemblesEngine(t *testing.T) {
	localRoot := t.TempDir()
	cloudRoot := t.TempDir()
	cfg := newTestConfig(t, localRoot)

	e, err := kmlengine.New(context.Background(), cfg, kmlengine.Dependencies{
		CloudRoot:   cloudRoot,
		StateDBPath: filepath.Join(t.TempDir(), "state.db"),
		Downloader:  noopDownloader{},
		Logger:      testLogger(),
	})
	require.NoError(t, err)
	require.NotNil(t, e)

	defer e.Stop()
}

func TestEngineStartReconcilesExistingCloudFileIntoLocal(t *testing.T) {
	localRoot := t.TempDir()
	cloudRoot := t.TempDir()
	cfg := newTestConfig(t, localRoot)

	require.NoError(t, os.WriteFile(filepath.Join(cloudRoot, "a.kml"), []byte("hello"), 0o600))

	e, err := kmlengine.New(context.Background(), cfg, kmlengine.Dependencies{
		CloudRoot:   cloudRoot,
		StateDBPath: filepath.Join(t.TempDir(), "state.db"),
		Downloader:  noopDownloader{},
		Logger:      testLogger(),
	})
	require.NoError(t, err)
	defer e.Stop()

	require.NoError(t, e.Start(context.Background()))

	assert.Eventually(t, func() bool {
		b, err := os.ReadFile(filepath.Join(localRoot, "a.kml"))
		return err == nil && string(b) == "hello"
	}, 3*time.Second, 20*time.Millisecond)
}
