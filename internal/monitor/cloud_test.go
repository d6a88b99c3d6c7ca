package monitor_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravensync/kmlsync/internal/model"
	"github.com/ravensync/kmlsync/internal/monitor"
)

type fakeCloudSink struct {
	mu       sync.Mutex
	gathered model.CloudInventory
	updates  []model.CloudInventory
}

func (s *fakeCloudSink) DidFinishGathering(inv model.CloudInventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gathered = inv
}

func (s *fakeCloudSink) DidUpdate(inv model.CloudInventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, inv)
}

func (s *fakeCloudSink) DidReceiveError(error) {}

func TestCloudDirMonitorInitialScanDownloadedAndTrash(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".Trash"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.kml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.kml"), []byte(""), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.kml.downloading"), []byte("0.5"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".Trash", "c.kml"), []byte("x"), 0o600))

	sink := &fakeCloudSink{}
	m := monitor.NewCloudDirMonitor(dir, ".Trash", ".kml", sink, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, m.Start(ctx))
	defer m.Stop()

	a := sink.gathered["a.kml"]
	assert.True(t, a.IsDownloaded)
	assert.Nil(t, a.DownloadFraction)
	assert.False(t, a.IsInTrash)

	b := sink.gathered["b.kml"]
	assert.False(t, b.IsDownloaded)
	require.NotNil(t, b.DownloadFraction)
	assert.InDelta(t, 0.5, *b.DownloadFraction, 0.0001)

	c := sink.gathered["c.kml"]
	assert.True(t, c.IsInTrash)
}

func TestCloudDirMonitorIsAvailable(t *testing.T) {
	dir := t.TempDir()
	sink := &fakeCloudSink{}
	m := monitor.NewCloudDirMonitor(dir, ".Trash", ".kml", sink, testLogger())

	assert.True(t, m.IsAvailable())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".unavailable"), []byte(""), 0o600))
	assert.False(t, m.IsAvailable())
}

func TestCloudDirMonitorFetchContainerURLCreatesTrash(t *testing.T) {
	dir := t.TempDir()
	sink := &fakeCloudSink{}
	m := monitor.NewCloudDirMonitor(dir, ".Trash", ".kml", sink, testLogger())

	url, err := m.FetchContainerURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dir, url)

	info, err := os.Stat(filepath.Join(dir, ".Trash"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
