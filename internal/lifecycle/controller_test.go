package lifecycle_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravensync/kmlsync/internal/lifecycle"
	"github.com/ravensync/kmlsync/internal/reconcile"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeMonitor struct {
	available    bool
	startCalls   atomic.Int32
	stopCalls    atomic.Int32
	pauseCalls   atomic.Int32
	resumeCalls  atomic.Int32
	startErr     error
}

func (m *fakeMonitor) Start(ctx context.Context) error {
	m.startCalls.Add(1)
	return m.startErr
}
func (m *fakeMonitor) Stop()    { m.stopCalls.Add(1) }
func (m *fakeMonitor) Pause()   { m.pauseCalls.Add(1) }
func (m *fakeMonitor) Resume()  { m.resumeCalls.Add(1) }

func (m *fakeMonitor) IsAvailable() bool                                  { return m.available }
func (m *fakeMonitor) IsStarted() bool                                    { return m.startCalls.Load() > 0 }
func (m *fakeMonitor) IsPaused() bool                                     { return m.pauseCalls.Load() > m.resumeCalls.Load() }
func (m *fakeMonitor) FetchContainerURL(ctx context.Context) (string, error) { return "/cloud", nil }

type fakeBatch struct{ inProgress bool }

func (b *fakeBatch) InProgress() bool { return b.inProgress }

type fakeExtension struct {
	begun    bool
	onExpire func()
	canceled bool
}

func (e *fakeExtension) Begin(onExpire func()) func() {
	e.begun = true
	e.onExpire = onExpire
	return func() { e.canceled = true }
}

type fakeBookmarks struct{ subscribed, unsubscribed int }

func (b *fakeBookmarks) Subscribe() func() {
	b.subscribed++
	return func() { b.unsubscribed++ }
}

func newTestController(t *testing.T, cloud *fakeMonitor, local *fakeMonitor, batch lifecycle.BatchInProgress, ext lifecycle.BackgroundExtension, books *fakeBookmarks) *lifecycle.Controller {
	t.Helper()
	machine := reconcile.NewMachine(reconcile.EngineState{}, testLogger())

	return lifecycle.NewController(lifecycle.Config{
		Cloud:     cloud,
		Local:     local,
		Machine:   machine,
		Batch:     batch,
		Extension: ext,
		Bookmarks: books,
		Logger:    testLogger(),
	})
}

func TestStartFailsWhenCloudUnavailable(t *testing.T) {
	cloud := &fakeMonitor{available: false}
	local := &fakeMonitor{available: true}
	c := newTestController(t, cloud, local, nil, nil, nil)

	err := c.Start(context.Background())
	assert.Error(t, err)
	assert.Equal(t, lifecycle.StateStopped, c.State())
}

func TestStartOrdersCloudThenLocalThenSubscribes(t *testing.T) {
	cloud := &fakeMonitor{available: true}
	local := &fakeMonitor{available: true}
	books := &fakeBookmarks{}
	c := newTestController(t, cloud, local, nil, nil, books)

	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, int32(1), cloud.startCalls.Load())
	assert.Equal(t, int32(1), local.startCalls.Load())
	assert.Equal(t, 1, books.subscribed)
	assert.Equal(t, lifecycle.StateRunning, c.State())
}

func TestStopUnsubscribesAndResetsMachine(t *testing.T) {
	cloud := &fakeMonitor{available: true}
	local := &fakeMonitor{available: true}
	books := &fakeBookmarks{}
	c := newTestController(t, cloud, local, nil, nil, books)

	require.NoError(t, c.Start(context.Background()))
	c.Stop()

	assert.Equal(t, 1, books.unsubscribed)
	assert.Equal(t, int32(1), cloud.stopCalls.Load())
	assert.Equal(t, int32(1), local.stopCalls.Load())
	assert.Equal(t, lifecycle.StateStopped, c.State())
}

func TestBackgroundWithBatchInProgressRequestsExtension(t *testing.T) {
	cloud := &fakeMonitor{available: true}
	local := &fakeMonitor{available: true}
	batch := &fakeBatch{inProgress: true}
	ext := &fakeExtension{}
	c := newTestController(t, cloud, local, batch, ext, nil)

	require.NoError(t, c.Start(context.Background()))
	c.OnAppEnteredBackground()

	assert.True(t, ext.begun)
	assert.Equal(t, lifecycle.StateRunning, c.State(), "extension pending: not yet paused")

	ext.onExpire()
	assert.Equal(t, lifecycle.StatePaused, c.State())
}

func TestBackgroundWithoutBatchPausesImmediately(t *testing.T) {
	cloud := &fakeMonitor{available: true}
	local := &fakeMonitor{available: true}
	batch := &fakeBatch{inProgress: false}
	c := newTestController(t, cloud, local, batch, nil, nil)

	require.NoError(t, c.Start(context.Background()))
	c.OnAppEnteredBackground()

	assert.Equal(t, lifecycle.StatePaused, c.State())
	assert.Equal(t, int32(1), cloud.pauseCalls.Load())
}

func TestOnMonitorErrorStopsOnlyWhenFatal(t *testing.T) {
	cloud := &fakeMonitor{available: true}
	local := &fakeMonitor{available: true}
	c := newTestController(t, cloud, local, nil, nil, nil)
	require.NoError(t, c.Start(context.Background()))

	c.OnMonitorError(false, errors.New("transient"))
	assert.Equal(t, lifecycle.StateRunning, c.State())

	c.OnMonitorError(true, errors.New("quota exceeded"))
	assert.Equal(t, lifecycle.StateStopped, c.State())
}
