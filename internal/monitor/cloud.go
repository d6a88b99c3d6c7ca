package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/ravensync/kmlsync/internal/model"
)

// downloadingSuffix marks a cloud item whose bytes have not yet been
// materialized locally by the cloud daemon: "<name>.kml.downloading" sits
// beside a (possibly empty or partial) "<name>.kml" and holds the progress
// fraction as decimal text, e.g. "0.42". Its absence means the item is
// fully downloaded. This directory convention is this module's stand-in for
// the platform cloud-container API spec.md §4.1/§6 treats as external.
const downloadingSuffix = ".downloading"

// unavailableSentinel, if present in the cloud root, makes IsAvailable
// report false — used to simulate cloud-unreachable conditions in tests
// and local development without a real cloud backend.
const unavailableSentinel = ".unavailable"

// CloudDirMonitor is the concrete CloudMonitor backed by a plain directory
// standing in for the cloud replica, including its reserved trash
// subdirectory (spec.md §6). Structurally mirrors LocalDirMonitor: fsnotify
// plus a coalescing rescan, per the teacher's observer pattern.
type CloudDirMonitor struct {
	root         string
	trashDirName string
	extension    string
	logger       *slog.Logger
	sink         CloudSink

	watcherFactory func() (FsWatcher, error)

	mu      sync.Mutex
	started bool
	paused  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewCloudDirMonitor creates a CloudDirMonitor rooted at root, with trashDirName
// (e.g. ".Trash") as the reserved trash subdirectory.
func NewCloudDirMonitor(root, trashDirName, extension string, sink CloudSink, logger *slog.Logger) *CloudDirMonitor {
	return &CloudDirMonitor{
		root:         root,
		trashDirName: trashDirName,
		extension:    extension,
		sink:         sink,
		logger:       logger,
		watcherFactory: func() (FsWatcher, error) {
			w, err := fsnotify.NewWatcher()
			if err != nil {
				return nil, err
			}

			return &fsnotifyWatcher{w: w}, nil
		},
	}
}

// IsAvailable reports whether the cloud container can currently be reached.
func (m *CloudDirMonitor) IsAvailable() bool {
	if _, err := os.Stat(filepath.Join(m.root, unavailableSentinel)); err == nil {
		return false
	}

	_, err := os.Stat(m.root)
	return err == nil
}

// IsStarted reports whether Start has been called and Stop has not.
func (m *CloudDirMonitor) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.started
}

// IsPaused reports whether the monitor is currently paused.
func (m *CloudDirMonitor) IsPaused() bool { return m.paused.Load() }

// FetchContainerURL resolves the cloud container's root directory.
func (m *CloudDirMonitor) FetchContainerURL(ctx context.Context) (string, error) {
	if !m.IsAvailable() {
		return "", fmt.Errorf("monitor: cloud container %s unavailable", m.root)
	}

	if err := os.MkdirAll(filepath.Join(m.root, m.trashDirName), 0o700); err != nil {
		return "", fmt.Errorf("monitor: ensuring trash directory: %w", err)
	}

	return m.root, nil
}

// Start performs the initial full scan, reports it via DidFinishGathering,
// then begins watching for changes in the background.
func (m *CloudDirMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return fmt.Errorf("monitor: cloud monitor for %s already started", m.root)
	}
	m.started = true

	watchCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	if _, err := m.FetchContainerURL(ctx); err != nil {
		return err
	}

	inv, err := m.scan()
	if err != nil {
		return fmt.Errorf("monitor: initial cloud scan of %s: %w", m.root, err)
	}

	m.logger.Info("cloud monitor gathered initial inventory",
		slog.String("root", m.root), slog.Int("items", len(inv)))
	m.sink.DidFinishGathering(inv)

	watcher, err := m.watcherFactory()
	if err != nil {
		return fmt.Errorf("monitor: creating cloud watcher: %w", err)
	}

	if err := watcher.Add(m.root); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("monitor: watching %s: %w", m.root, err)
	}

	if err := watcher.Add(filepath.Join(m.root, m.trashDirName)); err != nil {
		m.logger.Warn("monitor: watching trash directory failed",
			slog.String("error", err.Error()))
	}

	m.wg.Add(1)
	go m.watchLoop(watchCtx, watcher)

	return nil
}

// Stop ends observation and releases the watch handle.
func (m *CloudDirMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.started = false
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// Pause suspends delivery of DidUpdate/DidReceiveError.
func (m *CloudDirMonitor) Pause() { m.paused.Store(true) }

// Resume re-enables delivery suspended by Pause.
func (m *CloudDirMonitor) Resume() { m.paused.Store(false) }

func (m *CloudDirMonitor) watchLoop(ctx context.Context, watcher FsWatcher) {
	defer m.wg.Done()
	defer func() { _ = watcher.Close() }()

	c := newCoalescer(ctx, defaultBatchInterval)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events():
			if !ok {
				return
			}

			if !m.relevant(ev.Name) {
				continue
			}

			c.Notify()

		case err, ok := <-watcher.Errors():
			if !ok {
				return
			}

			if !m.paused.Load() {
				m.sink.DidReceiveError(fmt.Errorf("monitor: cloud watch error: %w", err))
			}

		case <-c.Trigger():
			if m.paused.Load() {
				continue
			}

			if !m.IsAvailable() {
				m.sink.DidReceiveError(fmt.Errorf("monitor: cloud container %s unavailable", m.root))
				continue
			}

			inv, err := m.scan()
			if err != nil {
				m.sink.DidReceiveError(fmt.Errorf("monitor: cloud rescan of %s: %w", m.root, err))
				continue
			}

			m.sink.DidUpdate(inv)
		}
	}
}

// relevant reports whether an fsnotify path is one this monitor cares about:
// the sync extension, or its downloading-progress sibling.
func (m *CloudDirMonitor) relevant(name string) bool {
	ext := filepath.Ext(name)
	if ext == m.extension {
		return true
	}

	return strings.HasSuffix(name, m.extension+downloadingSuffix)
}

// scan builds the complete current cloud inventory: the root directory plus
// its trash subdirectory, which contributes items with IsInTrash = true.
func (m *CloudDirMonitor) scan() (model.CloudInventory, error) {
	inv := make(model.CloudInventory)

	if err := m.scanDir(m.root, false, inv); err != nil {
		return nil, err
	}

	trashDir := filepath.Join(m.root, m.trashDirName)
	if err := m.scanDir(trashDir, true, inv); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return inv, nil
}

func (m *CloudDirMonitor) scanDir(dir string, inTrash bool, inv model.CloudInventory) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != m.extension {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			m.logger.Warn("cloud monitor: stat failed, skipping",
				slog.String("name", entry.Name()), slog.String("error", err.Error()))
			continue
		}

		name := model.NormalizeName(entry.Name())
		size := info.Size()
		downloaded, fraction := m.downloadState(dir, entry.Name())

		inv[name] = model.CloudItem{
			MetadataItem: model.MetadataItem{
				FileName:             name,
				FileURL:              filepath.Join(dir, entry.Name()),
				FileSize:             &size,
				ContentType:          mime.TypeByExtension(m.extension),
				CreationDate:         info.ModTime(),
				LastModificationDate: info.ModTime(),
			},
			IsDownloaded:     downloaded,
			DownloadFraction: fraction,
			IsInTrash:        inTrash,
		}
	}

	return nil
}

// CompleteDownload removes the ".downloading" marker beside fileURL,
// simulating the cloud daemon finishing materialization of an item's
// bytes. Exported so a directory-simulated orchestrator.Downloader can drive the same convention this monitor reads.
// Absent-is-success: a file with no marker is already "downloaded".
func CompleteDownload(fileURL string) error {
	err := os.Remove(fileURL + downloadingSuffix)
	if err == nil || os.IsNotExist(err) {
		return nil
	}

	return err
}

// downloadState reads the downloading-marker convention for one entry.
func (m *CloudDirMonitor) downloadState(dir, name string) (bool, *float64) {
	markerPath := filepath.Join(dir, name+downloadingSuffix)

	raw, err := os.ReadFile(markerPath)
	if err != nil {
		return true, nil
	}

	fraction, parseErr := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if parseErr != nil {
		return false, nil
	}

	return false, &fraction
}
