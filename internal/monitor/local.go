package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/ravensync/kmlsync/internal/model"
)

// FsWatcher abstracts filesystem event monitoring. Satisfied by
// *fsnotify.Watcher; tests inject a fake implementation.
type FsWatcher interface {
	Add(name string) error
	Remove(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

type fsnotifyWatcher struct{ w *fsnotify.Watcher }

func (fw *fsnotifyWatcher) Add(name string) error        { return fw.w.Add(name) }
func (fw *fsnotifyWatcher) Remove(name string) error      { return fw.w.Remove(name) }
func (fw *fsnotifyWatcher) Close() error                  { return fw.w.Close() }
func (fw *fsnotifyWatcher) Events() <-chan fsnotify.Event { return fw.w.Events }
func (fw *fsnotifyWatcher) Errors() <-chan error          { return fw.w.Errors }

// LocalDirMonitor is the concrete LocalMonitor backed by fsnotify over one
// flat directory (spec.md §6: "one flat directory on each side"). Grounded
// on the teacher's internal/sync LocalObserver: fsnotify for change
// notification, a full rescan after each coalesced burst of events, and a
// watcher factory so tests can inject a fake. There is no timer-driven
// rescan.
type LocalDirMonitor struct {
	root      string
	extension string
	logger    *slog.Logger
	sink      LocalSink

	watcherFactory func() (FsWatcher, error)

	mu      sync.Mutex
	started bool
	paused  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewLocalDirMonitor creates a LocalDirMonitor rooted at root, observing
// only files with the given extension (e.g. ".kml").
func NewLocalDirMonitor(root, extension string, sink LocalSink, logger *slog.Logger) *LocalDirMonitor {
	return &LocalDirMonitor{
		root:      root,
		extension: extension,
		sink:      sink,
		logger:    logger,
		watcherFactory: func() (FsWatcher, error) {
			w, err := fsnotify.NewWatcher()
			if err != nil {
				return nil, err
			}

			return &fsnotifyWatcher{w: w}, nil
		},
	}
}

// Start performs the initial full scan, reports it via DidFinishGathering,
// then begins watching for changes in the background.
func (m *LocalDirMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return fmt.Errorf("monitor: local monitor for %s already started", m.root)
	}
	m.started = true

	watchCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	inv, err := m.scan()
	if err != nil {
		return fmt.Errorf("monitor: initial local scan of %s: %w", m.root, err)
	}

	m.logger.Info("local monitor gathered initial inventory",
		slog.String("root", m.root), slog.Int("items", len(inv)))
	m.sink.DidFinishGathering(inv)

	watcher, err := m.watcherFactory()
	if err != nil {
		return fmt.Errorf("monitor: creating local watcher: %w", err)
	}

	if err := watcher.Add(m.root); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("monitor: watching %s: %w", m.root, err)
	}

	m.wg.Add(1)
	go m.watchLoop(watchCtx, watcher)

	return nil
}

// Stop ends observation and releases the watch handle.
func (m *LocalDirMonitor) Stop() {
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
func (m *LocalDirMonitor) Pause() { m.paused.Store(true) }

// Resume re-enables delivery suspended by Pause.
func (m *LocalDirMonitor) Resume() { m.paused.Store(false) }

func (m *LocalDirMonitor) watchLoop(ctx context.Context, watcher FsWatcher) {
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

			if filepath.Ext(ev.Name) != m.extension {
				continue
			}

			c.Notify()

		case err, ok := <-watcher.Errors():
			if !ok {
				return
			}

			if !m.paused.Load() {
				m.sink.DidReceiveError(fmt.Errorf("monitor: local watch error: %w", err))
			}

		case <-c.Trigger():
			if m.paused.Load() {
				continue
			}

			inv, err := m.scan()
			if err != nil {
				m.sink.DidReceiveError(fmt.Errorf("monitor: local rescan of %s: %w", m.root, err))
				continue
			}

			m.sink.DidUpdate(inv)
		}
	}
}

// scan builds the complete current local inventory by reading one level of
// m.root. Non-recursive, matching spec.md's "one flat directory" layout.
func (m *LocalDirMonitor) scan() (model.LocalInventory, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return nil, err
	}

	inv := make(model.LocalInventory, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != m.extension {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			m.logger.Warn("local monitor: stat failed, skipping",
				slog.String("name", entry.Name()), slog.String("error", err.Error()))
			continue
		}

		name := model.NormalizeName(entry.Name())
		size := info.Size()

		inv[name] = model.LocalItem{MetadataItem: model.MetadataItem{
			FileName:             name,
			FileURL:              filepath.Join(m.root, entry.Name()),
			FileSize:             &size,
			ContentType:          mime.TypeByExtension(m.extension),
			CreationDate:         info.ModTime(),
			LastModificationDate: info.ModTime(),
		}}
	}

	return inv, nil
}
