package lifecycle

import (
	"sync"

	"github.com/ravensync/kmlsync/internal/config"
)

// Settings implements spec.md §6's consumed settings interface
// (sync_enabled() → bool; signal sync_enabled_changed) over a
// config.Holder, so toggling sync persists across restarts the same way
// the rest of the daemon's configuration does.
type Settings struct {
	holder *config.Holder

	mu        sync.Mutex
	listeners []func(bool)
	last      bool
}

// NewSettings creates a Settings view over holder.
func NewSettings(holder *config.Holder) *Settings {
	return &Settings{holder: holder, last: holder.Config().Sync.Enabled}
}

// SyncEnabled reports the current value of sync.enabled.
func (s *Settings) SyncEnabled() bool {
	return s.holder.Config().Sync.Enabled
}

// OnChanged registers a listener invoked by NotifyReloaded whenever
// sync.enabled flips. Returns an unsubscribe function.
func (s *Settings) OnChanged(fn func(enabled bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners[idx] = nil
	}
}

// NotifyReloaded must be called after the Holder's config is reloaded (e.g.
// on SIGHUP or after `kmlsync pause`/`resume` rewrite the config file). It
// fires registered listeners if sync.enabled changed since the last call.
func (s *Settings) NotifyReloaded() {
	current := s.holder.Config().Sync.Enabled

	s.mu.Lock()
	changed := current != s.last
	s.last = current
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.Unlock()

	if !changed {
		return
	}

	for _, fn := range listeners {
		if fn != nil {
			fn(current)
		}
	}
}
