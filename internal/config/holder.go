package config

import "sync"

// Holder provides thread-safe access to a mutable *Config and an immutable
// config file path, so a reload updates config in exactly one place for
// every reader that shares the Holder. The `kmlsync start` daemon does not
// use a Holder; its SIGHUP handler reloads with LoadOrDefault directly.
type Holder struct {
	mu   sync.RWMutex
	cfg  *Config
	path string // immutable after construction
}

// NewHolder creates a Holder with the initial config and config file path.
func NewHolder(cfg *Config, path string) *Holder {
	return &Holder{cfg: cfg, path: path}
}

// Config returns the current config snapshot. Thread-safe (read lock).
func (h *Holder) Config() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.cfg
}

// Path returns the config file path. Thread-safe without locking because
// the path is immutable after construction.
func (h *Holder) Path() string {
	return h.path
}

// Update replaces the config. Thread-safe (write lock). Called by Reload.
func (h *Holder) Update(cfg *Config) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cfg = cfg
}

// Reload re-reads the config file from Path and swaps it in.
func (h *Holder) Reload() error {
	cfg, err := LoadOrDefault(h.Path())
	if err != nil {
		return err
	}

	h.Update(cfg)

	return nil
}
