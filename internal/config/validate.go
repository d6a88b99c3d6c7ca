package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Validate checks internal consistency of cfg. It does not require
// SyncRoot/ContainerID to be set — those are checked by the engine at
// start time, since `kmlsync config show` and `kmlsync conflicts`
// should work against a config file that hasn't been pointed at a sync
// root yet.
func Validate(cfg *Config) error {
	if cfg.Sync.Extension != "" && !strings.HasPrefix(cfg.Sync.Extension, ".") {
		return fmt.Errorf("sync.extension %q must start with a \".\"", cfg.Sync.Extension)
	}

	if cfg.Sync.TrashDirName == "" {
		return fmt.Errorf("sync.trash_dir_name must not be empty")
	}

	if _, err := time.ParseDuration(cfg.Sync.BatchInterval); err != nil {
		return fmt.Errorf("sync.batch_interval %q: %w", cfg.Sync.BatchInterval, err)
	}

	if _, err := time.ParseDuration(cfg.Sync.PollInterval); err != nil {
		return fmt.Errorf("sync.poll_interval %q: %w", cfg.Sync.PollInterval, err)
	}

	if _, err := time.ParseDuration(cfg.Sync.ShutdownTimeout); err != nil {
		return fmt.Errorf("sync.shutdown_timeout %q: %w", cfg.Sync.ShutdownTimeout, err)
	}

	switch cfg.Logging.LogFormat {
	case "auto", "text", "json", "":
	default:
		return fmt.Errorf("logging.log_format %q: must be one of auto, text, json", cfg.Logging.LogFormat)
	}

	return nil
}

// RequireSyncRoot validates that cfg is ready for engine start: SyncRoot
// and ContainerID must both be set, and SyncRoot must be a directory.
func RequireSyncRoot(cfg *Config) error {
	if cfg.Sync.SyncRoot == "" {
		return fmt.Errorf("sync.sync_root is not configured")
	}

	if cfg.Sync.ContainerID == "" {
		return fmt.Errorf("sync.container_id is not configured")
	}

	info, err := os.Stat(cfg.Sync.SyncRoot)
	if err != nil {
		return fmt.Errorf("sync.sync_root %q: %w", cfg.Sync.SyncRoot, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("sync.sync_root %q is not a directory", cfg.Sync.SyncRoot)
	}

	return nil
}

// DeviceNameOrHostname returns cfg.Sync.DeviceName, falling back to the
// local hostname when unset (spec.md §6: "Device name (string; used in
// name generation)").
func DeviceNameOrHostname(cfg *Config) string {
	if cfg.Sync.DeviceName != "" {
		return cfg.Sync.DeviceName
	}

	host, err := os.Hostname()
	if err != nil || host == "" {
		return "device"
	}

	return host
}
