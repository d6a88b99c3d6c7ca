// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for kmlsync.
package config

// Config is the top-level configuration structure. kmlsync syncs a single
// local directory against a single cloud container — there is no
// multi-drive/multi-account layer here, unlike the teacher CLI this
// project is patterned on.
type Config struct {
	Sync    SyncConfig    `toml:"sync"`
	Logging LoggingConfig `toml:"logging"`
}

// SyncConfig controls the engine's operating parameters (spec.md §6
// "Environment" and §4.1's batching/extension-filter contract).
type SyncConfig struct {
	// SyncRoot is the absolute path to the local sync directory.
	SyncRoot string `toml:"sync_root"`
	// ContainerID identifies the cloud container (spec.md §6: "identifier
	// of the cloud container; may vary by build configuration").
	ContainerID string `toml:"container_id"`
	// DeviceName is used in name generation for initial-collision copies
	// (spec.md §4.6).
	DeviceName string `toml:"device_name"`
	// Extension is the single file extension the engine operates on,
	// including the leading dot (e.g. ".kml").
	Extension string `toml:"extension"`
	// TrashDirName is the cloud replica's reserved trash subdirectory name.
	TrashDirName string `toml:"trash_dir_name"`
	// BatchInterval is a burst-coalescing window, checked by Validate to
	// parse as a duration. The monitors do not read it; they coalesce with
	// their own fixed 1 s window.
	BatchInterval string `toml:"batch_interval"`
	// PollInterval is a cloud poll period, checked by Validate to parse as
	// a duration. No component reads it: the cloud monitor does not poll,
	// it rescans only after filesystem events.
	PollInterval string `toml:"poll_interval"`
	// ShutdownTimeout is a shutdown bound, checked by Validate to parse as
	// a duration. No component reads it; Stop does not wait on a timer.
	ShutdownTimeout string `toml:"shutdown_timeout"`
	// Enabled mirrors the Settings interface's sync_enabled() (spec.md §6).
	// Toggled by the `pause`/`resume` commands, hot-reloaded via SIGHUP.
	Enabled bool `toml:"enabled"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
	LogFormat string `toml:"log_format"`
}
