package config

// Default values for configuration options — layer 0 of the four-layer
// override chain (defaults → file → environment → CLI flags).
const (
	defaultExtension       = ".kml"
	defaultTrashDirName    = ".Trash"
	defaultBatchInterval   = "1s"
	defaultPollInterval    = "30s"
	defaultShutdownTimeout = "30s"
	defaultLogLevel        = "info"
	defaultLogFormat       = "auto"
)

// DefaultConfig returns a Config populated with all default values. Used
// both as the starting point for TOML decoding (unset fields retain
// defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Sync: SyncConfig{
			Extension:       defaultExtension,
			TrashDirName:    defaultTrashDirName,
			BatchInterval:   defaultBatchInterval,
			PollInterval:    defaultPollInterval,
			ShutdownTimeout: defaultShutdownTimeout,
			Enabled:         true,
		},
		Logging: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
	}
}
