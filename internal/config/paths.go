package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Platform identifiers.
const (
	platformLinux  = "linux"
	platformDarwin = "darwin"
)

// appName names the application directory across all platforms.
const appName = "kmlsync"

// configFileName is the config file's base name.
const configFileName = "config.toml"

// stateDBFileName is the persisted-state SQLite database's base name.
const stateDBFileName = "state.db"

// pidFileName is the daemon PID file's base name.
const pidFileName = "kmlsync.pid"

// DefaultConfigDir returns the platform-specific directory for config
// files. On Linux, respects XDG_CONFIG_HOME (defaults to
// ~/.config/kmlsync). On macOS, uses ~/Library/Application
// Support/kmlsync per Apple guidelines. Other platforms fall back to
// ~/.config/kmlsync.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch runtime.GOOS {
	case platformLinux:
		return linuxConfigDir(home)
	case platformDarwin:
		return filepath.Join(home, "Library", "Application Support", appName)
	default:
		return filepath.Join(home, ".config", appName)
	}
}

func linuxConfigDir(home string) string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	return filepath.Join(home, ".config", appName)
}

// DefaultDataDir returns the platform-specific directory for application
// data (state databases, PID file).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch runtime.GOOS {
	case platformLinux:
		return linuxDataDir(home)
	case platformDarwin:
		return filepath.Join(home, "Library", "Application Support", appName)
	default:
		return filepath.Join(home, ".local", "share", appName)
	}
}

func linuxDataDir(home string) string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigPath returns the full path to the default config file.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, configFileName)
}

// StateDBPath returns the full path to the persisted-state database.
func StateDBPath() string {
	dir := DefaultDataDir()
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, stateDBFileName)
}

// PIDFilePath returns the full path to the daemon PID file.
func PIDFilePath() string {
	dir := DefaultDataDir()
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, pidFileName)
}

// containersDirName is the subdirectory under the data directory holding
// one directory per cloud container, standing in for the platform's
// ubiquity container mounts (spec.md §6's "identifier of the cloud
// container; may vary by build configuration").
const containersDirName = "containers"

// ContainerReplicaDir returns the local directory standing in for the
// cloud container identified by containerID (internal/monitor's
// directory-simulation convention). Deterministic so repeated runs against
// the same container_id observe the same replica.
func ContainerReplicaDir(containerID string) string {
	dir := DefaultDataDir()
	if dir == "" || containerID == "" {
		return ""
	}

	return filepath.Join(dir, containersDirName, containerID)
}
