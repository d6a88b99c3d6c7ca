package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFilePermissions matches the teacher's config-file convention:
// owner read/write only (the file may later carry secrets).
const configFilePermissions = 0o600

// configDirPermissions is the standard directory permission for config dirs.
const configDirPermissions = 0o700

// Write serializes cfg as TOML and writes it to path, creating parent
// directories as needed.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), configDirPermissions); err != nil {
		return fmt.Errorf("config: creating directory for %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config: encoding %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), configFilePermissions); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}

	return nil
}

// SetEnabled loads the config at path, sets Sync.Enabled to enabled, and writes it
// back. Used by the pause/resume commands so toggling sync state never
// requires re-specifying the whole config.
func SetEnabled(path string, enabled bool) error {
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return err
	}

	cfg.Sync.Enabled = enabled

	return Write(path, cfg)
}
