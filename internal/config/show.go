package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Show renders cfg as the TOML text a user would put in a config file,
// for the `kmlsync config show` command.
func Show(cfg *Config) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("config: rendering config: %w", err)
	}

	return buf.String(), nil
}
