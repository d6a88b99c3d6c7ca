package main

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ravensync/kmlsync/internal/config"
)

// daemonState classifies whether a daemon process appears to be running,
// for display only — this reads the PID file and probes with signal 0, it
// does not talk to the running engine (the CLI and daemon are separate
// processes; everything else status shows comes from the config file,
// matching the teacher's config-only status command).
type daemonState string

const (
	daemonRunning    daemonState = "running"
	daemonNotRunning daemonState = "not running"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync configuration and daemon status",
		Long: `Display the configured sync root, cloud container, enabled state, and
whether a daemon process currently holds the PID file lock.`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        runStatus,
	}
}

type statusOutput struct {
	SyncRoot    string `json:"sync_root"`
	ContainerID string `json:"container_id"`
	DeviceName  string `json:"device_name"`
	Enabled     bool   `json:"enabled"`
	Daemon      string `json:"daemon"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	path := resolveConfigPath(flagConfigPath)

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out := statusOutput{
		SyncRoot:    cfg.Sync.SyncRoot,
		ContainerID: cfg.Sync.ContainerID,
		DeviceName:  cfg.Sync.DeviceName,
		Enabled:     cfg.Sync.Enabled,
		Daemon:      string(checkDaemonState()),
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	}

	printStatusText(out)

	return nil
}

func printStatusText(out statusOutput) {
	syncRoot := out.SyncRoot
	if syncRoot == "" {
		syncRoot = "(not set)"
	}

	containerID := out.ContainerID
	if containerID == "" {
		containerID = "(not set)"
	}

	state := "paused"
	if out.Enabled {
		state = "enabled"
	}

	fmt.Printf("Sync root:   %s\n", syncRoot)
	fmt.Printf("Container:   %s\n", containerID)
	fmt.Printf("Device name: %s\n", out.DeviceName)
	fmt.Printf("State:       %s\n", state)
	fmt.Printf("Daemon:      %s\n", out.Daemon)
}

// checkDaemonState probes the PID file: if it names a live process, the
// daemon is running.
func checkDaemonState() daemonState {
	pid, err := readPIDFile(config.PIDFilePath())
	if err != nil {
		return daemonNotRunning
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return daemonNotRunning
	}

	if err := proc.Signal(syscall.Signal(0)); err != nil {
		return daemonNotRunning
	}

	return daemonRunning
}
