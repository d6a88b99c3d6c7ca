package main

import (
	"fmt"
	"regexp"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravensync/kmlsync/internal/config"
)

func newPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause [duration]",
		Short: "Pause syncing",
		Long: `Disable sync.enabled in the config. An optional duration argument
(e.g. "2h", "30m", "1d") schedules an automatic resume after the interval.

Without a duration, sync stays paused until "kmlsync resume" is run.
If a daemon is running, it receives a SIGHUP to pick up the change.`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		Args:        cobra.MaximumNArgs(1),
		RunE:        runPause,
	}
}

func runPause(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath(flagConfigPath)

	if err := config.SetEnabled(path, false); err != nil {
		return fmt.Errorf("pausing sync: %w", err)
	}

	if len(args) > 0 {
		d, err := parseDuration(args[0])
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", args[0], err)
		}

		until := time.Now().Add(d)
		statusf(flagQuiet, "Sync paused until %s\n", until.Format(time.RFC3339))
		scheduleAutoResume(path, d)
	} else {
		statusf(flagQuiet, "Sync paused\n")
	}

	notifyDaemon()

	return nil
}

// scheduleAutoResume spawns a detached timer that re-enables sync after d.
// It runs in this CLI process only — if the process exits before the timer
// fires, the pause simply persists until "kmlsync resume" is run manually,
// which is the documented fallback behavior.
func scheduleAutoResume(path string, d time.Duration) {
	go func() {
		time.Sleep(d)

		if err := config.SetEnabled(path, true); err != nil {
			return
		}

		notifyDaemon()
	}()
}

// notifyDaemon attempts to send SIGHUP to a running daemon. Non-fatal: if
// no daemon is running, the change simply takes effect next start.
func notifyDaemon() {
	pidPath := config.PIDFilePath()

	if err := sendSignal(pidPath, syscall.SIGHUP); err != nil {
		statusf(flagQuiet, "Note: %v — change takes effect on next daemon start\n", err)
	} else {
		statusf(flagQuiet, "Notified running daemon to reload config\n")
	}
}

// hoursPerDay converts day durations to hours.
const hoursPerDay = 24

// durationPattern matches durations like "30m", "2h", "1d", "1h30m".
var durationPattern = regexp.MustCompile(`^(\d+d)?(\d+h)?(\d+m)?(\d+s)?$`)

// parseDuration parses a human-friendly duration string: Go duration
// syntax (e.g. "2h30m") plus a "d" suffix for days (converted to 24h).
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}

		return d, nil
	}

	if s == "" || !durationPattern.MatchString(s) {
		return 0, fmt.Errorf("expected format like 30m, 2h, 1d, or 1h30m")
	}

	var total time.Duration

	re := regexp.MustCompile(`(\d+)([dhms])`)
	for _, match := range re.FindAllStringSubmatch(s, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", match[1], err)
		}

		switch match[2] {
		case "d":
			total += time.Duration(n) * hoursPerDay * time.Hour
		case "h":
			total += time.Duration(n) * time.Hour
		case "m":
			total += time.Duration(n) * time.Minute
		case "s":
			total += time.Duration(n) * time.Second
		}
	}

	if total <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}

	return total, nil
}
