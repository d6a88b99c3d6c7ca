package main

import (
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ravensync/kmlsync/internal/config"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "stop",
		Short:       "Stop the running sync daemon",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        runStop,
	}
}

func runStop(cmd *cobra.Command, _ []string) error {
	pidPath := config.PIDFilePath()

	if err := sendSignal(pidPath, syscall.SIGTERM); err != nil {
		return err
	}

	statusf(flagQuiet, "Sent stop signal to running daemon\n")

	return nil
}
