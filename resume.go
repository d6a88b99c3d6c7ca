package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravensync/kmlsync/internal/config"
)

func newResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "resume",
		Short:       "Resume syncing",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        runResume,
	}
}

func runResume(cmd *cobra.Command, _ []string) error {
	path := resolveConfigPath(flagConfigPath)

	if err := config.SetEnabled(path, true); err != nil {
		return fmt.Errorf("resuming sync: %w", err)
	}

	statusf(flagQuiet, "Sync resumed\n")

	notifyDaemon()

	return nil
}
