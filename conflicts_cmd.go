package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ravensync/kmlsync/internal/config"
	"github.com/ravensync/kmlsync/internal/statestore"
)

func newConflictsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "conflicts",
		Short:       "Show resolved conflict history",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        runConflicts,
	}

	return cmd
}

func runConflicts(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	store, err := statestore.Open(ctx, config.StateDBPath(), buildLogger(nil))
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer store.Close()

	records, err := store.ListConflictHistory(ctx)
	if err != nil {
		return fmt.Errorf("listing conflict history: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(records)
	}

	if len(records) == 0 {
		statusf(flagQuiet, "No conflicts recorded\n")
		return nil
	}

	headers := []string{"RESOLVED", "KIND", "FILE", "DETAIL"}
	rows := make([][]string, 0, len(records))

	for _, r := range records {
		rows = append(rows, []string{formatTime(r.ResolvedAt), r.Kind, r.FileName, r.Detail})
	}

	printTable(os.Stdout, headers, rows)

	return nil
}
