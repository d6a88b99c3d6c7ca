package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravensync/kmlsync/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect configuration",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
	}

	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration as TOML",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        runConfigShow,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	path := resolveConfigPath(flagConfigPath)

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	text, err := config.Show(cfg)
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}

	fmt.Print(text)

	return nil
}
