package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ravensync/kmlsync/internal/config"
	"github.com/ravensync/kmlsync/internal/kmlengine"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the sync daemon in the foreground",
		Long: `Start watching the configured sync root and cloud container, reconciling
changes bidirectionally until stopped (Ctrl-C, SIGTERM, or "kmlsync stop").

Only one daemon may run per data directory: start acquires an exclusive
lock on the PID file there and refuses to start a second instance.`,
		RunE: runStart,
	}
}

func runStart(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	if err := config.RequireSyncRoot(cc.Cfg); err != nil {
		return err
	}

	if !cc.Cfg.Sync.Enabled {
		return fmt.Errorf("sync is disabled (run \"kmlsync resume\" first)")
	}

	cloudRoot := config.ContainerReplicaDir(cc.Cfg.Sync.ContainerID)
	if cloudRoot == "" {
		return fmt.Errorf("cannot determine cloud container replica directory")
	}

	if err := os.MkdirAll(cloudRoot, 0o700); err != nil {
		return fmt.Errorf("preparing cloud container directory: %w", err)
	}

	pidPath := config.PIDFilePath()

	cleanup, err := writePIDFile(pidPath)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := shutdownContext(cmd.Context(), cc.Logger)

	engine, err := kmlengine.New(ctx, *cc.Cfg, kmlengine.Dependencies{
		CloudRoot:  cloudRoot,
		Downloader: newSimulatedDownloader(cc.Logger),
		Logger:     cc.Logger,
	})
	if err != nil {
		return fmt.Errorf("initializing sync engine: %w", err)
	}

	if err := engine.Start(ctx); err != nil {
		engine.Stop()
		return fmt.Errorf("starting sync engine: %w", err)
	}

	cc.Statusf("kmlsync started (sync root %s, container %s)\n", cc.Cfg.Sync.SyncRoot, cc.Cfg.Sync.ContainerID)

	hup := sighupChannel()

	for {
		select {
		case <-ctx.Done():
			cc.Statusf("kmlsync stopping...\n")
			return engine.Stop()

		case <-hup:
			cc.Logger.Info("reloading config on SIGHUP")

			reloaded, err := config.LoadOrDefault(cc.Flags.ConfigPath)
			if err != nil {
				cc.Logger.Error("config reload failed", "error", err)
				continue
			}

			if !reloaded.Sync.Enabled && cc.Cfg.Sync.Enabled {
				engine.Pause()
			} else if reloaded.Sync.Enabled && !cc.Cfg.Sync.Enabled {
				engine.Resume()
			}

			cc.Cfg = reloaded
		}
	}
}
