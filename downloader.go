package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/ravensync/kmlsync/internal/model"
	"github.com/ravensync/kmlsync/internal/monitor"
)

// simulatedDownloader implements orchestrator.Downloader over the
// directory-simulated cloud replica (internal/monitor's ".downloading"
// marker convention). StartDownload returns immediately per spec.md §4.4;
// completion is reported asynchronously by removing the marker, which the
// next cloud scan picks up as IsDownloaded = true.
type simulatedDownloader struct {
	logger *slog.Logger
}

func newSimulatedDownloader(logger *slog.Logger) *simulatedDownloader {
	return &simulatedDownloader{logger: logger}
}

func (d *simulatedDownloader) StartDownload(ctx context.Context, item model.CloudItem) error {
	go func() {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-ctx.Done():
			return
		}

		if err := monitor.CompleteDownload(item.FileURL); err != nil {
			d.logger.Warn("simulated download failed", "name", item.FileName, "error", err)
		}
	}()

	return nil
}
