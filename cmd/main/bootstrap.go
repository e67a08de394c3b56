package main

import (
	"context"
	"time"

	"macro-observer/src/loader"
	"macro-observer/src/logger"
	"macro-observer/src/models"
)

// -----------------------------------------------------------------------------

// loadTimeout bounds one load including its retries.
func loadTimeout(config *models.MConfig) time.Duration {
	return time.Duration(config.Network.RequestTimeout*(config.Network.MaxRetries+2)) * time.Second
}

// -----------------------------------------------------------------------------

// performInitialLoad runs the startup load. A failure leaves the dashboard
// unloaded; the HTTP surface still starts and a reload can be requested.
func performInitialLoad(ctx context.Context, controller *loader.LoadController, config *models.MConfig, appLogger *logger.Logger) {
	appLogger.Info("Fetching initial dashboard...")
	ctx, cancel := context.WithTimeout(ctx, loadTimeout(config))
	defer cancel()

	id, err := controller.Load(ctx, models.MFetchParams{})
	if err != nil {
		appLogger.Warning("Initial load %d failed: %v", id, err)
		return
	}
	snap := controller.Snapshot()
	appLogger.Info("Initial load %d ready: %d countries", id, snap.Store.Len())
}

// -----------------------------------------------------------------------------

// runRefreshLoop reloads with the configured defaults every RefreshMinutes
// until ctx is done. It returns immediately when refreshing is disabled.
func runRefreshLoop(ctx context.Context, controller *loader.LoadController, config *models.MConfig, appLogger *logger.Logger) {
	if config.Dashboard.RefreshMinutes <= 0 {
		return
	}
	interval := time.Duration(config.Dashboard.RefreshMinutes) * time.Minute
	appLogger.Info("Refreshing every %v", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			loadCtx, cancel := context.WithTimeout(ctx, loadTimeout(config))
			if _, err := controller.Load(loadCtx, models.MFetchParams{}); err != nil {
				appLogger.Warning("Scheduled refresh failed: %v", err)
			}
			cancel()
		}
	}
}
