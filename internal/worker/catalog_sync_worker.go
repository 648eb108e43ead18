package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// CatalogLoader reloads the in-memory catalog from the database.
type CatalogLoader interface {
	Load(ctx context.Context) error
}

// CatalogSyncWorker periodically reloads the catalog so edits made by other
// instances reach this one.
type CatalogSyncWorker struct {
	loader   CatalogLoader
	interval time.Duration
}

// NewCatalogSyncWorker constructs a CatalogSyncWorker.
func NewCatalogSyncWorker(loader CatalogLoader, interval time.Duration) *CatalogSyncWorker {
	return &CatalogSyncWorker{
		loader:   loader,
		interval: interval,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
// A zero interval disables the worker.
func (w *CatalogSyncWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Catalog sync worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting catalog sync worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog sync worker stopped")
			return
		}
	}
}

func (w *CatalogSyncWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.loader.Load(ctx); err != nil {
		// The store keeps serving the previous list.
		log.Error().Err(err).Msg("Failed to sync catalog")
		return
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Catalog sync completed")
}
