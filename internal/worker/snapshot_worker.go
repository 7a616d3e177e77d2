package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_market/internal/repository"
)

// SnapshotWorker periodically loads the registry and logs its size, which
// surfaces storage or corruption problems before a user request hits them.
type SnapshotWorker struct {
	store    repository.RegistryStore
	interval time.Duration
}

// NewSnapshotWorker constructs a SnapshotWorker.
func NewSnapshotWorker(store repository.RegistryStore, interval time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		store:    store,
		interval: interval,
	}
}

// Start begins the periodic loop until context is canceled. A non-positive
// interval disables the worker.
func (w *SnapshotWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Snapshot worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting snapshot worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Snapshot worker stopped")
			return
		}
	}
}

func (w *SnapshotWorker) run(ctx context.Context) {
	reg, err := w.store.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load registry snapshot")
		return
	}

	log.Info().
		Int("shops", len(reg.Shops)).
		Int("products", len(reg.Products)).
		Int("orders", len(reg.Orders)).
		Msg("Registry snapshot")
}
