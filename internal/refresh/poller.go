package refresh

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"awardpool-engine/internal/config"
	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/scheduler"
	"awardpool-engine/internal/snapshot"
)

// StartPoller refreshes results every polling interval while the configured
// window is open. Config is re-read on every tick so edits apply without a
// restart; the interval itself is fixed at start.
func StartPoller(ctx context.Context, db *sql.DB, cfgVal *atomic.Value, r *Refresher) {
	cfg, ok := cfgVal.Load().(config.Config)
	if !ok {
		return
	}
	go scheduler.Every(ctx, cfg.PollInterval(), "poll", func(ctx context.Context) error {
		return Tick(ctx, db, cfgVal, r)
	})
}

// Tick is one poller step: a no-op outside the window or when disabled.
func Tick(ctx context.Context, db *sql.DB, cfgVal *atomic.Value, r *Refresher) error {
	cfg, ok := cfgVal.Load().(config.Config)
	if !ok || !cfg.Polling.Enabled {
		return nil
	}
	start, end, err := cfg.PollWindow()
	if err != nil {
		return err
	}
	if !(scheduler.Window{Start: start, End: end}).Contains(r.now()) {
		return nil
	}

	ds, err := snapshot.Dataset(ctx, db, cfg.Ceremony.Year, cfg.Ceremony.DatasetPath)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err = r.Once(cctx, "", ds, cfg.Ceremony.URL)
	switch {
	case errors.Is(err, domain.ErrResultsPending):
		log.Printf("[poll] results pending year=%s", ds.Year)
		return nil
	case errors.Is(err, domain.ErrStaleResult), errors.Is(err, ErrRunning):
		return nil
	}
	return err
}
