package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/metrics"
)

const jobHotSync = "hot_sync"

// HotSource lists the remote hot games.
type HotSource interface {
	Hot(ctx context.Context) ([]domain.HotListEntry, error)
}

// Registrar reconciles an external id and persists admitted games.
type Registrar interface {
	Register(ctx context.Context, externalID int64) (domain.ReconciliationDecision, error)
}

// HotSyncResult counts what one sync did with the hot list.
type HotSyncResult struct {
	Listed   int
	Admitted int
	Updated  int
	Flagged  int
	Rejected int
	Failed   int
}

// HotListSyncer periodically registers the games on the remote hot list.
// Flagged duplicates are logged and left out of the catalog.
type HotListSyncer struct {
	source        HotSource
	registrar     Registrar
	logger        logger.Logger
	interval      time.Duration
	workers       int
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

// NewHotListSyncer creates a syncer. Sends on manualTrigger start a sync outside the schedule.
func NewHotListSyncer(
	source HotSource,
	registrar Registrar,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *HotListSyncer {
	return &HotListSyncer{
		source:        source,
		registrar:     registrar,
		logger:        log,
		interval:      interval,
		workers:       4,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs a sync in the background right away, then on every tick and manual trigger until Stop or ctx is done.
// A failed sync is logged; the schedule keeps running.
func (hs *HotListSyncer) Start(ctx context.Context) {
	ticker := time.NewTicker(hs.interval)
	go func() {
		defer ticker.Stop()
		hs.run(ctx)
		for {
			select {
			case <-ticker.C:
				hs.run(ctx)
			case <-hs.manualTrigger:
				hs.logger.Info("manual hot list sync triggered")
				hs.run(ctx)
			case <-hs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the syncer. It is safe to call more than once.
func (hs *HotListSyncer) Stop() {
	hs.stopOnce.Do(func() { close(hs.stopCh) })
}

func (hs *HotListSyncer) run(ctx context.Context) {
	if _, err := hs.Sync(ctx); err != nil {
		hs.logger.Error("failed to sync hot list", logger.Error(err))
	}
}

// Sync registers every game on the hot list. Ids are processed by a small worker
// pool; the shared rate limiter still spaces the remote calls.
func (hs *HotListSyncer) Sync(ctx context.Context) (HotSyncResult, error) {
	start := time.Now()
	hs.logger.Info("syncing hot list")

	entries, err := hs.source.Hot(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues(jobHotSync, metrics.OutcomeError).Inc()
		return HotSyncResult{}, fmt.Errorf("failed to fetch hot list: %w", err)
	}

	var (
		mu  sync.Mutex
		res = HotSyncResult{Listed: len(entries)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hs.workers)
	for _, e := range entries {
		g.Go(func() error {
			d, err := hs.registrar.Register(gctx, e.ExternalID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Failed++
				hs.logger.Warn("hot list entry failed",
					logger.Int64("external_id", e.ExternalID),
					logger.String("name", e.Name),
					logger.Error(err))
			case d.Kind == domain.DecisionAdmit && d.Updated:
				res.Updated++
			case d.Kind == domain.DecisionAdmit:
				res.Admitted++
			case d.Kind == domain.DecisionFlagDuplicate:
				res.Flagged++
				hs.logger.Info("hot list entry flagged as duplicate",
					logger.Int64("external_id", e.ExternalID),
					logger.String("name", e.Name),
					logger.String("reason", d.Reason))
			default:
				res.Rejected++
			}
			// Entries fail independently
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		metrics.SyncRuns.WithLabelValues(jobHotSync, metrics.OutcomeError).Inc()
		return res, err
	}
	metrics.SyncRuns.WithLabelValues(jobHotSync, metrics.OutcomeOK).Inc()

	hs.logger.Info("hot list synced",
		logger.Int("listed", res.Listed),
		logger.Int("admitted", res.Admitted),
		logger.Int("updated", res.Updated),
		logger.Int("flagged", res.Flagged),
		logger.Int("rejected", res.Rejected),
		logger.Int("failed", res.Failed),
		logger.Duration("duration", time.Since(start)))
	return res, nil
}
