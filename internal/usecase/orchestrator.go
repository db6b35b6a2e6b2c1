package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/metrics"
)

const defaultVisitedTTL = 48 * time.Hour

// Observer receives progress callbacks from a BatchOrchestrator run.
type Observer interface {
	BatchStarted(index, total int, seed entity.SeedTarget)
	BatchFinished(index, total int, result entity.BatchResult)
}

// OrchestratorConfig holds the knobs of one orchestrator run.
type OrchestratorConfig struct {
	Profile entity.PageProfile
	// Offset is the index of the first seed to visit.
	Offset int
	// MaxBatches caps how many seeds are visited.
	MaxBatches int
	// NavigationSettle bounds the wait after each navigation.
	NavigationSettle time.Duration

	// Visited, when set, skips seeds harvested within VisitedTTL.
	Visited    repository.VisitedRepository
	VisitedTTL time.Duration

	Observer Observer
}

// BatchOrchestrator visits seeds one after another on a single driver session.
type BatchOrchestrator struct {
	open repository.DriverOpener
	cfg  OrchestratorConfig
}

// NewBatchOrchestrator creates an orchestrator that acquires its driver
// through open.
func NewBatchOrchestrator(open repository.DriverOpener, cfg OrchestratorConfig) *BatchOrchestrator {
	if cfg.VisitedTTL <= 0 {
		cfg.VisitedTTL = defaultVisitedTTL
	}
	return &BatchOrchestrator{open: open, cfg: cfg}
}

// Window returns the seeds a run will visit: seeds[offset:offset+maxBatches],
// clipped to the slice bounds.
func Window(seeds []entity.SeedTarget, offset, maxBatches int) []entity.SeedTarget {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(seeds) || maxBatches <= 0 {
		return nil
	}
	end := offset + maxBatches
	if end > len(seeds) {
		end = len(seeds)
	}
	return seeds[offset:end]
}

// Run harvests every seed in the configured window and returns one result per
// visited seed, in seed order. A seed that fails to load yields an empty
// result and the run moves on. Run fails only when the driver cannot be
// acquired or ctx ends; in the latter case the results gathered so far are
// returned with the context error.
func (o *BatchOrchestrator) Run(ctx context.Context, seeds []entity.SeedTarget) (results []entity.BatchResult, err error) {
	window := Window(seeds, o.cfg.Offset, o.cfg.MaxBatches)
	if len(window) == 0 {
		slog.Info("No seeds to harvest", "seeds", len(seeds), "offset", o.cfg.Offset, "max_batches", o.cfg.MaxBatches)
		return []entity.BatchResult{}, nil
	}

	driver, err := o.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire driver: %w", err)
	}
	defer func() {
		if cerr := driver.Close(); cerr != nil {
			slog.Error("Failed to release driver", "error", cerr)
		}
	}()

	extractor := NewPaginationExtractor(driver, o.cfg.Profile)
	results = make([]entity.BatchResult, 0, len(window))
	for i, seed := range window {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if o.cfg.Observer != nil {
			o.cfg.Observer.BatchStarted(i, len(window), seed)
		}

		result := o.runOne(ctx, driver, extractor, seed)
		results = append(results, result)

		metrics.BatchesTotal.WithLabelValues(string(result.Stop)).Inc()
		metrics.BatchDuration.WithLabelValues(o.cfg.Profile.Name).Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())
		slog.Info("Batch finished",
			"seed", seed,
			"stop", result.Stop,
			"pages", result.Pages,
			"records", len(result.Records),
		)
		if o.cfg.Observer != nil {
			o.cfg.Observer.BatchFinished(i, len(window), result)
		}
	}
	return results, ctx.Err()
}

func (o *BatchOrchestrator) runOne(ctx context.Context, driver repository.Driver, extractor *PaginationExtractor, seed entity.SeedTarget) entity.BatchResult {
	started := time.Now()
	empty := func(stop entity.StopReason, err error) entity.BatchResult {
		r := entity.BatchResult{
			Seed:       seed,
			Profile:    o.cfg.Profile.Name,
			Records:    []entity.HarvestedRecord{},
			Stop:       stop,
			StartedAt:  started,
			FinishedAt: time.Now(),
		}
		if err != nil {
			r.Err = err.Error()
		}
		return r
	}

	if o.cfg.Visited != nil {
		visited, err := o.cfg.Visited.IsVisited(ctx, seed.String())
		if err != nil {
			slog.Warn("Visited check failed, harvesting anyway", "seed", seed, "error", err)
		} else if visited {
			slog.Info("Skipping recently harvested seed", "seed", seed)
			return empty(entity.StopSkipped, nil)
		}
	}

	slog.Info("Navigating to seed", "seed", seed)
	if err := driver.Navigate(ctx, seed.String()); err != nil {
		slog.Error("Navigation failed", "seed", seed, "error", err)
		return empty(entity.StopNavigationFailed, err)
	}

	settle := entity.SettlePolicy{Interval: o.cfg.Profile.Settle.Interval, Timeout: o.cfg.NavigationSettle}
	if _, err := Settle(ctx, driver, o.cfg.Profile.Content, settle); err != nil {
		return empty(entity.StopCanceled, err)
	}

	result := extractor.Extract(ctx, seed)
	result.StartedAt = started

	if o.cfg.Visited != nil && result.Succeeded() {
		if err := o.cfg.Visited.MarkVisited(ctx, seed.String(), o.cfg.VisitedTTL); err != nil {
			slog.Warn("Failed to mark seed as visited", "seed", seed, "error", err)
		}
	}
	return result
}
