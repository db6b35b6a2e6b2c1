package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/user/storefront-harvester/internal/delivery/http/router"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/internal/usecase"
)

// harvestRun describes one orchestrated crawl started from the CLI.
type harvestRun struct {
	profile    entity.PageProfile
	seeds      []entity.SeedTarget
	offset     int
	maxBatches int
	files      []repository.BatchSink
}

// applyTiming copies the configured scroll and settle values onto p.
func applyTiming(p entity.PageProfile, pages int) entity.PageProfile {
	p.MaxPages = pages
	p.ScrollY = cfg.ScrollY
	p.Settle = entity.SettlePolicy{Interval: cfg.PollInterval, Timeout: cfg.ContentSettle}
	return p
}

func runHarvest(ctx context.Context, run harvestRun) error {
	open, err := driverOpener(cfg)
	if err != nil {
		return err
	}

	b, err := openBackends(ctx, cfg, run.profile.Name, run.files...)
	if err != nil {
		return err
	}
	defer b.Close()

	var next usecase.Observer
	if progress {
		next = newSpinnerObserver(os.Stderr)
	}
	tracker := usecase.NewProgressTracker(run.profile.Name, next)

	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := router.Serve(serveCtx, cfg.MetricsAddr, tracker); err != nil {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	orchestrator := usecase.NewBatchOrchestrator(open, usecase.OrchestratorConfig{
		Profile:          run.profile,
		Offset:           run.offset,
		MaxBatches:       run.maxBatches,
		NavigationSettle: cfg.NavigationSettle,
		Visited:          b.visited,
		VisitedTTL:       cfg.VisitedTTL,
		Observer:         tracker,
	})

	slog.Info("Starting harvest",
		"profile", run.profile.Name,
		"seeds", len(run.seeds),
		"offset", run.offset,
		"max_batches", run.maxBatches,
		"engine", cfg.DriverEngine,
	)
	results, runErr := orchestrator.Run(ctx, run.seeds)
	if runErr != nil && results == nil {
		return runErr
	}

	// Partial results are still written after an interrupt.
	saveErr := saveAll(context.WithoutCancel(ctx), b.sinks, results)
	renderBatches(os.Stdout, results)

	if runErr != nil {
		runErr = fmt.Errorf("harvest interrupted after %d batches: %w", len(results), runErr)
	}
	return errors.Join(runErr, saveErr)
}
