// Package jobs runs the nightly maintenance schedule: ledger reconciliation
// and a reference catalog audit.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/candlewick-games/candlewick/internal/reference"
)

// Store exposes the maintenance operations the jobs need.
type Store interface {
	RecomputeSpentTotals(ctx context.Context) (int64, error)
}

// Runner owns the job scheduler.
type Runner struct {
	scheduler gocron.Scheduler
	store     Store
	ref       *reference.Repository
	source    reference.Source
}

// New creates a job runner over the store and reference repository.
func New(store Store, ref *reference.Repository, source reference.Source) (*Runner, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Runner{
		scheduler: scheduler,
		store:     store,
		ref:       ref,
		source:    source,
	}, nil
}

// Start registers the nightly jobs and starts the scheduler. Jobs run at
// 03:00 UTC when play is quiet.
func (r *Runner) Start() error {
	at := gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))

	if _, err := r.scheduler.NewJob(
		gocron.DailyJob(1, at),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := r.ReconcileLedgers(ctx); err != nil {
				log.Printf("[JOBS] ledger reconciliation: %v", err)
			}
		}),
	); err != nil {
		return fmt.Errorf("schedule ledger reconciliation: %w", err)
	}

	if _, err := r.scheduler.NewJob(
		gocron.DailyJob(1, at),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := r.AuditReference(ctx); err != nil {
				log.Printf("[JOBS] reference audit: %v", err)
			}
		}),
	); err != nil {
		return fmt.Errorf("schedule reference audit: %w", err)
	}

	r.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs.
func (r *Runner) Stop() error {
	return r.scheduler.Shutdown()
}

// ReconcileLedgers rewrites every cached spent-experience total from the
// ledger. Drift means a write path skipped its ledger entry, so any change is
// logged loudly.
func (r *Runner) ReconcileLedgers(ctx context.Context) error {
	changed, err := r.store.RecomputeSpentTotals(ctx)
	if err != nil {
		return fmt.Errorf("recompute spent totals: %w", err)
	}
	if changed > 0 {
		log.Printf("[JOBS] ledger reconciliation corrected %d characters", changed)
	}
	return nil
}

// AuditReference reloads the catalog from storage, which revalidates skill
// prerequisites and refreshes the in-memory snapshot.
func (r *Runner) AuditReference(ctx context.Context) error {
	if err := r.ref.Reload(ctx, r.source); err != nil {
		return fmt.Errorf("reload reference: %w", err)
	}
	return nil
}
