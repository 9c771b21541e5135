package schedulerengine

import (
	"context"
	"sync"
	"time"

	"gitlab.com/docforge.net/internal/config"
	"gitlab.com/docforge.net/internal/core/ports/primary"
)

// WorkspaceSweeper removes orphaned workspaces last touched before cutoff
type WorkspaceSweeper interface {
	Sweep(cutoff time.Time) (int, error)
}

// HistoryPruner removes job records completed before cutoff
type HistoryPruner interface {
	PruneHistory(ctx context.Context, cutoff time.Time) (int64, error)
}

// JanitorObserver counts what each sweep removed
type JanitorObserver interface {
	AddSweptWorkspaces(n int)
	AddPrunedJobs(n int64)
}

// SchedulerEngine runs the periodic housekeeping loops
type SchedulerEngine struct {
	cfg      *config.JanitorCfg
	sweeper  WorkspaceSweeper
	pruner   HistoryPruner
	logger   primary.Logger
	observer JanitorObserver
	now      func() time.Time

	wg sync.WaitGroup
}

// NewSchedulerEngine builds the engine; pruner may be nil when history is disabled
func NewSchedulerEngine(
	cfg *config.JanitorCfg,
	sweeper WorkspaceSweeper,
	pruner HistoryPruner,
	logger primary.Logger,
) *SchedulerEngine {
	return &SchedulerEngine{
		cfg:     cfg,
		sweeper: sweeper,
		pruner:  pruner,
		logger:  logger,
		now:     time.Now,
	}
}

// SetObserver attaches a metrics observer
func (s *SchedulerEngine) SetObserver(o JanitorObserver) {
	s.observer = o
}

// Start launches the loops; they stop when ctx is cancelled. A zero interval disables the engine.
func (s *SchedulerEngine) Start(ctx context.Context) {
	if s.cfg.SweepInterval <= 0 {
		s.logger.Info("Janitor disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()

		// a restart is the likeliest moment to find orphans
		s.RunOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// Wait blocks until the loops have returned
func (s *SchedulerEngine) Wait() {
	s.wg.Wait()
}

// RunOnce performs a single sweep and prune pass
func (s *SchedulerEngine) RunOnce(ctx context.Context) {
	now := s.now()

	if s.sweeper != nil && s.cfg.MaxAge > 0 {
		removed, err := s.sweeper.Sweep(now.Add(-s.cfg.MaxAge))
		if err != nil {
			s.logger.Error("Workspace sweep failed", "error", err)
		} else if removed > 0 {
			s.logger.Info("Removed orphaned workspaces", "count", removed)
		}
		if s.observer != nil {
			s.observer.AddSweptWorkspaces(removed)
		}
	}

	if s.pruner != nil && s.cfg.HistoryRetention > 0 {
		pruned, err := s.pruner.PruneHistory(ctx, now.Add(-s.cfg.HistoryRetention))
		if err != nil {
			s.logger.Error("History prune failed", "error", err)
			return
		}
		if s.observer != nil {
			s.observer.AddPrunedJobs(pruned)
		}
	}
}
