package compile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/services/job"
	"gitlab.com/docforge.net/internal/core/services/toolchain"
	"gitlab.com/docforge.net/internal/core/services/workspace"
	"gitlab.com/docforge.net/internal/domain"
)

var _ ICompileService = (*Service)(nil)

// OutcomeObserver is told about every finished job
type OutcomeObserver interface {
	ObserveOutcome(kind domain.ErrorKind, d time.Duration)
}

// Service implements ICompileService
type Service struct {
	resolver   toolchain.IToolResolver
	workspaces workspace.IWorkspaceManager
	engine     *Engine
	jobs       job.IJobService
	slots      *semaphore.Weighted
	logger     primary.Logger
	observer   OutcomeObserver
}

// NewService wires the pipeline; maxConcurrent below one means a single slot.
// jobs may be nil when nothing should be recorded.
func NewService(
	resolver toolchain.IToolResolver,
	workspaces workspace.IWorkspaceManager,
	engine *Engine,
	jobs job.IJobService,
	maxConcurrent int,
	logger primary.Logger,
) *Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Service{
		resolver:   resolver,
		workspaces: workspaces,
		engine:     engine,
		jobs:       jobs,
		slots:      semaphore.NewWeighted(int64(maxConcurrent)),
		logger:     logger,
	}
}

// SetObserver attaches a metrics observer
func (s *Service) SetObserver(o OutcomeObserver) {
	s.observer = o
}

func (s *Service) Toolchain(ctx context.Context) (*domain.ToolBinary, error) {
	return s.resolver.Resolve(ctx)
}

func (s *Service) Compile(ctx context.Context, origin domain.JobSource, source string) domain.Outcome {
	start := time.Now()
	out := s.compile(ctx, source)
	if out.JobID == uuid.Nil {
		out.JobID = uuid.New()
	}
	if out.Duration == 0 {
		out.Duration = time.Since(start)
	}

	if s.observer != nil {
		s.observer.ObserveOutcome(out.Kind, out.Duration)
	}
	if s.jobs != nil {
		s.jobs.RecordOutcome(ctx, origin, len(source), start, out)
	}
	return out
}

func (s *Service) compile(ctx context.Context, source string) domain.Outcome {
	if err := ValidateSource(source); err != nil {
		return domain.Failed(domain.ErrorKindInvalidInput, err.Error())
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		s.logger.Warn("Gave up waiting for a compile slot", "error", err)
		return domain.Failed(domain.ErrorKindTimeout, "request ended while waiting for a free compile slot")
	}
	defer s.slots.Release(1)

	tool, err := s.resolver.Resolve(ctx)
	if err != nil {
		return domain.Failed(domain.ErrorKindToolNotFound, err.Error())
	}

	ws, err := s.workspaces.Acquire()
	if err != nil {
		s.logger.Error("Failed to acquire workspace", "error", err)
		return domain.Failed(domain.ErrorKindWorkspace, err.Error())
	}
	defer s.workspaces.Release(ws)

	return s.engine.Compile(ctx, source, tool, ws)
}
