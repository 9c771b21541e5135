package compile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/docforge.net/internal/adapter/logging"
	"gitlab.com/docforge.net/internal/core/services/toolchain"
	"gitlab.com/docforge.net/internal/core/services/workspace"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

type fixedResolver struct {
	tool *domain.ToolBinary
	err  error
}

func (f fixedResolver) Resolve(context.Context) (*domain.ToolBinary, error) {
	return f.tool, f.err
}

type recordedJob struct {
	origin  domain.JobSource
	size    int
	outcome domain.Outcome
}

type recordingJobs struct {
	mu      sync.Mutex
	records []recordedJob
}

func (r *recordingJobs) RecordOutcome(_ context.Context, origin domain.JobSource, size int, _ time.Time, out domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recordedJob{origin: origin, size: size, outcome: out})
}

func (r *recordingJobs) GetJob(context.Context, uuid.UUID) (*domain.JobRecord, error) {
	return nil, errs.ErrNotFound
}

func (r *recordingJobs) GetRecentJobs(context.Context, int) ([]*domain.JobRecord, error) {
	return nil, nil
}

func (r *recordingJobs) GetArtifact(context.Context, uuid.UUID) ([]byte, error) {
	return nil, errs.ErrNotFound
}

func (r *recordingJobs) PruneHistory(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type outcomeCounter struct {
	mu    sync.Mutex
	kinds []domain.ErrorKind
}

func (o *outcomeCounter) ObserveOutcome(kind domain.ErrorKind, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.kinds = append(o.kinds, kind)
}

type serviceFixture struct {
	svc    *Service
	base   string
	runner *scriptedRunner
	jobs   *recordingJobs
	obs    *outcomeCounter
}

func newServiceFixture(t *testing.T, resolver toolchain.IToolResolver, maxConcurrent int, steps ...func(domain.RunCommand) (domain.RunResult, error)) *serviceFixture {
	t.Helper()
	base := filepath.Join(t.TempDir(), "root")
	logger := logging.NewNopLogger()
	runner := &scriptedRunner{steps: steps}
	jobs := &recordingJobs{}
	obs := &outcomeCounter{}

	svc := NewService(
		resolver,
		workspace.NewManager(base, "docforge-", logger),
		NewEngine(testConfig(), runner, logger),
		jobs,
		maxConcurrent,
		logger,
	)
	svc.SetObserver(obs)
	return &serviceFixture{svc: svc, base: base, runner: runner, jobs: jobs, obs: obs}
}

func (f *serviceFixture) assertBaseEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.base)
	if os.IsNotExist(err) {
		return
	}
	require.NoError(t, err)
	assert.Empty(t, entries, "workspace left behind")
}

func TestService_SuccessCleansUpAndRecords(t *testing.T) {
	f := newServiceFixture(t, fixedResolver{tool: fakeTool}, 2, producesPDF("", 0, ""))

	out := f.svc.Compile(context.Background(), domain.JobSourceCompile, minimalDocument)

	require.True(t, out.Success)
	f.assertBaseEmpty(t)
	require.Len(t, f.jobs.records, 1)
	assert.Equal(t, domain.JobSourceCompile, f.jobs.records[0].origin)
	assert.Equal(t, len(minimalDocument), f.jobs.records[0].size)
	assert.Equal(t, out.JobID, f.jobs.records[0].outcome.JobID)
	assert.Equal(t, []domain.ErrorKind{domain.ErrorKindNone}, f.obs.kinds)
}

func TestService_FailureCleansUp(t *testing.T) {
	f := newServiceFixture(t, fixedResolver{tool: fakeTool}, 2, failsWithLog("! Undefined control sequence.\n"))

	out := f.svc.Compile(context.Background(), domain.JobSourceCompile, minimalDocument)

	assert.False(t, out.Success)
	assert.Equal(t, domain.ErrorKindCompilationFailed, out.Kind)
	f.assertBaseEmpty(t)
}

func TestService_TimeoutCleansUp(t *testing.T) {
	f := newServiceFixture(t, fixedResolver{tool: fakeTool}, 1,
		func(cmd domain.RunCommand) (domain.RunResult, error) {
			_ = os.WriteFile(filepath.Join(cmd.Dir, "document.aux"), []byte("partial"), 0o600)
			return domain.RunResult{TimedOut: true, ExitCode: -1}, nil
		})

	out := f.svc.Compile(context.Background(), domain.JobSourceCompile, minimalDocument)

	assert.Equal(t, domain.ErrorKindTimeout, out.Kind)
	f.assertBaseEmpty(t)
}

func TestService_ToolNotFoundNeverCreatesWorkspace(t *testing.T) {
	notFound := &toolchain.ToolNotFoundError{Tried: []string{"pdflatex"}, Hint: "install TeX"}
	f := newServiceFixture(t, fixedResolver{err: notFound}, 1, producesPDF("", 0, ""))

	out := f.svc.Compile(context.Background(), domain.JobSourceCompile, minimalDocument)

	assert.False(t, out.Success)
	assert.Equal(t, domain.ErrorKindToolNotFound, out.Kind)
	assert.Contains(t, out.Detail, "install TeX")
	assert.NotEqual(t, uuid.Nil, out.JobID)
	assert.Empty(t, f.runner.calls)
	_, err := os.Stat(f.base)
	assert.True(t, os.IsNotExist(err))
}

func TestService_InvalidInputShortCircuits(t *testing.T) {
	f := newServiceFixture(t, fixedResolver{tool: fakeTool}, 1, producesPDF("", 0, ""))

	out := f.svc.Compile(context.Background(), domain.JobSourceCompile, "  ")

	assert.Equal(t, domain.ErrorKindInvalidInput, out.Kind)
	assert.Empty(t, f.runner.calls)
	require.Len(t, f.jobs.records, 1)
}

func TestService_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	f := newServiceFixture(t, fixedResolver{tool: fakeTool}, 2,
		func(cmd domain.RunCommand) (domain.RunResult, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			return producesPDF("", 0, "")(cmd)
		})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := f.svc.Compile(context.Background(), domain.JobSourceCompile, minimalDocument)
			assert.True(t, out.Success)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	f.assertBaseEmpty(t)
}

func TestService_GivesUpWaitingForSlot(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	f := newServiceFixture(t, fixedResolver{tool: fakeTool}, 1,
		func(cmd domain.RunCommand) (domain.RunResult, error) {
			close(started)
			<-release
			return producesPDF("", 0, "")(cmd)
		})

	done := make(chan domain.Outcome)
	go func() {
		done <- f.svc.Compile(context.Background(), domain.JobSourceCompile, minimalDocument)
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	waiting := f.svc.Compile(ctx, domain.JobSourceCompile, minimalDocument)
	assert.Equal(t, domain.ErrorKindTimeout, waiting.Kind)

	close(release)
	assert.True(t, (<-done).Success)
	f.assertBaseEmpty(t)
}

func TestService_DeterministicOutcomes(t *testing.T) {
	log := "! Missing $ inserted.\n<inserted text>\n"
	f := newServiceFixture(t, fixedResolver{tool: fakeTool}, 1, failsWithLog(log))

	first := f.svc.Compile(context.Background(), domain.JobSourceCompile, minimalDocument)
	second := f.svc.Compile(context.Background(), domain.JobSourceCompile, minimalDocument)

	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.LogExcerpt, second.LogExcerpt)
	assert.NotEqual(t, first.JobID, second.JobID)
}
