package schedulerengine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"gitlab.com/docforge.net/internal/adapter/logging"
	"gitlab.com/docforge.net/internal/config"
)

type fakeSweeper struct {
	mu      sync.Mutex
	cutoffs []time.Time
	removed int
	err     error
}

func (f *fakeSweeper) Sweep(cutoff time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.removed, f.err
}

func (f *fakeSweeper) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

type fakePruner struct {
	cutoff time.Time
	n      int64
}

func (f *fakePruner) PruneHistory(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, nil
}

type tally struct {
	swept  int
	pruned int64
}

func (t *tally) AddSweptWorkspaces(n int) { t.swept += n }
func (t *tally) AddPrunedJobs(n int64)    { t.pruned += n }

func TestRunOnce_UsesConfiguredAges(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sweeper := &fakeSweeper{removed: 2}
	pruner := &fakePruner{n: 7}
	obs := &tally{}

	engine := NewSchedulerEngine(&config.JanitorCfg{
		SweepInterval:    time.Minute,
		MaxAge:           time.Hour,
		HistoryRetention: 24 * time.Hour,
	}, sweeper, pruner, logging.NewNopLogger())
	engine.SetObserver(obs)
	engine.now = func() time.Time { return now }

	engine.RunOnce(context.Background())

	assert.Equal(t, []time.Time{now.Add(-time.Hour)}, sweeper.cutoffs)
	assert.Equal(t, now.Add(-24*time.Hour), pruner.cutoff)
	assert.Equal(t, 2, obs.swept)
	assert.EqualValues(t, 7, obs.pruned)
}

func TestRunOnce_ToleratesFailuresAndMissingPruner(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("permission denied")}
	engine := NewSchedulerEngine(&config.JanitorCfg{MaxAge: time.Hour, HistoryRetention: time.Hour},
		sweeper, nil, logging.NewNopLogger())

	assert.NotPanics(t, func() { engine.RunOnce(context.Background()) })
	assert.Equal(t, 1, sweeper.count())
}

func TestStart_StopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	sweeper := &fakeSweeper{}
	engine := NewSchedulerEngine(&config.JanitorCfg{SweepInterval: 5 * time.Millisecond, MaxAge: time.Hour},
		sweeper, nil, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	engine.Start(ctx)
	assert.Eventually(t, func() bool { return sweeper.count() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	engine.Wait()
}

func TestStart_ZeroIntervalDisables(t *testing.T) {
	sweeper := &fakeSweeper{}
	engine := NewSchedulerEngine(&config.JanitorCfg{}, sweeper, nil, logging.NewNopLogger())

	engine.Start(context.Background())
	engine.Wait()
	assert.Zero(t, sweeper.count())
}
