package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestScheduler_RunsJobsPeriodically(t *testing.T) {
	s := New(nil)
	var ticks, failures atomic.Int32
	s.Add(Job{Name: "tick", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
		ticks.Add(1)
		return nil
	}})
	s.Add(Job{Name: "failing", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
		failures.Add(1)
		return errors.New("boom")
	}})
	s.Add(Job{Name: "disabled", Interval: -1, Run: func(context.Context) error {
		t.Error("disabled job ran")
		return nil
	}})

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)

	require.Eventually(t, func() bool { return ticks.Load() >= 3 && failures.Load() >= 3 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
}

func TestScheduler_RunOnStartAndPanic(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(zap.New(core))
	ran := make(chan struct{}, 1)
	s.Add(Job{Name: "warm", Interval: time.Hour, RunOnStart: true, Run: func(context.Context) error {
		ran <- struct{}{}
		return nil
	}})
	s.Add(Job{Name: "panics", Interval: time.Millisecond, Run: func(context.Context) error {
		panic("nil map")
	}})

	require.NoError(t, s.Start(context.Background()))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("RunOnStart job did not run")
	}
	require.Eventually(t, func() bool { return logs.FilterMessage("job panicked").Len() > 0 }, time.Second, time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}

type fakeMaintenance struct {
	refreshed atomic.Int32
	swept     atomic.Int32
	repaired  atomic.Int32
}

func (f *fakeMaintenance) RefreshAll(context.Context) error {
	f.refreshed.Add(1)
	return nil
}

func (f *fakeMaintenance) SweepExpiredQuotes(context.Context) (int, error) {
	f.swept.Add(1)
	return 2, nil
}

func (f *fakeMaintenance) RepairAll(context.Context) (entities.RepairReport, error) {
	f.repaired.Add(1)
	return entities.RepairReport{Scanned: 3, Relinked: 1}, nil
}

func TestMaintenanceJobs(t *testing.T) {
	f := &fakeMaintenance{}
	jobs := MaintenanceJobs(config.SchedulerConfig{
		ReferenceRefresh: time.Hour,
		QuoteExpiry:      time.Minute,
		Repair:           -1,
	}, f, f)
	require.Len(t, jobs, 3)

	for _, job := range jobs {
		require.NoError(t, job.Run(context.Background()))
	}
	assert.Equal(t, int32(1), f.refreshed.Load())
	assert.Equal(t, int32(1), f.swept.Load())
	assert.Equal(t, int32(1), f.repaired.Load())

	s := New(nil)
	for _, job := range jobs {
		s.Add(job)
	}
	assert.Equal(t, []string{"reference-refresh", "quote-expiry"}, s.Jobs())
}
