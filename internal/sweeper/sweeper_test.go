package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	calls   atomic.Int64
	expired int
	err     error
}

func (f *fakeExpirer) ExpireOverdue(context.Context) (int, error) {
	f.calls.Add(1)
	return f.expired, f.err
}

type fakeMetrics struct {
	sweeps  atomic.Int64
	expired atomic.Int64
}

func (f *fakeMetrics) SweepInc()                { f.sweeps.Add(1) }
func (f *fakeMetrics) BookingsExpiredAdd(n int) { f.expired.Add(int64(n)) }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestSweeper_RunsImmediatelyAndOnTicks(t *testing.T) {
	expirer := &fakeExpirer{expired: 2}
	metrics := &fakeMetrics{}
	s := New(expirer, 10*time.Millisecond, metrics, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return expirer.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	calls := expirer.calls.Load()
	assert.Equal(t, calls, metrics.sweeps.Load())
	assert.Equal(t, calls*2, metrics.expired.Load())
}

func TestSweeper_KeepsRunningAfterError(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("db down")}
	metrics := &fakeMetrics{}
	s := New(expirer, 5*time.Millisecond, metrics, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return expirer.calls.Load() >= 2
	}, time.Second, time.Millisecond)

	cancel()
	<-done

	assert.Zero(t, metrics.expired.Load())
}
