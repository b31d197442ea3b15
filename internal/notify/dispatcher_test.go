// AngelaMos | 2026
// dispatcher_test.go

package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/messhall/internal/config"
)

func newTestDispatcher(workers, size int, timeout time.Duration) *Dispatcher {
	return NewDispatcher(config.NotifyConfig{
		Workers:     workers,
		QueueSize:   size,
		TaskTimeout: timeout,
	}, nil)
}

func TestDispatcher_RunsQueuedTasks(t *testing.T) {
	d := newTestDispatcher(2, 8, time.Second)
	d.Start()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.True(t, d.Enqueue("count", func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}

	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, int32(5), ran.Load())
	stats := d.Stats()
	assert.Equal(t, uint64(5), stats.Queued)
	assert.Equal(t, uint64(5), stats.Completed)
	assert.Zero(t, stats.Failed)
	assert.Zero(t, stats.Dropped)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	d := newTestDispatcher(1, 1, time.Second)

	noop := func(context.Context) error { return nil }
	assert.True(t, d.Enqueue("first", noop))
	assert.False(t, d.Enqueue("second", noop))

	d.Start()
	require.NoError(t, d.Stop(context.Background()))

	stats := d.Stats()
	assert.Equal(t, uint64(1), stats.Completed)
	assert.Equal(t, uint64(1), stats.Dropped)
}

func TestDispatcher_CountsFailuresAndPanics(t *testing.T) {
	d := newTestDispatcher(1, 4, time.Second)
	d.Start()

	d.Enqueue("fails", func(context.Context) error { return errors.New("smtp down") })
	d.Enqueue("panics", func(context.Context) error { panic("boom") })
	d.Enqueue("ok", func(context.Context) error { return nil })

	require.NoError(t, d.Stop(context.Background()))

	stats := d.Stats()
	assert.Equal(t, uint64(2), stats.Failed)
	assert.Equal(t, uint64(1), stats.Completed)
}

func TestDispatcher_TaskContextHasTimeout(t *testing.T) {
	d := newTestDispatcher(1, 1, 20*time.Millisecond)
	d.Start()

	var got error
	d.Enqueue("slow", func(ctx context.Context) error {
		<-ctx.Done()
		got = ctx.Err()
		return got
	})

	require.NoError(t, d.Stop(context.Background()))
	assert.ErrorIs(t, got, context.DeadlineExceeded)
}

func TestDispatcher_RejectsAfterStop(t *testing.T) {
	d := newTestDispatcher(1, 1, time.Second)
	d.Start()
	require.NoError(t, d.Stop(context.Background()))

	assert.False(t, d.Enqueue("late", func(context.Context) error { return nil }))
	assert.Equal(t, uint64(1), d.Stats().Dropped)

	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_StopDeadlineCancelsRunningTasks(t *testing.T) {
	d := newTestDispatcher(1, 1, time.Minute)
	d.Start()

	started := make(chan struct{})
	d.Enqueue("blocked", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := d.Stop(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, uint64(1), d.Stats().Failed)
}
