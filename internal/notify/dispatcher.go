// AngelaMos | 2026
// dispatcher.go

package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carterperez-dev/messhall/internal/config"
)

var (
	ErrDispatcherClosed = errors.New("dispatcher closed")
	ErrQueueFull        = errors.New("notification queue full")
)

// Task is a unit of background work. It receives a context that is bounded
// by the dispatcher's per-task timeout and is independent of any request.
type Task func(ctx context.Context) error

type job struct {
	name string
	run  Task
}

// Dispatcher runs tasks on a fixed pool of workers fed by a bounded queue.
type Dispatcher struct {
	queue   chan job
	workers int
	timeout time.Duration
	logger  *slog.Logger

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	start  sync.Once

	queued    atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

type Stats struct {
	Workers       int    `json:"workers"`
	QueueDepth    int    `json:"queue_depth"`
	QueueCapacity int    `json:"queue_capacity"`
	Queued        uint64 `json:"queued"`
	Completed     uint64 `json:"completed"`
	Failed        uint64 `json:"failed"`
	Dropped       uint64 `json:"dropped"`
}

func NewDispatcher(cfg config.NotifyConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	size := cfg.QueueSize
	if size < 1 {
		size = 1
	}
	timeout := cfg.TaskTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		queue:      make(chan job, size),
		workers:    workers,
		timeout:    timeout,
		logger:     logger.With("component", "notify"),
		baseCtx:    ctx,
		cancelBase: cancel,
	}
}

func (d *Dispatcher) Start() {
	d.start.Do(func() {
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.work()
		}
	})
}

// Enqueue schedules a task without blocking. It reports false when the task
// was dropped because the queue is full or the dispatcher is stopped.
func (d *Dispatcher) Enqueue(name string, task Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		d.logger.Warn("task dropped", "task", name, "error", ErrDispatcherClosed)
		return false
	}

	select {
	case d.queue <- job{name: name, run: task}:
		d.queued.Add(1)
		return true
	default:
		d.dropped.Add(1)
		d.logger.Warn("task dropped",
			"task", name,
			"error", ErrQueueFull,
			"capacity", cap(d.queue),
		)
		return false
	}
}

// Stop refuses new tasks and waits for queued ones to finish. When ctx ends
// first, running tasks are cancelled and ctx's error is returned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancelBase()
		return nil
	case <-ctx.Done():
		d.cancelBase()
		<-done
		return fmt.Errorf("drain notification queue: %w", ctx.Err())
	}
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Workers:       d.workers,
		QueueDepth:    len(d.queue),
		QueueCapacity: cap(d.queue),
		Queued:        d.queued.Load(),
		Completed:     d.completed.Load(),
		Failed:        d.failed.Load(),
		Dropped:       d.dropped.Load(),
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for j := range d.queue {
		d.run(j)
	}
}

func (d *Dispatcher) run(j job) {
	ctx, cancel := context.WithTimeout(d.baseCtx, d.timeout)
	defer cancel()

	start := time.Now()
	err := safeRun(ctx, j.run)
	if err != nil {
		d.failed.Add(1)
		d.logger.Error("task failed",
			"task", j.name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return
	}

	d.completed.Add(1)
	d.logger.Debug("task completed",
		"task", j.name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(ctx)
}
