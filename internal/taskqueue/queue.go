package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCapacity       = 200
	defaultEnqueueTimeout = 5 * time.Second
)

var (
	// ErrBusy is returned when the queue stays full for the whole enqueue timeout
	ErrBusy = errors.New("system busy, please retry later")
	// ErrTimeout is returned when a queued task does not complete in time
	ErrTimeout = errors.New("timed out waiting for task result")
	// ErrClosed is returned when submitting to (or waiting on) a closed queue
	ErrClosed = errors.New("task queue closed")
)

// Work is a unit of work executed by the queue worker
type Work func() (any, error)

// Config holds queue tuning parameters
type Config struct {
	Name              string
	Capacity          int
	EnqueueTimeout    time.Duration
	CompletionTimeout time.Duration // 0 waits until the task completes
}

// task is owned by the worker until done is closed
type task struct {
	id     string
	work   Work
	done   chan struct{}
	result any
	err    error
}

// Queue executes submitted work strictly one at a time, in FIFO order, on a
// single background goroutine. Callers block until their own work finished.
type Queue struct {
	cfg       Config
	tasks     chan *task
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

// New creates a queue and starts its worker
func New(cfg Config, logger *zap.Logger) *Queue {
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaultCapacity
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = defaultEnqueueTimeout
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}

	q := &Queue{
		cfg:     cfg,
		tasks:   make(chan *task, cfg.Capacity),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  logger.With(zap.String("queue", cfg.Name)),
	}

	go q.run()

	q.logger.Info("Task queue started",
		zap.Int("capacity", cfg.Capacity),
		zap.Duration("enqueue_timeout", cfg.EnqueueTimeout),
		zap.Duration("completion_timeout", cfg.CompletionTimeout))

	return q
}

// Submit enqueues work and blocks until it has been executed, returning its
// result or error. Cancelling ctx stops the wait but not the work itself.
func (q *Queue) Submit(ctx context.Context, work Work) (any, error) {
	t := &task{
		id:   uuid.New().String(),
		work: work,
		done: make(chan struct{}),
	}

	select {
	case <-q.quit:
		return nil, ErrClosed
	default:
	}

	enqueueTimer := time.NewTimer(q.cfg.EnqueueTimeout)
	defer enqueueTimer.Stop()

	select {
	case q.tasks <- t:
	case <-enqueueTimer.C:
		q.logger.Warn("Queue is full, rejecting task",
			zap.String("task_id", t.id),
			zap.Int("pending", len(q.tasks)))
		return nil, ErrBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.quit:
		return nil, ErrClosed
	}

	q.logger.Debug("Task enqueued",
		zap.String("task_id", t.id),
		zap.Int("pending", len(q.tasks)))

	var timeout <-chan time.Time
	if q.cfg.CompletionTimeout > 0 {
		completionTimer := time.NewTimer(q.cfg.CompletionTimeout)
		defer completionTimer.Stop()
		timeout = completionTimer.C
	}

	select {
	case <-t.done:
		return t.result, t.err
	case <-timeout:
		q.logger.Warn("Task did not complete in time",
			zap.String("task_id", t.id),
			zap.Duration("completion_timeout", q.cfg.CompletionTimeout))
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.stopped:
		// The worker may have finished this task right before stopping
		select {
		case <-t.done:
			return t.result, t.err
		default:
			return nil, ErrClosed
		}
	}
}

// Do submits typed work and returns its typed result
func Do[T any](ctx context.Context, q *Queue, work func() (T, error)) (T, error) {
	v, err := q.Submit(ctx, func() (any, error) {
		return work()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if v == nil {
		var zero T
		return zero, nil
	}

	result, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected task result type %T", v)
	}
	return result, nil
}

// Len returns the number of tasks waiting for the worker
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Close stops the worker. Tasks still pending fail with ErrClosed.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.quit)
	})
	<-q.stopped
}

func (q *Queue) run() {
	defer close(q.stopped)

	for {
		select {
		case t := <-q.tasks:
			q.execute(t)
		case <-q.quit:
			q.drain()
			q.logger.Info("Task queue stopped")
			return
		}
	}
}

// execute runs a single task; a failing or panicking task never stops the worker
func (q *Queue) execute(t *task) {
	start := time.Now()

	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			t.result = nil
			t.err = fmt.Errorf("task panicked: %v", r)
			q.logger.Error("Task panicked",
				zap.String("task_id", t.id),
				zap.Any("panic", r))
		}
	}()

	t.result, t.err = t.work()

	if t.err != nil {
		q.logger.Debug("Task failed",
			zap.String("task_id", t.id),
			zap.Duration("took", time.Since(start)),
			zap.Error(t.err))
		return
	}

	q.logger.Debug("Task completed",
		zap.String("task_id", t.id),
		zap.Duration("took", time.Since(start)))
}

func (q *Queue) drain() {
	for {
		select {
		case t := <-q.tasks:
			t.err = ErrClosed
			close(t.done)
		default:
			return
		}
	}
}
