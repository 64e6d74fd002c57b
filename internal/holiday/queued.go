package holiday

import (
	"context"

	"github.com/username/holiday-windows/internal/taskqueue"
)

// QueuedCalculator funnels every computation through a single-worker queue so
// cache access and outbound calendar requests never overlap
type QueuedCalculator struct {
	inner WindowCalculator
	queue *taskqueue.Queue
}

// NewQueuedCalculator wraps inner with queue
func NewQueuedCalculator(inner WindowCalculator, queue *taskqueue.Queue) *QueuedCalculator {
	return &QueuedCalculator{
		inner: inner,
		queue: queue,
	}
}

// Calculate validates the offset, then runs the computation on the queue worker.
// A caller giving up early does not cancel the queued computation.
func (qc *QueuedCalculator) Calculate(ctx context.Context, monthsFromNow int) (*Result, error) {
	if err := validateMonthsFromNow(monthsFromNow); err != nil {
		return nil, err
	}

	taskCtx := context.WithoutCancel(ctx)
	return taskqueue.Do(ctx, qc.queue, func() (*Result, error) {
		return qc.inner.Calculate(taskCtx, monthsFromNow)
	})
}
