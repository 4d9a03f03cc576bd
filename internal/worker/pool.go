package worker

import (
	"context"
	"sync"

	"github.com/osse101/luckydraw/internal/event"
	"github.com/osse101/luckydraw/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Pool runs jobs on a fixed number of goroutines
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		quit:     make(chan struct{}),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.quit:
			// Finish what is already queued
			for {
				select {
				case job := <-p.jobQueue:
					p.run(job)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) run(job Job) {
	ctx := context.Background()
	if err := job.Process(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// Enqueue adds a job to the queue, blocking while it is full
func (p *Pool) Enqueue(job Job) {
	p.jobQueue <- job
}

// TryEnqueue adds a job without blocking. Returns false when the queue is full.
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// Stop drains queued jobs and waits for the workers to exit
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}

// handlerJob runs one event handler invocation
type handlerJob struct {
	handler event.Handler
	evt     event.Event
}

func (j handlerJob) Process(ctx context.Context) error {
	return j.handler(ctx, j.evt)
}

// Dispatch wraps handler so the bus hands events to the pool instead of
// running them on the publishing goroutine. A full queue is reported as an
// error so the publisher can retry.
func Dispatch(p *Pool, handler event.Handler) event.Handler {
	return func(ctx context.Context, evt event.Event) error {
		if !p.TryEnqueue(handlerJob{handler: handler, evt: evt}) {
			return ErrQueueFull
		}
		return nil
	}
}
