package queue

import (
	"context"
	"sync"
	"time"

	"github.com/leykun-gizaw/temar-sub000/app/dto"
)

// Handler processes one dequeued event. The context carries the per-run
// timeout.
type Handler func(ctx context.Context, ev dto.NotionEvent)

// WorkerPool drains the queue with a fixed number of goroutines. Each run
// gets its own bounded timeout so one stuck Notion call cannot wedge a
// worker forever.
type WorkerPool struct {
	queue      *Queue
	handler    Handler
	workers    int
	runTimeout time.Duration
	wg         sync.WaitGroup
	cancel     context.CancelFunc
}

func NewWorkerPool(q *Queue, workers int, runTimeout time.Duration, handler Handler) *WorkerPool {
	if workers <= 0 {
		workers = 4
	}
	if runTimeout <= 0 {
		runTimeout = 60 * time.Second
	}
	return &WorkerPool{queue: q, handler: handler, workers: workers, runTimeout: runTimeout}
}

func (p *WorkerPool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

func (p *WorkerPool) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		ev, ok := p.queue.Dequeue(ctx)
		if !ok {
			return
		}
		runCtx, cancel := context.WithTimeout(ctx, p.runTimeout)
		p.handler(runCtx, ev)
		cancel()
	}
}

// Stop cancels the workers and waits for in-flight runs to finish.
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}
