package queue

import (
	"context"

	"github.com/leykun-gizaw/temar-sub000/app/dto"
)

// Queue is the bounded handoff between webhook ingress and the reconcile
// workers. Ingress never blocks: a full queue is reported to the caller
// instead of silently dropping work.
type Queue struct {
	ch chan dto.NotionEvent
}

func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 256
	}
	return &Queue{ch: make(chan dto.NotionEvent, capacity)}
}

func (q *Queue) TryEnqueue(ev dto.NotionEvent) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

func (q *Queue) Dequeue(ctx context.Context) (dto.NotionEvent, bool) {
	select {
	case <-ctx.Done():
		return dto.NotionEvent{}, false
	case ev, ok := <-q.ch:
		if !ok {
			return dto.NotionEvent{}, false
		}
		return ev, true
	}
}

func (q *Queue) Depth() int { return len(q.ch) }

func (q *Queue) Capacity() int { return cap(q.ch) }
