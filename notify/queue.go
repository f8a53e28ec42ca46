package notify

import "context"

// Queue is a bounded in-process event queue.
type Queue struct {
	ch chan Event
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{ch: make(chan Event, size)}
}

// Publish never blocks; a full buffer is reported as ErrQueueFull.
func (q *Queue) Publish(_ context.Context, ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) Next(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case ev := <-q.ch:
		return ev, nil
	}
}

func (q *Queue) Len() int {
	return len(q.ch)
}
