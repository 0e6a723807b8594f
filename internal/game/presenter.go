package game

import (
	"sync"

	"github.com/romakin/gemfall/internal/engine"
)

// presented is one effect batch queued for animation together with the
// ack channel its session call is waiting on.
type presented struct {
	batch engine.Batch
	ack   chan struct{}
}

// queuedPresenter hands batches from the session goroutine to the tick
// loop. Present never blocks; the tick loop pops batches one at a time
// and closes each ack once every effect has reached its end tick.
type queuedPresenter struct {
	mu    sync.Mutex
	queue []presented
}

// Present implements engine.Presenter.
func (q *queuedPresenter) Present(b engine.Batch) <-chan struct{} {
	ch := make(chan struct{})
	q.mu.Lock()
	q.queue = append(q.queue, presented{batch: b, ack: ch})
	q.mu.Unlock()
	return ch
}

// next pops the oldest queued batch.
func (q *queuedPresenter) next() (presented, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return presented{}, false
	}
	p := q.queue[0]
	q.queue = q.queue[1:]
	return p, true
}

// flush acks everything still queued without playing it.
func (q *queuedPresenter) flush() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range q.queue {
		close(p.ack)
	}
	q.queue = nil
}

// scoreCollector buffers per-pass score deltas from the session
// goroutine until the tick loop turns them into events. Implements
// engine.ScoreSink.
type scoreCollector struct {
	mu     sync.Mutex
	deltas []int
}

// AddScore implements engine.ScoreSink.
func (c *scoreCollector) AddScore(delta int) {
	c.mu.Lock()
	c.deltas = append(c.deltas, delta)
	c.mu.Unlock()
}

// drain takes all buffered deltas, oldest first.
func (c *scoreCollector) drain() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.deltas) == 0 {
		return nil
	}
	out := c.deltas
	c.deltas = nil
	return out
}
