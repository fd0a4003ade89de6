// Package queue hands extracted candidates from collectors to persisters.
//
// The in-memory implementation is a bounded channel; a full queue either
// rejects (Enqueue) or applies backpressure (Put).
package queue

import (
	"context"
	"sync"

	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Item is the payload flowing through the queue.
type Item = model.Candidate

// Queue provides enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an item without blocking.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, it Item) bool

	// Put adds an item, blocking while the queue is full.
	Put(ctx context.Context, it Item) error

	// Dequeue returns a channel that receives items as they become available.
	// The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Item

	// Len returns the current number of queued items.
	Len() int

	// Close stops accepting items. Buffered items remain readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Item
	capacity int

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	once   sync.Once
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity, done: make(chan struct{})}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Item, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds an item to the queue if there is room.
func (q *InMemoryQueue) Enqueue(ctx context.Context, it Item) bool { //nolint:gocritic // hugeParam: Item is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.items <- it:
		metrics.UpdateQueueSize(len(q.items))
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// Put adds an item, waiting for room until ctx is done or the queue closes.
func (q *InMemoryQueue) Put(ctx context.Context, it Item) error { //nolint:gocritic // hugeParam: Item is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.items <- it:
		metrics.UpdateQueueSize(len(q.items))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrClosed
	}
}

// Dequeue returns a channel that will receive items as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Item {
	out := make(chan Item)
	go func() {
		defer close(out)
		for it := range q.items {
			metrics.UpdateQueueSize(len(q.items))
			select {
			case out <- it:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued items.
func (q *InMemoryQueue) Len() int {
	return len(q.items)
}

// Close stops accepting new items and lets consumers drain what is buffered.
func (q *InMemoryQueue) Close() error {
	// release blocked Put calls before taking the write lock
	q.mu.RLock()
	already := q.closed
	q.mu.RUnlock()
	if already {
		return nil
	}
	q.signalDone()

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) signalDone() {
	q.once.Do(func() { close(q.done) })
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
