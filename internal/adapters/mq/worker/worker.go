// Package worker runs collection: source tasks feed a queue that a pool of
// persisters drains into the identity resolver.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/talentradar/internal/adapters/mq/queue"
	"github.com/okian/talentradar/internal/domain/identity"
	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/pkg/logger"
)

const (
	defaultPersistWorkers = 4
	defaultDrainTimeout   = 30 * time.Second
	workerShutdownTimeout = 5 * time.Second
)

// Resolver folds one candidate into the person store.
type Resolver interface {
	Resolve(ctx context.Context, c model.Candidate) (identity.Result, error)
}

// Queue defines how workers receive candidates.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Item
}

// Worker persists candidates read off a queue.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue drains.
	Run(ctx context.Context)

	// Shutdown stops the worker after the current candidate.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	resolver Resolver
	name     string
	tally    *tally

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, resolver Resolver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		resolver: resolver,
		name:     "worker",
		tally:    &tally{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.OrGlobal(nil).Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case c, ok := <-items:
			if !ok {
				return
			}
			w.process(ctx, c)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Report returns the counts recorded by this worker.
func (w *InMemoryWorker) Report() Report { return w.tally.snapshot() }

func (w *InMemoryWorker) process(ctx context.Context, c model.Candidate) { //nolint:gocritic // hugeParam: Candidate comes off a channel by value
	if err := c.Validate(); err != nil {
		w.tally.update(func(r *Report) { r.Dropped++ })
		w.logger.Warn(ctx, "dropping invalid candidate",
			logger.String(logger.KeySource, string(c.Source)),
			logger.String(logger.KeyKeyword, c.Keyword),
			logger.Error(err),
		)
		return
	}

	res, err := w.resolver.Resolve(ctx, c)
	if err != nil {
		// the resolver has already logged the identifiers involved
		w.tally.update(func(r *Report) { r.Failed++ })
		return
	}
	w.tally.resolved(res)
}

// Pool runs several persisters over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	tally   *tally
	logger  logger.Logger
}

// NewPool creates a pool of workerCount persisters sharing one report.
func NewPool(workerCount int, q Queue, resolver Resolver, opts ...Option) *Pool {
	return newPool(workerCount, q, resolver, &tally{}, opts...)
}

func newPool(workerCount int, q Queue, resolver Resolver, t *tally, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultPersistWorkers
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		tally:   t,
		logger:  logger.OrGlobal(nil).Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, resolver, append(wopts, withTally(t))...)
	}
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Report returns the counts accumulated across the pool.
func (p *Pool) Report() Report { return p.tally.snapshot() }

// Shutdown closes the queue when it supports closing and waits for the
// workers to drain it, giving up when ctx expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("pool shutdown: %w", ctx.Err())
		}
	}
	return nil
}

// Stop signals every worker to quit after its current candidate and waits
// at most workerShutdownTimeout for all of them.
func (p *Pool) Stop(ctx context.Context) {
	stopCtx, cancel := context.WithTimeout(ctx, workerShutdownTimeout)
	defer cancel()
	for _, w := range p.workers {
		w.shutdownOnce.Do(func() { close(w.shutdown) })
	}
	for _, w := range p.workers {
		if err := w.Shutdown(stopCtx); err != nil {
			return
		}
	}
}
