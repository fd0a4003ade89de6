package worker

import (
	"time"

	"github.com/okian/talentradar/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

func withTally(t *tally) Option {
	return func(w *InMemoryWorker) { w.tally = t }
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithCollectWorkers bounds how many source tasks run at once.
func WithCollectWorkers(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.collectWorkers = n
		}
	}
}

// WithParallelThreshold sets the task count from which tasks run concurrently.
func WithParallelThreshold(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.parallelThreshold = n
		}
	}
}

// WithPersistWorkers sets how many persisters drain the queue.
func WithPersistWorkers(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.persistWorkers = n
		}
	}
}

// WithQueueSize sets the capacity of the per-run candidate queue.
func WithQueueSize(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithDrainTimeout bounds how long Run waits for queued candidates to be
// persisted once every task has returned.
func WithDrainTimeout(d time.Duration) CollectorOption {
	return func(c *Collector) {
		if d > 0 {
			c.drainTimeout = d
		}
	}
}

// WithProgress registers a callback invoked with a snapshot after every
// task and every persisted candidate. It must be safe for concurrent use.
func WithProgress(fn func(Report)) CollectorOption {
	return func(c *Collector) { c.progress = fn }
}

// WithCollectorLogger sets the logger for the collector and its persisters.
func WithCollectorLogger(l logger.Logger) CollectorOption {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}
