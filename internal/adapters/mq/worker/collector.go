package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/talentradar/internal/adapters/mq/queue"
	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/pkg/logger"
	"github.com/okian/talentradar/pkg/metrics"
)

const (
	defaultCollectWorkers    = 4
	defaultParallelThreshold = 4
	defaultQueueSize         = 256
)

// ErrSourceNotConfigured marks a task naming a source with no client.
var ErrSourceNotConfigured = errors.New("source not configured")

// Source is one upstream that can be searched by keyword.
type Source interface {
	Source() model.Source
	Collect(ctx context.Context, keyword string, limit int) ([]model.Candidate, error)
}

// Task is one (source, keyword) search.
type Task struct {
	Source  model.Source `json:"source"`
	Keyword string       `json:"keyword"`
	Limit   int          `json:"limit"`
}

// Collector fans tasks out to sources and persists what they return.
type Collector struct {
	sources  map[model.Source]Source
	resolver Resolver

	collectWorkers    int
	parallelThreshold int
	persistWorkers    int
	queueSize         int
	drainTimeout      time.Duration
	progress          func(Report)
	logger            logger.Logger
}

// NewCollector builds a collector over the given source clients.
func NewCollector(resolver Resolver, sources []Source, opts ...CollectorOption) *Collector {
	c := &Collector{
		sources:           make(map[model.Source]Source, len(sources)),
		resolver:          resolver,
		collectWorkers:    defaultCollectWorkers,
		parallelThreshold: defaultParallelThreshold,
		persistWorkers:    defaultPersistWorkers,
		queueSize:         defaultQueueSize,
		drainTimeout:      defaultDrainTimeout,
		logger:            logger.OrGlobal(nil).Named("collector"),
	}
	for _, s := range sources {
		c.sources[s.Source()] = s
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether a client exists for src.
func (c *Collector) Configured(src model.Source) bool {
	_, ok := c.sources[src]
	return ok
}

// Run executes tasks and blocks until every collected candidate has been
// resolved. A failing task is recorded in the report and never aborts the
// others; only cancellation of ctx is returned as an error.
func (c *Collector) Run(ctx context.Context, tasks []Task) (Report, error) {
	start := time.Now()
	t := &tally{progress: c.progress}
	t.update(func(r *Report) { r.Tasks = len(tasks) })

	q := queue.NewInMemoryQueue(queue.WithCapacity(c.queueSize))
	pool := newPool(c.persistWorkers, q, c.resolver, t, WithLogger(c.logger))
	pool.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	if len(tasks) >= c.parallelThreshold {
		g.SetLimit(c.collectWorkers)
	} else {
		g.SetLimit(1)
	}
	for _, task := range tasks {
		g.Go(func() error { return c.runTask(gctx, q, t, task) })
	}
	err := g.Wait()
	if derr := c.drain(ctx, pool); derr != nil && err == nil {
		err = derr
	}

	report := t.snapshot()
	metrics.RecordCollectDuration(float64(time.Since(start).Milliseconds()))
	c.logger.Info(ctx, "collection finished",
		logger.Int("tasks", report.Tasks),
		logger.Int("collected", report.Collected),
		logger.Int("persisted", report.Persisted),
		logger.Int("failed", report.Failed+report.Dropped),
	)
	if err != nil {
		return report, err
	}
	return report, ctx.Err()
}

// drain closes the queue and waits for the persisters to empty it. Past the
// drain timeout the remaining workers are stopped and the backlog is lost.
func (c *Collector) drain(ctx context.Context, pool *Pool) error {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.drainTimeout)
	defer cancel()
	if err := pool.Shutdown(drainCtx); err != nil {
		pool.Stop(context.WithoutCancel(ctx))
		c.logger.Error(ctx, "persisters did not drain in time",
			logger.String("timeout", c.drainTimeout.String()), logger.Error(err))
		return fmt.Errorf("drain candidates: %w", err)
	}
	return nil
}

func (c *Collector) runTask(ctx context.Context, q queue.Queue, t *tally, task Task) error {
	src, ok := c.sources[task.Source]
	if !ok {
		c.taskFailed(ctx, t, task, ErrSourceNotConfigured)
		return nil
	}

	cands, err := src.Collect(ctx, task.Keyword, task.Limit)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.taskFailed(ctx, t, task, err)
	}
	for i := range cands {
		cand := cands[i]
		if cand.Keyword == "" {
			cand.Keyword = task.Keyword
		}
		if !q.Enqueue(ctx, cand) {
			c.logger.Debug(ctx, "queue full, waiting for persisters",
				logger.String(logger.KeySource, string(task.Source)), logger.Int("queued", q.Len()))
			if err := q.Put(ctx, cand); err != nil {
				return fmt.Errorf("enqueue candidate: %w", err)
			}
		}
		metrics.RecordCandidateCollected(string(task.Source))
		t.update(func(r *Report) { r.Collected++ })
	}
	return nil
}

func (c *Collector) taskFailed(ctx context.Context, t *tally, task Task, err error) {
	c.logger.Warn(ctx, "collection task failed",
		logger.String(logger.KeySource, string(task.Source)),
		logger.String(logger.KeyKeyword, task.Keyword),
		logger.Error(err),
	)
	t.update(func(r *Report) {
		r.TaskErrors = append(r.TaskErrors, TaskError{Source: task.Source, Keyword: task.Keyword, Error: err.Error()})
	})
}
