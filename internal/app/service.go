// Package service wires the collection pipeline, identity resolution and
// requirement matching into the operations exposed by the HTTP API and CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/talentradar/internal/adapters/mq/worker"
	"github.com/okian/talentradar/internal/adapters/repository"
	"github.com/okian/talentradar/internal/domain/identity"
	"github.com/okian/talentradar/internal/domain/jobs"
	"github.com/okian/talentradar/internal/domain/matching"
	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/internal/domain/textnorm"
	"github.com/okian/talentradar/pkg/logger"
	"github.com/okian/talentradar/pkg/metrics"
)

// Service implements the API dependencies for the aggregator.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	sources    []worker.Source
	normalizer matching.Normalizer
	resolver   *identity.Resolver
	matcher    *matching.Matcher
	jobs       *jobs.Registry

	// Configuration
	collectWorkers    int
	parallelThreshold int
	persistWorkers    int
	queueSize         int
	defaultMaxResults int
	matchLimit        int
	jobHistory        int
	now               func() time.Time

	// State
	started bool
	runCtx  context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		collectWorkers:    4,
		parallelThreshold: 4,
		persistWorkers:    4,
		queueSize:         256,
		defaultMaxResults: 10,
		matchLimit:        50,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.jobs = jobs.NewRegistry(s.jobHistory)
	return s
}

// Start initializes the service components. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger = logger.OrGlobal(s.logger)
	s.logger.Info(ctx, "starting talent radar service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithLogger(s.logger))
		s.logger.Info(ctx, "using in-memory store")
	}
	resolver, err := identity.NewResolver(s.store,
		identity.WithLogger(s.logger),
		identity.WithClock(s.now),
	)
	if err != nil {
		return fmt.Errorf("build resolver: %w", err)
	}
	s.resolver = resolver

	if s.normalizer == nil {
		s.normalizer = textnorm.New(textnorm.WithLogger(s.logger))
	}
	s.matcher = matching.New(s.normalizer, matching.WithLogger(s.logger))

	// async jobs outlive the request that started them
	s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.started = true

	if n, err := s.store.Count(ctx); err == nil {
		metrics.UpdatePersonsTotal(n)
	}
	s.logger.Info(ctx, "talent radar service started",
		logger.Int("sources", len(s.sources)),
		logger.Int("collectWorkers", s.collectWorkers),
		logger.Int("persistWorkers", s.persistWorkers),
	)
	return nil
}

// Stop cancels running jobs, waits for them and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping talent radar service...")
	s.cancel()
	s.running.Wait()
	s.store.Close()
	s.logger.Info(ctx, "talent radar service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Service) configured(src model.Source) bool {
	for _, c := range s.sources {
		if c.Source() == src {
			return true
		}
	}
	return false
}

func (s *Service) collector(jobID string) *worker.Collector {
	return worker.NewCollector(s.resolver, s.sources,
		worker.WithCollectWorkers(s.collectWorkers),
		worker.WithParallelThreshold(s.parallelThreshold),
		worker.WithPersistWorkers(s.persistWorkers),
		worker.WithQueueSize(s.queueSize),
		worker.WithCollectorLogger(s.logger),
		worker.WithProgress(func(r worker.Report) { s.jobs.Progress(jobID, counts(r)) }),
	)
}

func counts(r worker.Report) jobs.Counts {
	return jobs.Counts{Collected: r.Collected, Persisted: r.Persisted, Failed: r.Failed + r.Dropped}
}

func (s *Service) beginCollect(req CollectRequest) (jobs.Job, []worker.Task, error) {
	if err := s.ready(); err != nil {
		return jobs.Job{}, nil, err
	}
	tasks := req.tasks(s.configured, s.defaultMaxResults)
	if len(tasks) == 0 {
		return jobs.Job{}, nil, ErrNothingToCollect
	}
	job, err := s.jobs.TryStart(jobs.KindCollect)
	if err != nil {
		return job, nil, err
	}
	return job, tasks, nil
}

// Collect runs a collection synchronously and returns the finished job.
func (s *Service) Collect(ctx context.Context, req CollectRequest) (jobs.Job, worker.Report, error) {
	job, tasks, err := s.beginCollect(req)
	if err != nil {
		return job, worker.Report{}, err
	}
	return s.runCollect(ctx, job, tasks)
}

// StartCollect starts a collection in the background and returns its job.
func (s *Service) StartCollect(ctx context.Context, req CollectRequest) (jobs.Job, error) {
	job, tasks, err := s.beginCollect(req)
	if err != nil {
		return job, err
	}
	s.running.Add(1)
	go func() {
		defer s.running.Done()
		_, _, _ = s.runCollect(s.runCtx, job, tasks)
	}()
	s.logger.Info(ctx, "collection started", logger.String(logger.KeyJobID, job.ID), logger.Int("tasks", len(tasks)))
	return job, nil
}

func (s *Service) runCollect(ctx context.Context, job jobs.Job, tasks []worker.Task) (jobs.Job, worker.Report, error) {
	report, runErr := s.collector(job.ID).Run(ctx, tasks)
	finished, err := s.jobs.Finish(job.ID, counts(report), runErr)
	if err != nil {
		return finished, report, err
	}
	if n, err := s.store.Count(ctx); err == nil {
		metrics.UpdatePersonsTotal(n)
	}
	s.logger.Info(ctx, "collection job finished",
		logger.String(logger.KeyJobID, job.ID),
		logger.String("status", string(finished.Status)),
		logger.Int("created", report.Created),
		logger.Int("merged", report.Merged),
		logger.Int("taskErrors", len(report.TaskErrors)),
	)
	return finished, report, runErr
}

// Match scores every stored person against requirement, persists the
// scores and returns the top limit persons. Only failing to read or write
// the store is an error; degenerate input yields an empty outcome.
func (s *Service) Match(ctx context.Context, requirement string, limit int) (MatchOutcome, error) {
	if err := s.ready(); err != nil {
		return MatchOutcome{}, err
	}
	if limit <= 0 || limit > s.matchLimit {
		limit = s.matchLimit
	}
	job, err := s.jobs.TryStart(jobs.KindMatch)
	if err != nil {
		return MatchOutcome{}, err
	}

	start := time.Now()
	out, err := s.match(ctx, requirement, limit)
	out.JobID = job.ID
	_, _ = s.jobs.Finish(job.ID, jobs.Counts{Collected: len(out.Results), Persisted: out.Scored}, err)
	metrics.RecordMatchDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordMatchRun(string(jobs.StatusFailed))
		return out, err
	}
	metrics.RecordMatchRun(string(jobs.StatusDone))
	metrics.RecordMatchScored(out.Scored)
	return out, nil
}

func (s *Service) match(ctx context.Context, requirement string, limit int) (MatchOutcome, error) {
	persons, err := s.store.ListAll(ctx)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("%w: list persons: %w", ErrStoreUnavailable, err)
	}

	results := s.matcher.Match(ctx, requirement, persons)
	if len(results) == 0 {
		return MatchOutcome{Results: []Ranked{}}, nil
	}
	scores := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.PersonID] = r.Score
	}
	n, err := s.store.UpdateMatchScores(ctx, scores)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("%w: update match scores: %w", ErrStoreUnavailable, err)
	}

	byID := make(map[string]*model.Person, len(persons))
	for i := range persons {
		byID[persons[i].ID] = &persons[i]
	}
	ranked := make([]Ranked, 0, min(limit, len(results)))
	for _, r := range results {
		if len(ranked) == limit {
			break
		}
		p, ok := byID[r.PersonID]
		if !ok {
			continue
		}
		score := r.Score
		p.MatchScore = &score
		ranked = append(ranked, Ranked{Person: *p, Score: score})
	}
	s.logger.Info(ctx, "match finished", logger.Int("persons", len(persons)), logger.Int("scored", n))
	return MatchOutcome{Scored: n, Results: ranked}, nil
}

// ListPersons pages through persons in creation order.
func (s *Service) ListPersons(ctx context.Context, skip, limit int) ([]model.Person, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.List(ctx, skip, limit)
}

// GetPerson returns one person by id.
func (s *Service) GetPerson(ctx context.Context, id string) (model.Person, error) {
	if err := s.ready(); err != nil {
		return model.Person{}, err
	}
	return s.store.FindByID(ctx, id)
}

// SearchPersons returns persons whose name, affiliation or summary contain
// keyword, narrowed by f. An empty keyword matches everyone.
func (s *Service) SearchPersons(ctx context.Context, keyword string, f SearchFilter) ([]model.Person, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var (
		found []model.Person
		err   error
	)
	if keyword == "" {
		found, err = s.store.ListAll(ctx)
	} else {
		found, err = s.store.Search(ctx, keyword)
	}
	if err != nil {
		return nil, err
	}
	out := found[:0]
	for i := range found {
		if f.keep(&found[i]) {
			out = append(out, found[i])
		}
	}
	return out, nil
}

// Reset deletes every person. It refuses without confirmation and while a
// collection is writing.
func (s *Service) Reset(ctx context.Context, confirm bool) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if !confirm {
		return 0, ErrResetNotConfirmed
	}
	if j, ok := s.jobs.Running(jobs.KindCollect); ok {
		return 0, fmt.Errorf("%w: collection %s in progress", jobs.ErrAlreadyRunning, j.ID)
	}
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	metrics.UpdatePersonsTotal(0)
	s.logger.Warn(ctx, "all persons deleted", logger.Int("count", n))
	return n, nil
}

// Job returns one job snapshot.
func (s *Service) Job(id string) (jobs.Job, error) {
	return s.jobs.Get(id)
}

// Jobs returns known jobs, newest first.
func (s *Service) Jobs() []jobs.Job {
	return s.jobs.List()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	st := Stats{
		Started:        started,
		Sources:        make([]string, 0, len(s.sources)),
		CollectStatus:  string(s.jobs.Status(jobs.KindCollect)),
		MatchStatus:    string(s.jobs.Status(jobs.KindMatch)),
		CollectWorkers: s.collectWorkers,
		PersistWorkers: s.persistWorkers,
	}
	for _, src := range s.sources {
		st.Sources = append(st.Sources, string(src.Source()))
	}
	if started {
		n, err := s.store.Count(ctx)
		if err == nil {
			st.Persons = n
			metrics.UpdatePersonsTotal(n)
		} else if !errors.Is(err, context.Canceled) {
			s.logger.Warn(ctx, "count persons failed", logger.Error(err))
		}
	}
	return st
}
