package service

import (
	"time"

	"github.com/okian/talentradar/internal/adapters/mq/worker"
	"github.com/okian/talentradar/internal/adapters/repository"
	"github.com/okian/talentradar/internal/domain/matching"
	"github.com/okian/talentradar/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the person store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSources registers the source clients collection may use.
func WithSources(sources ...worker.Source) Option {
	return func(s *Service) {
		s.sources = append(s.sources, sources...)
	}
}

// WithNormalizer sets the text normalizer used by the matcher.
func WithNormalizer(n matching.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithCollectWorkers bounds concurrent source tasks.
func WithCollectWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.collectWorkers = n
		}
	}
}

// WithParallelThreshold sets the task count from which tasks run concurrently.
func WithParallelThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelThreshold = n
		}
	}
}

// WithPersistWorkers sets the number of persisters per collection run.
func WithPersistWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.persistWorkers = n
		}
	}
}

// WithQueueSize sets the capacity of the per-run candidate queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithDefaultMaxResults sets the per-source result count when a request omits one.
func WithDefaultMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultMaxResults = n
		}
	}
}

// WithMatchLimit caps how many ranked persons Match returns.
func WithMatchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.matchLimit = n
		}
	}
}

// WithJobHistory bounds how many finished jobs are remembered.
func WithJobHistory(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.jobHistory = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for merges.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
