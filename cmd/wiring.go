package main

import (
	"context"
	"fmt"

	service "github.com/okian/talentradar/internal/app"
	"github.com/okian/talentradar/internal/adapters/mq/worker"
	"github.com/okian/talentradar/internal/adapters/repository"
	"github.com/okian/talentradar/internal/adapters/sources/github"
	"github.com/okian/talentradar/internal/adapters/sources/httpclient"
	"github.com/okian/talentradar/internal/adapters/sources/kaken"
	"github.com/okian/talentradar/internal/adapters/sources/openalex"
	"github.com/okian/talentradar/internal/adapters/sources/qiita"
	"github.com/okian/talentradar/internal/config"
	"github.com/okian/talentradar/internal/domain/textnorm"
	"github.com/okian/talentradar/pkg/logger"
)

func newStore(ctx context.Context, c *config.Config, log logger.Logger) (repository.Store, error) {
	switch c.Storage {
	case config.StoragePostgres:
		pg, err := repository.NewPostgresStore(ctx, c.DatabaseURL, repository.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		log.Info(ctx, "using postgres store")
		return pg, nil
	default:
		return repository.NewMemoryStore(repository.WithLogger(log)), nil
	}
}

// newSources builds every source client. All four APIs work anonymously,
// so each is always configured.
func newSources(c *config.Config, log logger.Logger) []worker.Source {
	timeout := httpclient.WithTimeout(c.RequestTimeout())
	return []worker.Source{
		github.New(c.GitHubBaseURL, c.GitHubToken, log, timeout),
		qiita.New(c.QiitaBaseURL, c.QiitaToken, log, timeout),
		openalex.New(c.OpenAlexBaseURL, c.OpenAlexEmail, log, timeout, httpclient.WithDelay(c.OpenAlexDelay())),
		kaken.New(c.KakenBaseURL, log, timeout, httpclient.WithDelay(c.KakenDelay())),
	}
}

// newService wires and starts a service from c.
func newService(ctx context.Context, c *config.Config) (*service.Service, error) {
	log := logger.Get()
	store, err := newStore(ctx, c, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	svc := service.New(
		service.WithLogger(log),
		service.WithStore(store),
		service.WithSources(newSources(c, log)...),
		service.WithNormalizer(textnorm.New(textnorm.WithLogger(log), textnorm.WithCJKThreshold(c.CJKThreshold))),
		service.WithCollectWorkers(c.CollectWorkers),
		service.WithParallelThreshold(c.ParallelThreshold),
		service.WithPersistWorkers(c.PersistWorkers),
		service.WithQueueSize(c.QueueSize),
		service.WithDefaultMaxResults(c.DefaultMaxResults),
		service.WithMatchLimit(c.MatchLimit),
		service.WithJobHistory(c.JobHistory),
	)
	if err := svc.Start(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}
