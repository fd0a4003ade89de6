package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/pkg/logger"
	"github.com/okian/talentradar/pkg/metrics"
)

// Repository is what the resolver needs from persistence.
// Create assigns the id; a unique-identifier clash returns an error
// wrapping model.ErrDuplicateIdentity. Update replaces the stored row with
// the given person as one write.
type Repository interface {
	Finder
	FindByID(ctx context.Context, id string) (model.Person, error)
	Create(ctx context.Context, p model.Person) (model.Person, error)
	Update(ctx context.Context, p model.Person) (model.Person, error)
}

// Outcome of a resolution.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeMerged  Outcome = "merged"
)

// Result identifies the person now representing the observation.
type Result struct {
	PersonID string
	Outcome  Outcome
	Strategy string
}

// Resolver runs lookup, merge and write for one candidate at a time per
// identity. It is safe for concurrent use.
type Resolver struct {
	repo       Repository
	strategies []Strategy
	locks      *keyLocks
	log        logger.Logger
	now        func() time.Time
}

// NewResolver builds a resolver over repo.
func NewResolver(repo Repository, opts ...Option) (*Resolver, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}
	r := &Resolver{
		repo:       repo,
		strategies: DefaultStrategies(),
		locks:      newKeyLocks(),
		log:        logger.Nop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.Named("resolver")
	return r, nil
}

// Resolve stores c as a new person or merges it into the matching one.
func (r *Resolver) Resolve(ctx context.Context, c model.Candidate) (Result, error) {
	if err := c.Validate(); err != nil {
		metrics.RecordResolution("dropped")
		return Result{}, err
	}
	if !c.HasProvenance() {
		r.log.Debug(ctx, "candidate without provenance, tagging with its source",
			logger.String(logger.KeySource, string(c.Source)))
	}

	ids := c.Identifiers()
	release := r.locks.acquire(lockKeys(ids))
	defer release()

	m, err := Lookup(ctx, r.repo, ids, r.strategies)
	if err != nil {
		r.fail(ctx, c, m.Strategy, err)
		return Result{}, err
	}

	if m.Found {
		res, err := r.merge(ctx, m.Person.ID, c, m.Strategy)
		if err != nil {
			r.fail(ctx, c, m.Strategy, err)
			return Result{}, err
		}
		return res, nil
	}

	created, err := r.repo.Create(ctx, c.NewPerson(r.now()))
	if err == nil {
		metrics.RecordResolution(string(OutcomeCreated))
		r.log.Debug(ctx, "person created",
			logger.String(logger.KeyPersonID, created.ID),
			logger.String(logger.KeySource, string(c.Source)),
			logger.String(logger.KeyStrategy, m.Strategy))
		return Result{PersonID: created.ID, Outcome: OutcomeCreated, Strategy: m.Strategy}, nil
	}
	if !errors.Is(err, model.ErrDuplicateIdentity) {
		err = fmt.Errorf("create person: %w", err)
		r.fail(ctx, c, m.Strategy, err)
		return Result{}, err
	}

	// Another writer took one of the identifiers; fold into that row.
	metrics.RecordDuplicateRetry()
	existing, strategy, ferr := findConflict(ctx, r.repo, ids)
	if ferr != nil {
		err = fmt.Errorf("resolve duplicate: %w", errors.Join(err, ferr))
		r.fail(ctx, c, strategy, err)
		return Result{}, err
	}
	res, err := r.merge(ctx, existing.ID, c, strategy)
	if err != nil {
		r.fail(ctx, c, strategy, err)
		return Result{}, err
	}
	return res, nil
}

// merge folds c into the person with the given id. Candidates carrying
// disjoint identifiers can reach the same person, so the person itself is
// locked and re-read before merging.
func (r *Resolver) merge(ctx context.Context, id string, c model.Candidate, strategy string) (Result, error) {
	release := r.locks.acquire([]string{personKey(id)})
	defer release()

	existing, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("reload person %s: %w", id, err)
	}
	merged := Merge(existing, c, r.now())
	updated, err := r.repo.Update(ctx, merged)
	if err != nil {
		return Result{}, fmt.Errorf("update person %s: %w", id, err)
	}
	metrics.RecordResolution(string(OutcomeMerged))
	r.log.Debug(ctx, "person merged",
		logger.String(logger.KeyPersonID, updated.ID),
		logger.String(logger.KeySource, string(c.Source)),
		logger.String(logger.KeyStrategy, strategy))
	return Result{PersonID: updated.ID, Outcome: OutcomeMerged, Strategy: strategy}, nil
}

func (r *Resolver) fail(ctx context.Context, c model.Candidate, strategy string, err error) {
	metrics.RecordResolution("failed")
	r.log.Error(ctx, "resolve candidate failed",
		logger.String(logger.KeySource, string(c.Source)),
		logger.String(logger.KeyKeyword, c.Keyword),
		logger.String(logger.KeyStrategy, strategy),
		logger.String("email", c.Email),
		logger.String("orcid_id", c.OrcidID),
		logger.String("github_username", c.GitHubUsername),
		logger.String("full_name", c.FullName),
		logger.Error(err))
}
