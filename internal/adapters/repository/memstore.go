package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/talentradar/internal/domain/identity"
	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/pkg/logger"
	"github.com/okian/talentradar/pkg/metrics"
)

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, newID: uuid.NewString, log: logger.Nop()}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// MemoryStore is an in-memory Store guarded by one RWMutex.
// Every read returns a deep copy.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]model.Person
	order  []string
	email  map[string]string
	orcid  map[string]string
	github map[string]string
	cfg    settings
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]model.Person),
		email:  make(map[string]string),
		orcid:  make(map[string]string),
		github: make(map[string]string),
		cfg:    newSettings(opts),
	}
}

func observe(op string) func() {
	start := time.Now()
	return func() {
		metrics.RecordRepositoryOp(op, float64(time.Since(start).Milliseconds()))
	}
}

func (s *MemoryStore) findIndexed(idx map[string]string, key string) (model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := idx[key]; ok && key != "" {
		return s.byID[id].Clone(), nil
	}
	return model.Person{}, ErrNotFound
}

// FindByEmail implements Store.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (model.Person, error) {
	defer observe("find")()
	return s.findIndexed(s.email, email)
}

// FindByOrcidID implements Store.
func (s *MemoryStore) FindByOrcidID(_ context.Context, orcidID string) (model.Person, error) {
	defer observe("find")()
	return s.findIndexed(s.orcid, orcidID)
}

// FindByGitHubUsername implements Store.
func (s *MemoryStore) FindByGitHubUsername(_ context.Context, username string) (model.Person, error) {
	defer observe("find")()
	return s.findIndexed(s.github, username)
}

// FindByNameAndAffiliation returns the earliest person with both fields equal.
func (s *MemoryStore) FindByNameAndAffiliation(_ context.Context, fullName, affiliation string) (model.Person, error) {
	defer observe("find")()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		p := s.byID[id]
		if p.FullName == fullName && p.CurrentAffiliation == affiliation {
			return p.Clone(), nil
		}
	}
	return model.Person{}, ErrNotFound
}

// FindByIdentifiers implements Store.
func (s *MemoryStore) FindByIdentifiers(ctx context.Context, ids model.Identifiers) (model.Person, error) {
	return findByIdentifiers(ctx, s, ids)
}

func findByIdentifiers(ctx context.Context, f identity.Finder, ids model.Identifiers) (model.Person, error) {
	m, err := identity.Lookup(ctx, f, ids, identity.DefaultStrategies())
	if err != nil {
		return model.Person{}, err
	}
	if !m.Found {
		return model.Person{}, ErrNotFound
	}
	return m.Person, nil
}

// FindByID implements Store.
func (s *MemoryStore) FindByID(_ context.Context, id string) (model.Person, error) {
	defer observe("find_by_id")()
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return model.Person{}, ErrNotFound
	}
	return p.Clone(), nil
}

// checkUnique reports the first identifier of p owned by a different person. Caller holds mu.
func (s *MemoryStore) checkUnique(p *model.Person) error {
	for _, c := range []struct {
		name string
		idx  map[string]string
		key  string
	}{
		{"email", s.email, p.Email},
		{"orcid_id", s.orcid, p.OrcidID},
		{"github_username", s.github, p.GitHubUsername},
	} {
		if c.key == "" {
			continue
		}
		if owner, ok := c.idx[c.key]; ok && owner != p.ID {
			return fmt.Errorf("%w: %s %q held by %s", ErrDuplicate, c.name, c.key, owner)
		}
	}
	return nil
}

func (s *MemoryStore) index(p *model.Person) {
	if p.Email != "" {
		s.email[p.Email] = p.ID
	}
	if p.OrcidID != "" {
		s.orcid[p.OrcidID] = p.ID
	}
	if p.GitHubUsername != "" {
		s.github[p.GitHubUsername] = p.ID
	}
}

func (s *MemoryStore) unindex(p *model.Person) {
	if s.email[p.Email] == p.ID {
		delete(s.email, p.Email)
	}
	if s.orcid[p.OrcidID] == p.ID {
		delete(s.orcid, p.OrcidID)
	}
	if s.github[p.GitHubUsername] == p.ID {
		delete(s.github, p.GitHubUsername)
	}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, p model.Person) (model.Person, error) {
	defer observe("create")()
	p = p.Clone()
	p.ID = s.cfg.newID()
	if p.LastUpdatedAt.IsZero() {
		p.LastUpdatedAt = s.cfg.now()
	}
	if p.DataSources == nil {
		p.DataSources = []string{}
	}

	s.mu.Lock()
	if err := s.checkUnique(&p); err != nil {
		s.mu.Unlock()
		metrics.RecordRepositoryError("create")
		return model.Person{}, err
	}
	s.byID[p.ID] = p
	s.order = append(s.order, p.ID)
	s.index(&p)
	n := len(s.byID)
	s.mu.Unlock()

	metrics.UpdatePersonsTotal(n)
	return p.Clone(), nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, p model.Person) (model.Person, error) {
	defer observe("update")()
	if p.ID == "" {
		return model.Person{}, ErrMissingID
	}
	p = p.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.byID[p.ID]
	if !ok {
		return model.Person{}, ErrNotFound
	}
	if err := s.checkUnique(&p); err != nil {
		metrics.RecordRepositoryError("update")
		return model.Person{}, err
	}
	// match_score belongs to the matcher
	p.MatchScore = old.MatchScore
	s.unindex(&old)
	s.byID[p.ID] = p
	s.index(&p)
	return p.Clone(), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	defer observe("delete")()
	s.mu.Lock()
	p, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.unindex(&p)
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	n := len(s.byID)
	s.mu.Unlock()
	metrics.UpdatePersonsTotal(n)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, skip, limit int) ([]model.Person, error) {
	defer observe("list")()
	if skip < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: skip=%d limit=%d", ErrInvalidPage, skip, limit)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if skip >= len(s.order) {
		return []model.Person{}, nil
	}
	end := min(skip+limit, len(s.order))
	out := make([]model.Person, 0, end-skip)
	for _, id := range s.order[skip:end] {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

// ListAll implements Store.
func (s *MemoryStore) ListAll(_ context.Context) ([]model.Person, error) {
	defer observe("list")()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Person, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

// Search implements Store.
func (s *MemoryStore) Search(_ context.Context, keyword string) ([]model.Person, error) {
	defer observe("search")()
	needle := strings.ToLower(keyword)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Person, 0)
	for _, id := range s.order {
		p := s.byID[id]
		if containsFold(&p, needle) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func containsFold(p *model.Person, needle string) bool {
	for _, f := range []string{p.FullName, p.CurrentAffiliation, p.ExperienceSummary} {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// UpdateMatchScores implements Store. Unknown ids are skipped and every
// scored person gets a fresh last_updated_at.
func (s *MemoryStore) UpdateMatchScores(_ context.Context, scores map[string]float64) (int, error) {
	defer observe("update_scores")()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	now := s.cfg.now()
	for id, score := range scores {
		p, ok := s.byID[id]
		if !ok {
			continue
		}
		v := score
		p.MatchScore = &v
		p.LastUpdatedAt = now
		s.byID[id] = p
		n++
	}
	return n, nil
}

// DeleteAll implements Store.
func (s *MemoryStore) DeleteAll(_ context.Context) (int, error) {
	defer observe("delete_all")()
	s.mu.Lock()
	n := len(s.byID)
	s.byID = make(map[string]model.Person)
	s.order = nil
	s.email = make(map[string]string)
	s.orcid = make(map[string]string)
	s.github = make(map[string]string)
	s.mu.Unlock()
	metrics.UpdatePersonsTotal(0)
	return n, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}
