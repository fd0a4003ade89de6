package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultHistory is how many finished jobs are retained.
const defaultHistory = 100

// Registry owns every job and allows one running job per kind.
type Registry struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	running map[Kind]string
	history int
	now     func() time.Time
}

// NewRegistry returns an empty registry keeping up to history finished jobs.
func NewRegistry(history int) *Registry {
	if history <= 0 {
		history = defaultHistory
	}
	return &Registry{
		jobs:    make(map[string]*Job),
		running: make(map[Kind]string),
		history: history,
		now:     time.Now,
	}
}

// TryStart registers a running job of kind unless one is already in flight.
func (r *Registry) TryStart(kind Kind) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.running[kind]; ok {
		return *r.jobs[id], fmt.Errorf("%w: %s %s", ErrAlreadyRunning, kind, id)
	}
	j := &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    StatusRunning,
		StartedAt: r.now(),
	}
	r.jobs[j.ID] = j
	r.running[kind] = j.ID
	r.prune()
	return *j, nil
}

// Progress overwrites the counters of a running job.
func (r *Registry) Progress(id string, c Counts) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok && j.Status == StatusRunning {
		j.Collected, j.Persisted, j.Failed = c.Collected, c.Persisted, c.Failed
	}
}

// Finish marks id done, or failed when err is non-nil, and frees its kind.
func (r *Registry) Finish(id string, c Counts, err error) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	if j.Terminal() {
		return *j, nil
	}
	now := r.now()
	j.Collected, j.Persisted, j.Failed = c.Collected, c.Persisted, c.Failed
	j.FinishedAt = &now
	j.Status = StatusDone
	if err != nil {
		j.Status = StatusFailed
		j.Error = err.Error()
	}
	if r.running[j.Kind] == id {
		delete(r.running, j.Kind)
	}
	return *j, nil
}

// Get returns a snapshot of id.
func (r *Registry) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *j, nil
}

// Running returns the in-flight job of kind, if any.
func (r *Registry) Running(kind Kind) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.running[kind]
	if !ok {
		return Job{}, false
	}
	return *r.jobs[id], true
}

// Status of the most recent job of kind; idle when none ever ran.
func (r *Registry) Status(kind Kind) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *Job
	for _, j := range r.jobs {
		if j.Kind == kind && (latest == nil || j.StartedAt.After(latest.StartedAt)) {
			latest = j
		}
	}
	if latest == nil {
		return StatusIdle
	}
	return latest.Status
}

// List returns every job, newest first.
func (r *Registry) List() []Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted()
}

func (r *Registry) sorted() []Job {
	out := make([]Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].StartedAt.After(out[k].StartedAt) })
	return out
}

// prune drops the oldest finished jobs beyond the history bound. Caller holds mu.
func (r *Registry) prune() {
	if len(r.jobs) <= r.history {
		return
	}
	all := r.sorted()
	for i := len(all) - 1; i >= 0 && len(r.jobs) > r.history; i-- {
		if all[i].Terminal() {
			delete(r.jobs, all[i].ID)
		}
	}
}
