package worker

import (
	"sync"

	"github.com/okian/talentradar/internal/domain/identity"
	"github.com/okian/talentradar/internal/domain/model"
)

// TaskError records a (source, keyword) task that produced no candidates.
type TaskError struct {
	Source  model.Source `json:"source"`
	Keyword string       `json:"keyword"`
	Error   string       `json:"error"`
}

// Report summarizes one collection run.
type Report struct {
	Tasks      int         `json:"tasks"`
	Collected  int         `json:"collected"`
	Persisted  int         `json:"persisted"`
	Created    int         `json:"created"`
	Merged     int         `json:"merged"`
	Dropped    int         `json:"dropped"`
	Failed     int         `json:"failed"`
	TaskErrors []TaskError `json:"task_errors,omitempty"`
}

type tally struct {
	mu       sync.Mutex
	r        Report
	progress func(Report)
}

func (t *tally) update(fn func(r *Report)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.r)
	// reported under the lock so observers never see counts go backwards
	if t.progress != nil {
		t.progress(t.snapshotLocked())
	}
}

func (t *tally) snapshot() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *tally) snapshotLocked() Report {
	r := t.r
	r.TaskErrors = append([]TaskError(nil), t.r.TaskErrors...)
	return r
}

func (t *tally) resolved(res identity.Result) {
	t.update(func(r *Report) {
		r.Persisted++
		switch res.Outcome {
		case identity.OutcomeCreated:
			r.Created++
		case identity.OutcomeMerged:
			r.Merged++
		}
	})
}
