package api

import (
	"net/http"

	"github.com/okian/talentradar/internal/domain/jobs"
)

// JobDependencies exposes job snapshots.
type JobDependencies interface {
	Job(id string) (jobs.Job, error)
	Jobs() []jobs.Job
}

// JobsHandler handles job requests.
type JobsHandler struct {
	deps JobDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandleList handles GET /jobs requests.
func (h *JobsHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Jobs())
}

// HandleGet handles GET /jobs/{id} requests.
func (h *JobsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	job, err := h.deps.Job(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
