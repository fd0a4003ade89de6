package api

import (
	"context"
	"net/http"

	service "github.com/okian/talentradar/internal/app"
	"github.com/okian/talentradar/internal/domain/jobs"
)

// CollectDependencies starts collections and clears the store.
type CollectDependencies interface {
	StartCollect(ctx context.Context, req service.CollectRequest) (jobs.Job, error)
	Reset(ctx context.Context, confirm bool) (int, error)
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

type resetResponse struct {
	Deleted int `json:"deleted"`
}

// CollectHandler handles collection and reset requests.
type CollectHandler struct {
	deps CollectDependencies
}

// NewCollectHandler creates a new collect handler.
func NewCollectHandler(deps CollectDependencies) *CollectHandler {
	return &CollectHandler{deps: deps}
}

// HandleCollect handles POST /collect. The run continues in the background;
// the response carries the job to poll.
func (h *CollectHandler) HandleCollect(w http.ResponseWriter, r *http.Request) {
	var req service.CollectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	job, err := h.deps.StartCollect(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/jobs/"+job.ID)
	writeJSON(w, http.StatusAccepted, job)
}

// HandleReset handles POST /reset requests.
func (h *CollectHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	n, err := h.deps.Reset(r.Context(), req.Confirm)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Deleted: n})
}
