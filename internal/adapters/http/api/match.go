package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/talentradar/internal/app"
)

// MatchDependencies runs requirement matching.
type MatchDependencies interface {
	Match(ctx context.Context, requirement string, limit int) (service.MatchOutcome, error)
}

// matchRequest mirrors the OpenAPI schema for POST /match.
type matchRequest struct {
	Requirement string `json:"requirement"`
	Limit       int    `json:"limit,omitempty"`
}

func (m matchRequest) validate() error {
	switch {
	case strings.TrimSpace(m.Requirement) == "":
		return errors.New("missing requirement")
	case m.Limit < 0:
		return errors.New("limit must not be negative")
	}
	return nil
}

// MatchHandler handles match requests.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// HandleMatch handles POST /match requests.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapBadRequest(err))
		return
	}
	out, err := h.deps.Match(r.Context(), req.Requirement, req.Limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
