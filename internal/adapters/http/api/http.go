// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/talentradar/internal/app"
	"github.com/okian/talentradar/internal/adapters/mq/worker"
	"github.com/okian/talentradar/internal/adapters/repository"
	"github.com/okian/talentradar/internal/domain/jobs"
	"github.com/okian/talentradar/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	PersonDependencies
	MatchDependencies
	CollectDependencies
	JobDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	personsHandler   *PersonsHandler
	matchHandler     *MatchHandler
	collectHandler   *CollectHandler
	jobsHandler      *JobsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		personsHandler:   NewPersonsHandler(deps),
		matchHandler:     NewMatchHandler(deps),
		collectHandler:   NewCollectHandler(deps),
		jobsHandler:      NewJobsHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /persons", MetricsMiddleware(s.personsHandler.HandleList, "persons"))
	mux.HandleFunc("GET /persons/{id}", MetricsMiddleware(s.personsHandler.HandleGet, "person"))
	mux.HandleFunc("GET /search", MetricsMiddleware(s.personsHandler.HandleSearch, "search"))

	mux.HandleFunc("POST /match", MetricsMiddleware(s.matchHandler.HandleMatch, "match"))
	mux.HandleFunc("POST /collect", MetricsMiddleware(s.collectHandler.HandleCollect, "collect"))
	mux.HandleFunc("POST /reset", MetricsMiddleware(s.collectHandler.HandleReset, "reset"))

	mux.HandleFunc("GET /jobs", MetricsMiddleware(s.jobsHandler.HandleList, "jobs"))
	mux.HandleFunc("GET /jobs/{id}", MetricsMiddleware(s.jobsHandler.HandleGet, "job"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service and domain sentinels to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, repository.ErrInvalidPage),
		errors.Is(err, service.ErrNothingToCollect),
		errors.Is(err, service.ErrResetNotConfirmed),
		errors.Is(err, worker.ErrSourceNotConfigured):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, model.ErrPersonNotFound), errors.Is(err, jobs.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, jobs.ErrAlreadyRunning):
		writeError(w, http.StatusConflict, "already_running", err)
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return wrapBadRequest(err)
	}
	return nil
}
