package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	service "github.com/okian/talentradar/internal/app"
	"github.com/okian/talentradar/internal/domain/model"
)

// Paging defaults for GET /persons.
const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// PersonDependencies defines the read operations over stored persons.
type PersonDependencies interface {
	ListPersons(ctx context.Context, skip, limit int) ([]model.Person, error)
	GetPerson(ctx context.Context, id string) (model.Person, error)
	SearchPersons(ctx context.Context, keyword string, f service.SearchFilter) ([]model.Person, error)
}

// PersonsHandler handles person listing, lookup and search.
type PersonsHandler struct {
	deps PersonDependencies
}

// NewPersonsHandler creates a new persons handler.
func NewPersonsHandler(deps PersonDependencies) *PersonsHandler {
	return &PersonsHandler{deps: deps}
}

// HandleList handles GET /persons?skip=&limit= requests.
func (h *PersonsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, err := intParam(q.Get("skip"), 0)
	if err != nil || skip < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", wrapBadRequest(fmt.Errorf("invalid skip %q", q.Get("skip"))))
		return
	}
	limit, err := intParam(q.Get("limit"), defaultPageLimit)
	if err != nil || limit <= 0 || limit > maxPageLimit {
		writeError(w, http.StatusBadRequest, "bad_request", wrapBadRequest(fmt.Errorf("limit must be 1..%d", maxPageLimit)))
		return
	}
	persons, err := h.deps.ListPersons(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, persons)
}

// HandleGet handles GET /persons/{id} requests.
func (h *PersonsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.GetPerson(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleSearch handles GET /search?keyword=&is_researcher=&is_engineer= requests.
func (h *PersonsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f service.SearchFilter
	var err error
	if f.Researchers, err = boolParam(q.Get("is_researcher")); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapBadRequest(err))
		return
	}
	if f.Engineers, err = boolParam(q.Get("is_engineer")); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapBadRequest(err))
		return
	}
	persons, err := h.deps.SearchPersons(r.Context(), q.Get("keyword"), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, persons)
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func boolParam(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
