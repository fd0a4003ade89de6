package repository

import (
	"errors"

	"github.com/okian/talentradar/internal/domain/model"
)

// Sentinel kinds for person storage errors. ErrNotFound and ErrDuplicate
// alias the domain sentinels so callers can match either.
var (
	ErrNotFound    = model.ErrPersonNotFound
	ErrDuplicate   = model.ErrDuplicateIdentity
	ErrInvalidPage = errors.New("invalid page")
	ErrMissingID   = errors.New("person id required")
)
