package service

import "errors"

// Sentinel errors surfaced to API and CLI callers.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrNothingToCollect  = errors.New("no collection tasks: enable a source and give at least one keyword")
	ErrResetNotConfirmed = errors.New("reset requires explicit confirmation")
	ErrStoreUnavailable  = errors.New("person store unavailable")
)
