package model

import "errors"

// Sentinel kinds shared by the domain and its repositories.
var (
	ErrPersonNotFound    = errors.New("person not found")
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrMissingFullName   = errors.New("candidate missing full_name")
	ErrUnknownSource     = errors.New("unknown source")
)
