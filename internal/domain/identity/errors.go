package identity

import "errors"

var (
	// ErrLookup wraps repository failures raised while evaluating a strategy.
	ErrLookup = errors.New("identity lookup failed")
	// ErrNilRepository is returned by NewResolver without a repository.
	ErrNilRepository = errors.New("identity: nil repository")
)
