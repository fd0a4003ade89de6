package identity

import (
	"time"

	"github.com/okian/talentradar/pkg/logger"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrategies replaces the lookup table.
func WithStrategies(s []Strategy) Option {
	return func(r *Resolver) {
		if len(s) > 0 {
			r.strategies = s
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock overrides the time source used for last_updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}
