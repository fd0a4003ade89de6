package repository

import (
	"time"

	"github.com/okian/talentradar/pkg/logger"
)

type settings struct {
	now   func() time.Time
	newID func() string
	log   logger.Logger
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithClock sets the time source for last_updated_at defaults.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides id assignment.
func WithIDGenerator(gen func() string) Option {
	return func(s *settings) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}
