package repository

import (
	"time"

	"github.com/okian/matchboard/pkg/logger"
)

const defaultBusyTimeout = 5 * time.Second

type settings struct {
	logger      logger.Logger
	busyTimeout time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	return s
}

// Option applies a configuration option to a store or catalog.
type Option func(*settings)

// WithLogger sets the logger used for warnings and debug output.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}
