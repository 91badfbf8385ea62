package repository

import "github.com/okian/alumni/pkg/logger"

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithLogger sets the logger used for fixture warnings.
func WithLogger(l logger.Logger) Option {
	return func(s *InMemoryStore) {
		if l != nil {
			s.logger = l
		}
	}
}
