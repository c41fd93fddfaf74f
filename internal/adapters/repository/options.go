package repository

import "github.com/okian/gradebook/pkg/logger"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithIndexStrategy selects the key index implementation.
func WithIndexStrategy(strategy IndexStrategy) Option {
	return func(s *MemoryStore) {
		if strategy != "" {
			s.strategy = strategy
		}
	}
}

// WithHistory enables or disables undo/redo snapshots.
func WithHistory(enabled bool) Option {
	return func(s *MemoryStore) {
		s.historyEnabled = enabled
	}
}

// WithHistoryLimit caps the number of undo snapshots kept.
func WithHistoryLimit(limit int) Option {
	return func(s *MemoryStore) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithLogger sets the logger used for mutation tracing.
func WithLogger(l logger.Logger) Option {
	return func(s *MemoryStore) {
		if l != nil {
			s.logger = l
		}
	}
}
