package repository

import (
	"errors"

	"github.com/okian/gradebook/internal/domain/history"
	"github.com/okian/gradebook/internal/domain/model"
)

// Sentinel kinds for store errors.
var (
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrNotFound        = errors.New("record not found")
	ErrUnknownStrategy = errors.New("unknown index strategy")

	// Re-exported so callers need only this package.
	ErrInvalidRecord = model.ErrInvalidRecord
	ErrEmptyHistory  = history.ErrEmptyHistory
	ErrNothingToUndo = history.ErrNothingToUndo
	ErrNothingToRedo = history.ErrNothingToRedo
)
