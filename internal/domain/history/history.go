// Package history provides snapshot-based undo/redo for a record collection.
//
// Each entry is a full copy of the collection, so memory grows by O(n) per
// recorded mutation. WithLimit bounds the undo stack for larger datasets.
package history

import (
	"errors"
	"fmt"

	"github.com/okian/gradebook/internal/domain/model"
)

// Sentinel kinds for history errors.
var (
	ErrEmptyHistory  = errors.New("empty history")
	ErrNothingToUndo = fmt.Errorf("nothing to undo: %w", ErrEmptyHistory)
	ErrNothingToRedo = fmt.Errorf("nothing to redo: %w", ErrEmptyHistory)
)

// Option applies a configuration option to the History.
type Option func(*History)

// WithLimit caps the number of undo snapshots kept. The oldest snapshot is
// dropped once the cap is reached. Zero or negative means unbounded.
func WithLimit(limit int) Option {
	return func(h *History) {
		if limit > 0 {
			h.limit = limit
		}
	}
}

// History holds two LIFO stacks of collection snapshots.
type History struct {
	undo  [][]model.Record
	redo  [][]model.Record
	limit int
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Push records the pre-mutation collection and invalidates any redo chain.
func (h *History) Push(current []model.Record) {
	h.undo = append(h.undo, snapshot(current))
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo[0] = nil
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo returns the collection as it was before the latest mutation and moves
// current onto the redo stack.
func (h *History) Undo(current []model.Record) ([]model.Record, error) {
	if len(h.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	h.redo = append(h.redo, snapshot(current))
	return pop(&h.undo), nil
}

// Redo re-applies the most recently undone state and moves current onto the
// undo stack.
func (h *History) Redo(current []model.Record) ([]model.Record, error) {
	if len(h.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	h.undo = append(h.undo, snapshot(current))
	return pop(&h.redo), nil
}

// Depth reports the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

func pop(stack *[][]model.Record) []model.Record {
	s := *stack
	top := s[len(s)-1]
	s[len(s)-1] = nil
	*stack = s[:len(s)-1]
	return top
}

// snapshot copies current so later mutations cannot reach the stored state.
// A nil collection is stored as an empty one.
func snapshot(current []model.Record) []model.Record {
	if current == nil {
		return []model.Record{}
	}
	return model.Clone(current)
}
