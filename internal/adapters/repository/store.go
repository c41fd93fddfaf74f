// Package repository owns the record collection and keeps it indexed,
// ranked and undoable.
package repository

import (
	"context"

	"github.com/okian/gradebook/internal/domain/model"
)

// Store provides read/write access to the record collection.
//
// Implementations are not safe for concurrent use; callers that share a
// Store must serialise access.
type Store interface {
	// Add derives the aggregates of rec and stores it.
	// Returns ErrDuplicateKey if the key exists and ErrInvalidRecord if marks
	// or fees are out of range; the collection is unchanged in both cases.
	Add(ctx context.Context, rec model.Record) (model.Record, error)

	// Find returns the record stored under key, or ErrNotFound.
	Find(ctx context.Context, key int) (model.Record, error)

	// Replace overwrites the record with the same key wholesale.
	Replace(ctx context.Context, rec model.Record) (model.Record, error)

	// Remove deletes the record stored under key, or returns ErrNotFound.
	Remove(ctx context.Context, key int) error

	// All returns every record in stored order.
	All(ctx context.Context) []model.Record

	// ByKey returns every record in ascending key order.
	ByKey(ctx context.Context) []model.Record

	// Leaderboard returns every record ordered by total desc, key asc.
	Leaderboard(ctx context.Context) []model.Record

	// TopK returns the first k records of the leaderboard.
	TopK(ctx context.Context, k int) []model.Record

	// Topper returns the best-ranked record, or ErrNotFound when empty.
	Topper(ctx context.Context) (model.Record, error)

	// SortPersist re-orders the stored collection by rank.
	SortPersist(ctx context.Context)

	// Undo and Redo step through collection snapshots.
	Undo(ctx context.Context) error
	Redo(ctx context.Context) error

	// Count returns the number of stored records.
	Count(ctx context.Context) int

	// HistoryDepth reports the undo and redo stack sizes.
	HistoryDepth(ctx context.Context) (undo, redo int)

	// Strategy reports the active index strategy.
	Strategy() IndexStrategy
}
