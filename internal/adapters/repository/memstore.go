package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/okian/gradebook/internal/domain/history"
	"github.com/okian/gradebook/internal/domain/model"
	"github.com/okian/gradebook/internal/domain/ranking"
	"github.com/okian/gradebook/internal/domain/scoring"
	"github.com/okian/gradebook/pkg/logger"
	"github.com/okian/gradebook/pkg/metrics"
)

// MemoryStore is the in-memory Store. It owns the record slice, the key
// index over it and the snapshot history; callers only ever see copies.
//
// Every mutation validates first and snapshots second, so a rejected call
// leaves records, index and history exactly as they were.
type MemoryStore struct {
	records []model.Record
	index   Index
	history *history.History

	strategy       IndexStrategy
	historyEnabled bool
	historyLimit   int

	logger logger.Logger
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a store with configuration options. History is
// enabled and the hash index is used unless options say otherwise.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{
		strategy:       StrategyHash,
		historyEnabled: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	idx, err := NewIndex(s.strategy)
	if err != nil {
		return nil, err
	}
	s.index = idx

	if s.historyEnabled {
		s.history = history.New(history.WithLimit(s.historyLimit))
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}

	metrics.UpdateRecordsTotal(0)
	metrics.UpdateHistoryDepth(0, 0)
	return s, nil
}

func observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000)
}

// Add implements Store.Add. Cost is one index insert: O(1) average for the
// hash strategy, O(n) for the sorted strategy.
func (s *MemoryStore) Add(ctx context.Context, rec model.Record) (model.Record, error) {
	defer observe("add", time.Now())

	if err := model.Validate(rec); err != nil {
		metrics.RecordAdd("invalid")
		return model.Record{}, err
	}
	if _, ok := s.index.Lookup(rec.Key); ok {
		metrics.RecordAdd("duplicate")
		metrics.RecordErrorByComponent("repository", "duplicate_key")
		return model.Record{}, fmt.Errorf("key %d: %w", rec.Key, ErrDuplicateKey)
	}

	rec = scoring.Apply(rec)
	if err := s.index.Insert(rec.Key, len(s.records)); err != nil {
		return model.Record{}, fmt.Errorf("key %d: %w", rec.Key, err)
	}
	s.snapshot()
	s.records = append(s.records, rec)

	metrics.RecordAdd("accepted")
	s.afterMutation()
	s.logger.Debug(ctx, "record added", logger.Int("key", rec.Key), logger.Int("total", rec.Total))
	return rec, nil
}

// Find implements Store.Find.
func (s *MemoryStore) Find(ctx context.Context, key int) (model.Record, error) {
	defer observe("find", time.Now())

	pos, ok := s.index.Lookup(key)
	if !ok {
		metrics.RecordLookup("not_found")
		return model.Record{}, fmt.Errorf("key %d: %w", key, ErrNotFound)
	}
	metrics.RecordLookup("found")
	return s.records[pos], nil
}

// Replace implements Store.Replace. The key selects the record; every other
// field is taken from rec and the aggregates are recomputed.
func (s *MemoryStore) Replace(ctx context.Context, rec model.Record) (model.Record, error) {
	defer observe("replace", time.Now())

	pos, ok := s.index.Lookup(rec.Key)
	if !ok {
		return model.Record{}, fmt.Errorf("key %d: %w", rec.Key, ErrNotFound)
	}
	if err := model.Validate(rec); err != nil {
		return model.Record{}, err
	}

	rec = scoring.Apply(rec)
	s.snapshot()
	s.records[pos] = rec

	s.afterMutation()
	s.logger.Debug(ctx, "record replaced", logger.Int("key", rec.Key), logger.Int("total", rec.Total))
	return rec, nil
}

// Remove implements Store.Remove. Positions after the removed record shift,
// so the index is rebuilt.
func (s *MemoryStore) Remove(ctx context.Context, key int) error {
	defer observe("remove", time.Now())

	pos, ok := s.index.Lookup(key)
	if !ok {
		return fmt.Errorf("key %d: %w", key, ErrNotFound)
	}

	s.snapshot()
	s.records = slices.Delete(s.records, pos, pos+1)
	s.index.Rebuild(s.records)

	s.afterMutation()
	s.logger.Debug(ctx, "record removed", logger.Int("key", key))
	return nil
}

// All implements Store.All.
func (s *MemoryStore) All(ctx context.Context) []model.Record {
	out := model.Clone(s.records)
	if out == nil {
		return []model.Record{}
	}
	return out
}

// ByKey implements Store.ByKey by walking the index in key order.
func (s *MemoryStore) ByKey(ctx context.Context) []model.Record {
	keys := s.index.Keys()
	out := make([]model.Record, 0, len(keys))
	for _, key := range keys {
		if pos, ok := s.index.Lookup(key); ok {
			out = append(out, s.records[pos])
		}
	}
	return out
}

// Leaderboard implements Store.Leaderboard in O(n log n).
func (s *MemoryStore) Leaderboard(ctx context.Context) []model.Record {
	defer observe("leaderboard", time.Now())
	return ranking.Leaderboard(s.records)
}

// TopK implements Store.TopK in O(n log k).
func (s *MemoryStore) TopK(ctx context.Context, k int) []model.Record {
	defer observe("top_k", time.Now())
	return ranking.TopK(s.records, k)
}

// Topper implements Store.Topper.
func (s *MemoryStore) Topper(ctx context.Context) (model.Record, error) {
	defer observe("topper", time.Now())

	top, ok := ranking.Topper(s.records)
	if !ok {
		return model.Record{}, fmt.Errorf("topper: %w", ErrNotFound)
	}
	return top, nil
}

// SortPersist implements Store.SortPersist. The stored order becomes the
// leaderboard order and the index is rebuilt over the new positions.
func (s *MemoryStore) SortPersist(ctx context.Context) {
	defer observe("sort_persist", time.Now())

	if len(s.records) == 0 {
		return
	}

	s.snapshot()
	s.records = ranking.MergeSort(s.records)
	s.index.Rebuild(s.records)

	s.afterMutation()
	s.logger.Debug(ctx, "collection re-sorted", logger.Int("records", len(s.records)))
}

// Undo implements Store.Undo.
func (s *MemoryStore) Undo(ctx context.Context) error {
	if s.history == nil {
		metrics.RecordHistoryOperation("undo", "empty")
		return ErrNothingToUndo
	}
	prev, err := s.history.Undo(s.records)
	if err != nil {
		metrics.RecordHistoryOperation("undo", "empty")
		return err
	}
	s.install(prev)

	metrics.RecordHistoryOperation("undo", "ok")
	s.logger.Debug(ctx, "undo applied", logger.Int("records", len(s.records)))
	return nil
}

// Redo implements Store.Redo.
func (s *MemoryStore) Redo(ctx context.Context) error {
	if s.history == nil {
		metrics.RecordHistoryOperation("redo", "empty")
		return ErrNothingToRedo
	}
	next, err := s.history.Redo(s.records)
	if err != nil {
		metrics.RecordHistoryOperation("redo", "empty")
		return err
	}
	s.install(next)

	metrics.RecordHistoryOperation("redo", "ok")
	s.logger.Debug(ctx, "redo applied", logger.Int("records", len(s.records)))
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(ctx context.Context) int {
	return s.index.Len()
}

// HistoryDepth implements Store.HistoryDepth.
func (s *MemoryStore) HistoryDepth(ctx context.Context) (undo, redo int) {
	if s.history == nil {
		return 0, 0
	}
	return s.history.Depth()
}

// Strategy implements Store.Strategy.
func (s *MemoryStore) Strategy() IndexStrategy {
	return s.index.Strategy()
}

// install makes snap the live collection and re-derives the index.
func (s *MemoryStore) install(snap []model.Record) {
	s.records = snap
	s.index.Rebuild(s.records)
	s.afterMutation()
}

func (s *MemoryStore) snapshot() {
	if s.history != nil {
		s.history.Push(s.records)
	}
}

func (s *MemoryStore) afterMutation() {
	metrics.UpdateRecordsTotal(len(s.records))
	undo, redo := s.HistoryDepth(context.Background())
	metrics.UpdateHistoryDepth(undo, redo)
}

// nopLogger discards everything; used when no logger is configured.
type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...logger.Field)  {}
func (nopLogger) Error(context.Context, string, ...logger.Field) {}
func (nopLogger) Debug(context.Context, string, ...logger.Field) {}
func (nopLogger) Warn(context.Context, string, ...logger.Field)  {}
func (nopLogger) Fatal(context.Context, string, ...logger.Field) {}
func (n nopLogger) Named(string) logger.Logger                  { return n }
