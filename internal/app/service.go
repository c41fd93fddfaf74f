// Package service guards a single gradebook store behind a mutex and adds
// fee payments, collection stats and the demo roster on top of it.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	repository "github.com/okian/gradebook/internal/adapters/repository"
	"github.com/okian/gradebook/internal/domain/model"
	"github.com/okian/gradebook/internal/domain/ranking"
	"github.com/okian/gradebook/internal/domain/scoring"
	"github.com/okian/gradebook/internal/domain/types"
	"github.com/okian/gradebook/pkg/logger"
	"github.com/okian/gradebook/pkg/metrics"
)

// Service implements the API dependencies for the gradebook.
//
// The underlying store is single-threaded; every call goes through mu.
type Service struct {
	mu sync.Mutex

	store repository.Store

	// Configuration
	indexStrategy       repository.IndexStrategy
	historyEnabled      bool
	historyLimit        int
	maxLeaderboardLimit int

	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIndexStrategy selects the key index used by the store.
func WithIndexStrategy(strategy repository.IndexStrategy) Option {
	return func(s *Service) {
		if strategy != "" {
			s.indexStrategy = strategy
		}
	}
}

// WithHistory enables or disables undo/redo.
func WithHistory(enabled bool) Option {
	return func(s *Service) {
		s.historyEnabled = enabled
	}
}

// WithHistoryLimit caps the number of undo snapshots. Zero keeps every one.
func WithHistoryLimit(limit int) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.historyLimit = limit
		}
	}
}

// WithMaxLeaderboardLimit caps the k accepted by TopK.
func WithMaxLeaderboardLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxLeaderboardLimit = limit
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		indexStrategy:       repository.StrategyHash,
		historyEnabled:      true,
		maxLeaderboardLimit: 1000,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the store. Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	store, err := repository.NewMemoryStore(
		repository.WithIndexStrategy(s.indexStrategy),
		repository.WithHistory(s.historyEnabled),
		repository.WithHistoryLimit(s.historyLimit),
		repository.WithLogger(s.logger.Named("repository")),
	)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	s.store = store
	s.started = true

	s.logger.Info(ctx, "gradebook service started",
		logger.String("indexStrategy", string(store.Strategy())),
		logger.Bool("history", s.historyEnabled),
		logger.Int("historyLimit", s.historyLimit),
	)
	return nil
}

// Stop releases the store. The collection is not persisted.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.store = nil
	s.started = false
	s.logger.Info(context.Background(), "gradebook service stopped")
}

// lock acquires mu and reports ErrNotStarted if there is no store yet.
// On success the caller must unlock.
func (s *Service) lock() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	return nil
}

// Add stores a new student.
func (s *Service) Add(ctx context.Context, in types.StudentInput) (types.Student, error) {
	if err := s.lock(); err != nil {
		return types.Student{}, err
	}
	defer s.mu.Unlock()

	rec, err := s.store.Add(ctx, fromInput(in))
	if err != nil {
		return types.Student{}, err
	}
	return toStudent(rec), nil
}

// Find returns the student stored under key.
func (s *Service) Find(ctx context.Context, key int) (types.Student, error) {
	if err := s.lock(); err != nil {
		return types.Student{}, err
	}
	defer s.mu.Unlock()

	rec, err := s.store.Find(ctx, key)
	if err != nil {
		return types.Student{}, err
	}
	return toStudent(rec), nil
}

// Replace overwrites the student stored under in.Key.
func (s *Service) Replace(ctx context.Context, in types.StudentInput) (types.Student, error) {
	if err := s.lock(); err != nil {
		return types.Student{}, err
	}
	defer s.mu.Unlock()

	rec, err := s.store.Replace(ctx, fromInput(in))
	if err != nil {
		return types.Student{}, err
	}
	return toStudent(rec), nil
}

// Remove deletes the student stored under key.
func (s *Service) Remove(ctx context.Context, key int) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	return s.store.Remove(ctx, key)
}

// List returns every student in stored order.
func (s *Service) List(ctx context.Context) ([]types.Student, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return toStudents(s.store.All(ctx)), nil
}

// ListByKey returns every student in ascending key order.
func (s *Service) ListByKey(ctx context.Context) ([]types.Student, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return toStudents(s.store.ByKey(ctx)), nil
}

// Leaderboard returns every student with dense ranks.
func (s *Service) Leaderboard(ctx context.Context) ([]types.Entry, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return toEntries(ranking.Ranked(s.store.Leaderboard(ctx))), nil
}

// TopK returns the first k leaderboard entries.
func (s *Service) TopK(ctx context.Context, k int) ([]types.Entry, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, k)
	}
	if k > s.maxLeaderboardLimit {
		return nil, fmt.Errorf("%w: %d > %d", ErrLimitExceeded, k, s.maxLeaderboardLimit)
	}
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return toEntries(ranking.Ranked(s.store.TopK(ctx, k))), nil
}

// Topper returns the best-ranked student.
func (s *Service) Topper(ctx context.Context) (types.Student, error) {
	if err := s.lock(); err != nil {
		return types.Student{}, err
	}
	defer s.mu.Unlock()

	rec, err := s.store.Topper(ctx)
	if err != nil {
		return types.Student{}, err
	}
	return toStudent(rec), nil
}

// SortPersist re-orders the stored collection by rank.
func (s *Service) SortPersist(ctx context.Context) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	s.store.SortPersist(ctx)
	return nil
}

// Undo reverts the latest mutation.
func (s *Service) Undo(ctx context.Context) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	return s.store.Undo(ctx)
}

// Redo re-applies the latest undone mutation.
func (s *Service) Redo(ctx context.Context) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	return s.store.Redo(ctx)
}

// PayFee credits amount against the student's fees. Overpayment is clamped
// to the total. The payment is a regular replace and can be undone.
func (s *Service) PayFee(ctx context.Context, key int, amount decimal.Decimal) (types.Student, error) {
	if !amount.IsPositive() {
		return types.Student{}, fmt.Errorf("%w: %s", ErrInvalidPayment, amount)
	}
	if err := s.lock(); err != nil {
		return types.Student{}, err
	}
	defer s.mu.Unlock()

	rec, err := s.store.Find(ctx, key)
	if err != nil {
		return types.Student{}, err
	}
	rec.Fees.Paid = rec.Fees.Paid.Add(amount)
	rec.Fees = scoring.ClampFees(rec.Fees)

	rec, err = s.store.Replace(ctx, rec)
	if err != nil {
		return types.Student{}, err
	}

	metrics.RecordFeePayment()
	s.logger.Info(ctx, "fee payment applied",
		logger.Int("key", key),
		logger.Stringer("amount", amount),
		logger.Stringer("left", rec.Fees.Left),
	)
	return toStudent(rec), nil
}

// Stats summarises the collection.
func (s *Service) Stats(ctx context.Context) (types.Stats, error) {
	if err := s.lock(); err != nil {
		return types.Stats{}, err
	}
	defer s.mu.Unlock()

	all := s.store.All(ctx)
	stats := types.Stats{
		Records:         s.store.Count(ctx),
		OutstandingFees: decimal.Zero,
		IndexStrategy:   string(s.store.Strategy()),
	}
	stats.UndoDepth, stats.RedoDepth = s.store.HistoryDepth(ctx)

	if len(all) == 0 {
		return stats, nil
	}
	var pct float64
	for _, r := range all {
		pct += r.Percentage
		stats.OutstandingFees = stats.OutstandingFees.Add(r.Fees.Left)
	}
	stats.AveragePercentage = pct / float64(len(all))
	if top, err := s.store.Topper(ctx); err == nil {
		stats.TopTotal = top.Total
	}

	metrics.UpdateRecordsTotal(stats.Records)
	return stats, nil
}

// demoStudents is the sample roster loaded by SeedDemo.
var demoStudents = []types.StudentInput{ //nolint:gochecknoglobals // fixed sample data
	{Key: 101, Name: "Aman", Marks: types.Marks{DSA: 92, OS: 88, DBMS: 95, CN: 90}, FeesTotal: decimal.NewFromInt(50000), FeesPaid: decimal.NewFromInt(20000)},
	{Key: 102, Name: "Priya", Marks: types.Marks{DSA: 85, OS: 91, DBMS: 89, CN: 93}, FeesTotal: decimal.NewFromInt(50000), FeesPaid: decimal.NewFromInt(50000)},
	{Key: 103, Name: "Rohit", Marks: types.Marks{DSA: 96, OS: 90, DBMS: 92, CN: 94}, FeesTotal: decimal.NewFromInt(50000)},
}

// SeedDemo inserts the sample roster. Students already present are left
// alone. Returns the number of students added.
func (s *Service) SeedDemo(ctx context.Context) (int, error) {
	added := 0
	for _, in := range demoStudents {
		_, err := s.Add(ctx, in)
		switch {
		case err == nil:
			added++
		case errors.Is(err, repository.ErrDuplicateKey):
		default:
			return added, err
		}
	}
	s.logger.Info(ctx, "demo roster seeded", logger.Int("added", added))
	return added, nil
}

func fromInput(in types.StudentInput) model.Record {
	return model.Record{
		Key:     in.Key,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
		Marks:   [model.SubjectCount]int{in.Marks.DSA, in.Marks.OS, in.Marks.DBMS, in.Marks.CN},
		Fees:    model.Fees{Total: in.FeesTotal, Paid: in.FeesPaid},
	}
}

func toStudent(r model.Record) types.Student {
	return types.Student{
		Key:        r.Key,
		Name:       r.Name,
		Phone:      r.Phone,
		Address:    r.Address,
		Marks:      types.Marks{DSA: r.Marks[0], OS: r.Marks[1], DBMS: r.Marks[2], CN: r.Marks[3]},
		Total:      r.Total,
		Percentage: r.Percentage,
		Fees:       types.Fees{Total: r.Fees.Total, Paid: r.Fees.Paid, Left: r.Fees.Left},
	}
}

func toStudents(records []model.Record) []types.Student {
	out := make([]types.Student, len(records))
	for i, r := range records {
		out[i] = toStudent(r)
	}
	return out
}

func toEntries(ranked []ranking.Entry) []types.Entry {
	out := make([]types.Entry, len(ranked))
	for i, e := range ranked {
		out[i] = types.Entry{Rank: e.Rank, Student: toStudent(e.Record)}
	}
	return out
}
