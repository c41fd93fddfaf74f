package loadgen

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/gradebook/internal/domain/types"
	"github.com/okian/gradebook/pkg/logger"
)

// duplicateProbes is how many already-submitted students are re-sent to
// confirm the server rejects duplicate keys.
const duplicateProbes = 10

// Run executes the complete load test against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("loadgen")
	res := &Result{Stats: Stats{StartTime: time.Now()}}
	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting gradebook load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("records", cfg.Records),
		logger.Int("workers", cfg.Workers),
		logger.Int("top", cfg.TopK),
	)

	if err := checkHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	students := Generate(cfg.Records, cfg.StartKey, cfg.Seed)
	res.Stats.Generated = len(students)

	if err := submit(ctx, cfg, client, students, &res.Stats, log); err != nil {
		return nil, fmt.Errorf("submission failed: %w", err)
	}
	if res.Stats.Failed > 0 {
		return nil, fmt.Errorf("%d submissions failed", res.Stats.Failed)
	}
	if err := probeDuplicates(ctx, client, students, &res.Stats); err != nil {
		return nil, err
	}

	if err := getOK(ctx, client, "/leaderboard", &res.Leaderboard); err != nil {
		return nil, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	res.Stats.LeaderboardEntries = len(res.Leaderboard)
	if err := getOK(ctx, client, "/leaderboard?limit="+strconv.Itoa(cfg.TopK), &res.Top); err != nil {
		return nil, fmt.Errorf("top-k retrieval failed: %w", err)
	}

	if err := VerifyOrdering(res.Leaderboard); err != nil {
		return res, err
	}
	if err := VerifyTopK(res.Leaderboard, res.Top, cfg.TopK); err != nil {
		return res, err
	}
	if res.Stats.Duplicates == 0 {
		// Only a clean key range is guaranteed to be fully ours.
		if err := VerifyTotals(students, res.Leaderboard); err != nil {
			return res, err
		}
	}

	res.Stats.Duration = time.Since(res.Stats.StartTime)
	logFinalStats(ctx, log, &res.Stats)
	return res, nil
}

func checkHealth(ctx context.Context, client *HTTPClient) error {
	if err := getOK(ctx, client, "/healthz", nil); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	return nil
}

// getOK fetches path into out and insists on a 200.
func getOK(ctx context.Context, client *HTTPClient, path string, out any) error {
	status, err := client.Do(ctx, http.MethodGet, path, nil, out)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, status)
	}
	return nil
}

// submit posts every student with at most cfg.Workers requests in flight.
// Pre-existing keys are counted as duplicates, not failures.
func submit(ctx context.Context, cfg *Config, client *HTTPClient, students []types.StudentInput, stats *Stats, log logger.Logger) error {
	var created, duplicates, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, s := range students {
		g.Go(func() error {
			status, err := client.Do(gctx, http.MethodPost, "/students", s, nil)
			switch {
			case err != nil && gctx.Err() != nil:
				return gctx.Err()
			case status == http.StatusCreated:
				created.Add(1)
			case status == http.StatusConflict:
				duplicates.Add(1)
			default:
				failed.Add(1)
				if cfg.Verbose {
					log.Warn(gctx, "submission failed", logger.Int("key", s.Key), logger.Int("status", status), logger.Error(err))
				}
			}
			return nil
		})
	}
	err := g.Wait()

	stats.Created = int(created.Load())
	stats.Duplicates = int(duplicates.Load())
	stats.Failed = int(failed.Load())
	log.Info(ctx, "submission completed",
		logger.Int("created", stats.Created),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("failed", stats.Failed),
	)
	return err
}

// probeDuplicates re-submits a few students and expects 409 for each.
func probeDuplicates(ctx context.Context, client *HTTPClient, students []types.StudentInput, stats *Stats) error {
	step := max(1, len(students)/duplicateProbes)
	for i := 0; i < len(students); i += step {
		status, err := client.Do(ctx, http.MethodPost, "/students", students[i], nil)
		if err != nil {
			return fmt.Errorf("duplicate probe: %w", err)
		}
		if status != http.StatusConflict {
			return fmt.Errorf("%w: re-submitting key %d returned %d, want 409", ErrVerification, students[i].Key, status)
		}
		stats.DuplicateProbes++
	}
	return nil
}

func logFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Created+stats.Duplicates) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("created", stats.Created),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("duplicateProbes", stats.DuplicateProbes),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("submissionsPerSecond", perSecond),
	)
}
