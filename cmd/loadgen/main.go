package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/gradebook/internal/loadgen"
	"github.com/okian/gradebook/pkg/logger"
)

// Default configuration constants.
const (
	defaultRecords     = 10000
	defaultTopK        = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultStartKey    = 1000
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &loadgen.Config{}

	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Load and verify a running gradebook server",
		Long: `loadgen submits generated students concurrently, re-submits a sample to
confirm duplicate keys are rejected, then reads the leaderboard back and checks
its ordering and the top-k prefix.`,
		Example: `  loadgen --records 50000 --workers 16 --url http://localhost:9080
  loadgen --verbose --start-key 500000`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), defaultTestTimeout)
			defer cancel()

			_, err := loadgen.Run(ctx, cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	f.IntVar(&cfg.Records, "records", defaultRecords, "Number of students to generate and submit")
	f.IntVar(&cfg.TopK, "top", defaultTopK, "Size of the limited leaderboard to verify")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
	f.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.IntVar(&cfg.StartKey, "start-key", defaultStartKey, "First generated key")
	f.Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "Seed for mark generation")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose logging")

	return cmd
}
