// Package loadgen drives a running gradebook server with generated students
// and checks that what it reads back obeys the ranking rules.
package loadgen

import (
	"errors"
	"time"

	"github.com/okian/gradebook/internal/domain/types"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Records  int           // Number of students to generate
	TopK     int           // Size of the limited leaderboard to verify
	Workers  int           // Number of concurrent submitters
	Timeout  time.Duration // HTTP request timeout
	StartKey int           // First generated key; keys are StartKey..StartKey+Records-1
	Seed     uint64        // Seed for mark generation
	Verbose  bool          // Log every failed submission
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.New("base url is required")
	case c.Records <= 0:
		return errors.New("records must be positive")
	case c.TopK < 0:
		return errors.New("top must not be negative")
	case c.Workers <= 0:
		return errors.New("workers must be positive")
	case c.Timeout <= 0:
		return errors.New("timeout must be positive")
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	Generated          int
	Created            int
	Duplicates         int
	Failed             int
	DuplicateProbes    int
	LeaderboardEntries int
	StartTime          time.Time
	Duration           time.Duration
}

// Result bundles what a run read back from the server.
type Result struct {
	Stats       Stats
	Leaderboard []types.Entry
	Top         []types.Entry
}
