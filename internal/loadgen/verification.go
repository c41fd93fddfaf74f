package loadgen

import (
	"errors"
	"fmt"

	"github.com/okian/gradebook/internal/domain/types"
)

// ErrVerification marks a read-back that breaks a ranking rule.
var ErrVerification = errors.New("verification failed")

// VerifyOrdering checks that entries are sorted by total descending with
// ties broken by ascending key, and that ranks are dense.
func VerifyOrdering(entries []types.Entry) error {
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.Student.Total < cur.Student.Total ||
			(prev.Student.Total == cur.Student.Total && prev.Student.Key >= cur.Student.Key) {
			return fmt.Errorf("%w: entry %d (key %d, total %d) precedes key %d, total %d",
				ErrVerification, i-1, prev.Student.Key, prev.Student.Total, cur.Student.Key, cur.Student.Total)
		}
		wantRank := prev.Rank
		if cur.Student.Total != prev.Student.Total {
			wantRank++
		}
		if cur.Rank != wantRank {
			return fmt.Errorf("%w: key %d has rank %d, want %d", ErrVerification, cur.Student.Key, cur.Rank, wantRank)
		}
	}
	if len(entries) > 0 && entries[0].Rank != 1 {
		return fmt.Errorf("%w: first rank is %d", ErrVerification, entries[0].Rank)
	}
	return nil
}

// VerifyTopK checks that top is exactly the first min(k, n) leaderboard entries.
func VerifyTopK(leaderboard, top []types.Entry, k int) error {
	want := min(k, len(leaderboard))
	if len(top) != want {
		return fmt.Errorf("%w: top %d returned %d entries, want %d", ErrVerification, k, len(top), want)
	}
	for i := range top {
		if top[i].Student.Key != leaderboard[i].Student.Key {
			return fmt.Errorf("%w: top[%d] is key %d, leaderboard has %d",
				ErrVerification, i, top[i].Student.Key, leaderboard[i].Student.Key)
		}
	}
	return nil
}

// VerifyTotals checks that every submitted student appears once with the
// total derived from its marks.
func VerifyTotals(submitted []types.StudentInput, leaderboard []types.Entry) error {
	got := make(map[int]int, len(leaderboard))
	for _, e := range leaderboard {
		if _, dup := got[e.Student.Key]; dup {
			return fmt.Errorf("%w: key %d listed twice", ErrVerification, e.Student.Key)
		}
		got[e.Student.Key] = e.Student.Total
	}
	for _, in := range submitted {
		total, ok := got[in.Key]
		if !ok {
			return fmt.Errorf("%w: key %d missing from leaderboard", ErrVerification, in.Key)
		}
		if want := ExpectedTotal(in); total != want {
			return fmt.Errorf("%w: key %d total %d, want %d", ErrVerification, in.Key, total, want)
		}
	}
	return nil
}
