package ranking_test

import (
	"math/rand"
	"testing"

	"github.com/okian/gradebook/internal/domain/model"
	"github.com/okian/gradebook/internal/domain/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(key, total int) model.Record {
	return model.Record{Key: key, Total: total}
}

func keys(records []model.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Key
	}
	return out
}

// randomRecords builds n records with unique keys and totals drawn from a
// narrow range so that ties are common.
func randomRecords(rng *rand.Rand, n int) []model.Record {
	perm := rng.Perm(n * 3)
	out := make([]model.Record, n)
	for i := range out {
		out[i] = rec(perm[i]+1, rng.Intn(10)*10)
	}
	return out
}

func assertRanked(t *testing.T, records []model.Record) {
	t.Helper()
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		require.True(t, prev.Total >= cur.Total, "totals out of order at %d", i)
		if prev.Total == cur.Total {
			require.Less(t, prev.Key, cur.Key, "tie not broken by key at %d", i)
		}
	}
}

func TestLeaderboard(t *testing.T) {
	in := []model.Record{rec(101, 365), rec(102, 358), rec(103, 372)}

	out := ranking.Leaderboard(in)

	assert.Equal(t, []int{103, 101, 102}, keys(out))
	assert.Equal(t, []int{101, 102, 103}, keys(in), "input must not be reordered")
}

func TestLeaderboard_TieBreakByKey(t *testing.T) {
	in := []model.Record{rec(7, 300), rec(3, 300), rec(5, 310), rec(1, 300)}

	assert.Equal(t, []int{5, 1, 3, 7}, keys(ranking.Leaderboard(in)))
}

func TestLeaderboard_Empty(t *testing.T) {
	out := ranking.Leaderboard(nil)

	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestTopK(t *testing.T) {
	in := []model.Record{rec(101, 365), rec(102, 358), rec(103, 372)}

	tests := []struct {
		name string
		k    int
		want []int
	}{
		{name: "zero", k: 0, want: []int{}},
		{name: "negative", k: -3, want: []int{}},
		{name: "one", k: 1, want: []int{103}},
		{name: "two", k: 2, want: []int{103, 101}},
		{name: "all", k: 3, want: []int{103, 101, 102}},
		{name: "more than size", k: 10, want: []int{103, 101, 102}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(ranking.TopK(in, tt.k)))
		})
	}
}

func TestTopK_EmptyCollection(t *testing.T) {
	out := ranking.TopK(nil, 3)

	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestTopK_MatchesLeaderboardPrefix(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		in := randomRecords(rng, rng.Intn(40)+1)
		full := ranking.Leaderboard(in)
		for k := 0; k <= len(in)+2; k++ {
			want := full[:min(k, len(full))]
			got := ranking.TopK(in, k)
			require.Equal(t, keys(want), keys(got), "round %d k %d", round, k)
		}
	}
}

func TestTopper(t *testing.T) {
	top, ok := ranking.Topper([]model.Record{rec(101, 365), rec(102, 358), rec(103, 372)})
	require.True(t, ok)
	assert.Equal(t, 103, top.Key)

	top, ok = ranking.Topper([]model.Record{rec(9, 300), rec(4, 300), rec(6, 300)})
	require.True(t, ok)
	assert.Equal(t, 4, top.Key, "equal totals resolve to the lowest key")

	_, ok = ranking.Topper(nil)
	assert.False(t, ok)
}

func TestTopper_DoesNotReorderInput(t *testing.T) {
	in := []model.Record{rec(1, 10), rec(2, 30), rec(3, 20)}

	_, _ = ranking.Topper(in)

	assert.Equal(t, []int{1, 2, 3}, keys(in))
}

func TestMergeSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		in := randomRecords(rng, rng.Intn(60))
		before := keys(in)

		out := ranking.MergeSort(in)

		require.Len(t, out, len(in))
		assertRanked(t, out)
		require.Equal(t, keys(ranking.Leaderboard(in)), keys(out))
		require.Equal(t, before, keys(in), "input must not be reordered")
	}
}

func TestMergeSort_Small(t *testing.T) {
	assert.Empty(t, ranking.MergeSort(nil))
	assert.Equal(t, []int{4}, keys(ranking.MergeSort([]model.Record{rec(4, 1)})))
	assert.Equal(t, []int{2, 1}, keys(ranking.MergeSort([]model.Record{rec(1, 1), rec(2, 2)})))
}

func TestRanked(t *testing.T) {
	ordered := []model.Record{rec(5, 310), rec(1, 300), rec(3, 300), rec(7, 290)}

	entries := ranking.Ranked(ordered)

	require.Len(t, entries, 4)
	ranks := []int{entries[0].Rank, entries[1].Rank, entries[2].Rank, entries[3].Rank}
	assert.Equal(t, []int{1, 2, 2, 3}, ranks)
	assert.Equal(t, 3, entries[2].Record.Key)
	assert.Empty(t, ranking.Ranked(nil))
}
