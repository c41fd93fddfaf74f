package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/okian/gradebook/internal/domain/model"
)

func benchRecords(n int) []model.Record {
	rng := rand.New(rand.NewSource(1))
	out := make([]model.Record, n)
	for i := range out {
		out[i] = rec(rng.Int(), rng.Intn(101), rng.Intn(101), rng.Intn(101), rng.Intn(101))
	}
	return out
}

func loadStore(b *testing.B, strategy IndexStrategy, records []model.Record) *MemoryStore {
	b.Helper()
	// History off: snapshots would dominate the timings.
	store, err := NewMemoryStore(WithIndexStrategy(strategy), WithHistory(false))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	for _, r := range records {
		if _, err := store.Add(ctx, r); err != nil {
			b.Fatal(err)
		}
	}
	return store
}

func BenchmarkMemoryStore_Add(b *testing.B) {
	for _, strategy := range strategies {
		for _, n := range []int{1_000, 10_000} {
			records := benchRecords(n)
			b.Run(fmt.Sprintf("%s/%d", strategy, n), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					loadStore(b, strategy, records)
				}
			})
		}
	}
}

func BenchmarkMemoryStore_Find(b *testing.B) {
	records := benchRecords(10_000)
	for _, strategy := range strategies {
		store := loadStore(b, strategy, records)
		ctx := context.Background()
		b.Run(string(strategy), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := store.Find(ctx, records[i%len(records)].Key); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMemoryStore_Ranking(b *testing.B) {
	store := loadStore(b, StrategyHash, benchRecords(10_000))
	ctx := context.Background()

	b.Run("leaderboard", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			store.Leaderboard(ctx)
		}
	})
	for _, k := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("topk/%d", k), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				store.TopK(ctx, k)
			}
		})
	}
	b.Run("topper", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = store.Topper(ctx)
		}
	})
}
