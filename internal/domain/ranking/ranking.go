// Package ranking orders records by total marks.
//
// Ordering: total DESC, then key ASC (deterministic). Less reports whether a
// ranks before b, so every operation here (leaderboard, top-K, topper and the
// persisted merge sort) agrees on the same order.
package ranking

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/okian/gradebook/internal/domain/model"
)

// Less returns true if a should appear before b on the leaderboard.
func Less(a, b model.Record) bool {
	if a.Total != b.Total {
		return a.Total > b.Total // higher total ranks earlier
	}
	return a.Key < b.Key // tie-breaker by key asc
}

// Compare is the three-way form of Less for the slices package.
func Compare(a, b model.Record) int {
	if c := cmp.Compare(b.Total, a.Total); c != 0 {
		return c
	}
	return cmp.Compare(a.Key, b.Key)
}

// Leaderboard returns every record in ranked order. The input is not modified.
func Leaderboard(records []model.Record) []model.Record {
	out := model.Clone(records)
	if out == nil {
		return []model.Record{}
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// TopK returns the k best-ranked records, equal to the first k elements of
// Leaderboard. k <= 0 or an empty input yields an empty slice.
//
// A min-heap holding at most k records is kept while scanning once, so the
// cost is O(n log k). The heap root is the worst survivor; the heap's own
// order is not the output order.
func TopK(records []model.Record, k int) []model.Record {
	if k <= 0 || len(records) == 0 {
		return []model.Record{}
	}

	h := &minHeap{items: make([]model.Record, 0, min(k, len(records))+1)}
	for _, r := range records {
		heap.Push(h, r)
		if h.Len() > k {
			heap.Pop(h)
		}
	}

	out := h.items
	slices.SortFunc(out, Compare)
	return out
}

// Topper returns the single best-ranked record using a max-priority heap over
// the whole collection. ok is false when records is empty.
func Topper(records []model.Record) (top model.Record, ok bool) {
	if len(records) == 0 {
		return model.Record{}, false
	}
	h := &maxHeap{items: model.Clone(records)}
	heap.Init(h)
	return heap.Pop(h).(model.Record), true
}

// minHeap keeps the worst-ranked record at the root.
type minHeap struct {
	items []model.Record
}

func (h *minHeap) Len() int           { return len(h.items) }
func (h *minHeap) Less(i, j int) bool { return Less(h.items[j], h.items[i]) }
func (h *minHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *minHeap) Push(x any)         { h.items = append(h.items, x.(model.Record)) }
func (h *minHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// maxHeap keeps the best-ranked record at the root.
type maxHeap struct {
	items []model.Record
}

func (h *maxHeap) Len() int           { return len(h.items) }
func (h *maxHeap) Less(i, j int) bool { return Less(h.items[i], h.items[j]) }
func (h *maxHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *maxHeap) Push(x any)         { h.items = append(h.items, x.(model.Record)) }
func (h *maxHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
