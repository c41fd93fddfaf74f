package ranking

import "github.com/okian/gradebook/internal/domain/model"

// MergeSort returns records in ranked order using a stable top-down merge
// sort. It backs the persisted re-sort, where the stored order itself is
// replaced, and agrees with Leaderboard element for element.
func MergeSort(records []model.Record) []model.Record {
	out := model.Clone(records)
	if len(out) < 2 {
		if out == nil {
			return []model.Record{}
		}
		return out
	}
	buf := make([]model.Record, len(out))
	mergeSort(out, buf)
	return out
}

// mergeSort sorts s in place using buf (len(buf) >= len(s)) as scratch.
func mergeSort(s, buf []model.Record) {
	if len(s) < 2 {
		return
	}
	mid := len(s) / 2
	mergeSort(s[:mid], buf[:mid])
	mergeSort(s[mid:], buf[mid:])

	// Already ordered across the split.
	if !Less(s[mid], s[mid-1]) {
		return
	}

	copy(buf, s)
	left, right := buf[:mid], buf[mid:len(s)]
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		// Take from the right only when strictly better, which keeps equal
		// elements in their original relative order.
		if Less(right[j], left[i]) {
			s[k] = right[j]
			j++
		} else {
			s[k] = left[i]
			i++
		}
		k++
	}
	k += copy(s[k:], left[i:])
	copy(s[k:], right[j:])
}
