package ranking

import "github.com/okian/gradebook/internal/domain/model"

// Entry is a leaderboard row.
type Entry struct {
	Rank   int
	Record model.Record
}

// Ranked assigns ranks to records that are already in ranked order.
// Records with the same total share a rank and the next distinct total takes
// the following rank (1, 1, 2, ...).
func Ranked(records []model.Record) []Entry {
	out := make([]Entry, len(records))
	rank := 0
	for i, r := range records {
		if i == 0 || r.Total != records[i-1].Total {
			rank++
		}
		out[i] = Entry{Rank: rank, Record: r}
	}
	return out
}
