package repository

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/okian/gradebook/internal/domain/model"
)

// IndexStrategy names a key index implementation.
type IndexStrategy string

// Supported index strategies.
const (
	// StrategyHash keeps a hash map: O(1) average insert and lookup.
	StrategyHash IndexStrategy = "hash"
	// StrategySorted keeps keys in ascending order: O(log n) lookup via
	// binary search, O(n) positional insert.
	StrategySorted IndexStrategy = "sorted"
)

// ParseIndexStrategy maps a config value onto a known strategy.
func ParseIndexStrategy(s string) (IndexStrategy, error) {
	switch IndexStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyHash:
		return StrategyHash, nil
	case StrategySorted:
		return StrategySorted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Index maps a unique key to the record's position in the collection.
// Both implementations give identical results; they differ only in cost.
type Index interface {
	// Lookup returns the collection position stored for key.
	Lookup(key int) (pos int, ok bool)
	// Insert adds key at pos. Returns ErrDuplicateKey, leaving the index
	// unchanged, if key is already present.
	Insert(key, pos int) error
	// Rebuild discards the index and re-derives it from records.
	Rebuild(records []model.Record)
	// Keys returns every key in ascending order.
	Keys() []int
	// Len returns the number of indexed keys.
	Len() int
	// Strategy names the implementation.
	Strategy() IndexStrategy
}

// NewIndex builds an empty index for strategy.
func NewIndex(strategy IndexStrategy) (Index, error) {
	switch strategy {
	case StrategyHash:
		return newHashIndex(), nil
	case StrategySorted:
		return newSortedIndex(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
}

// hashIndex is the map-backed strategy.
type hashIndex struct {
	pos map[int]int
}

func newHashIndex() *hashIndex {
	return &hashIndex{pos: make(map[int]int)}
}

func (h *hashIndex) Lookup(key int) (int, bool) {
	p, ok := h.pos[key]
	return p, ok
}

func (h *hashIndex) Insert(key, pos int) error {
	if _, ok := h.pos[key]; ok {
		return ErrDuplicateKey
	}
	h.pos[key] = pos
	return nil
}

func (h *hashIndex) Rebuild(records []model.Record) {
	h.pos = make(map[int]int, len(records))
	for i, r := range records {
		h.pos[r.Key] = i
	}
}

func (h *hashIndex) Keys() []int {
	out := make([]int, 0, len(h.pos))
	for k := range h.pos {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (h *hashIndex) Len() int                { return len(h.pos) }
func (h *hashIndex) Strategy() IndexStrategy { return StrategyHash }

// sortedEntry pairs a key with its collection position.
type sortedEntry struct {
	key int
	pos int
}

// sortedIndex keeps entries in ascending key order.
type sortedIndex struct {
	entries []sortedEntry
}

func newSortedIndex() *sortedIndex {
	return &sortedIndex{}
}

// search returns the first slot whose key is >= key.
func (s *sortedIndex) search(key int) int {
	return sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].key >= key
	})
}

func (s *sortedIndex) Lookup(key int) (int, bool) {
	i := s.search(key)
	if i < len(s.entries) && s.entries[i].key == key {
		return s.entries[i].pos, true
	}
	return 0, false
}

func (s *sortedIndex) Insert(key, pos int) error {
	i := s.search(key)
	if i < len(s.entries) && s.entries[i].key == key {
		return ErrDuplicateKey
	}
	s.entries = slices.Insert(s.entries, i, sortedEntry{key: key, pos: pos})
	return nil
}

func (s *sortedIndex) Rebuild(records []model.Record) {
	entries := make([]sortedEntry, len(records))
	for i, r := range records {
		entries[i] = sortedEntry{key: r.Key, pos: i}
	}
	slices.SortFunc(entries, func(a, b sortedEntry) int { return cmp.Compare(a.key, b.key) })
	s.entries = entries
}

func (s *sortedIndex) Keys() []int {
	out := make([]int, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.key
	}
	return out
}

func (s *sortedIndex) Len() int                { return len(s.entries) }
func (s *sortedIndex) Strategy() IndexStrategy { return StrategySorted }
