// Package memo caches computed slice patterns so batch analysis workloads
// skip recomputing lines they have already seen.
package memo

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/junghyun397/mintaka-sub000/internal/board"
)

// SlicePatternMemo is a concurrency-safe cache of slice-pattern computations
// keyed by the slice's stone masks, length and target color. It plugs into
// full-board pattern rebuilds as a board.SlicePatternSource.
type SlicePatternMemo struct {
	cache *ristretto.Cache[uint64, board.SlicePattern]
}

var _ board.SlicePatternSource = (*SlicePatternMemo)(nil)

// NewSlicePatternMemo creates a memo holding up to maxEntries patterns.
func NewSlicePatternMemo(maxEntries int64) (*SlicePatternMemo, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, board.SlicePattern]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &SlicePatternMemo{cache: cache}, nil
}

// Close releases the cache.
func (m *SlicePatternMemo) Close() {
	m.cache.Close()
}

func memoKey(slice *board.Slice, c board.Color) uint64 {
	return uint64(slice.BlackStones) |
		uint64(slice.WhiteStones)<<16 |
		uint64(slice.Length)<<32 |
		uint64(c)<<40
}

// Pattern returns the slice pattern for a color, computing and caching it on
// a miss.
func (m *SlicePatternMemo) Pattern(slice *board.Slice, c board.Color) board.SlicePattern {
	key := memoKey(slice, c)
	if pattern, ok := m.cache.Get(key); ok {
		return pattern
	}

	pattern := slice.CalculateSlicePattern(c)
	m.cache.Set(key, pattern, 1)
	return pattern
}
