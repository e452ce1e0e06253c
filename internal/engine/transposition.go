package engine

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/junghyun397/mintaka-sub000/internal/board"
)

// ScoreKind indicates the type of bound a stored score represents.
type ScoreKind uint8

const (
	ScorePV ScoreKind = iota
	ScoreLowerBound
	ScoreUpperBound
	ScoreExact
)

// EndgameFlag records what the endgame solvers proved about a position.
type EndgameFlag uint8

const (
	EndgameUnknown EndgameFlag = iota
	EndgameCold                // explored to the stored depth, no win found
	EndgameWin
	EndgameLose
)

// TTFlag packs a score kind, an endgame flag and the PV bit into one byte.
type TTFlag uint8

// NewTTFlag builds a packed flag byte.
func NewTTFlag(kind ScoreKind, endgame EndgameFlag, isPV bool) TTFlag {
	flag := TTFlag(kind) | TTFlag(endgame)<<2
	if isPV {
		flag |= 1 << 4
	}
	return flag
}

// ScoreKind returns the bound type.
func (f TTFlag) ScoreKind() ScoreKind {
	return ScoreKind(f & 0b11)
}

// EndgameFlag returns the endgame verdict.
func (f TTFlag) EndgameFlag() EndgameFlag {
	return EndgameFlag(f >> 2 & 0b11)
}

// IsPV reports whether the entry lies on a principal variation.
func (f TTFlag) IsPV() bool {
	return f&(1<<4) != 0
}

// SetEndgameFlag replaces the endgame verdict.
func (f *TTFlag) SetEndgameFlag(endgame EndgameFlag) {
	*f = *f&^(0b11<<2) | TTFlag(endgame)<<2
}

// TTEntry is one 64-bit transposition record.
type TTEntry struct {
	BestMove board.Pos // NoPos when absent
	Depth    uint8
	Age      uint8
	Flag     TTFlag
	Eval     Score
	Score    Score
}

// EmptyTTEntry is the zero record of an unused slot.
var EmptyTTEntry = TTEntry{BestMove: board.NoPos, Flag: NewTTFlag(ScoreExact, EndgameUnknown, false)}

func (e TTEntry) pack() uint64 {
	return uint64(e.BestMove) |
		uint64(e.Depth)<<8 |
		uint64(e.Age)<<16 |
		uint64(e.Flag)<<24 |
		uint64(uint16(e.Eval))<<32 |
		uint64(uint16(e.Score))<<48
}

func unpackTTEntry(raw uint64) TTEntry {
	return TTEntry{
		BestMove: board.Pos(raw),
		Depth:    uint8(raw >> 8),
		Age:      uint8(raw >> 16),
		Flag:     TTFlag(raw >> 24),
		Eval:     Score(uint16(raw >> 32)),
		Score:    Score(uint16(raw >> 48)),
	}
}

const (
	ttKeySize    = 21
	ttKeyMask    = uint64(1)<<ttKeySize - 1
	ttBucketSize = 6
)

// TTBucket packs six entries into one 64-byte cache line: six 21-bit key
// fragments split across two words plus six 64-bit payloads. Key fragments
// and payloads are independent atomics; a racing writer may leave a stale
// payload behind a fresh key fragment, which readers tolerate because the
// solver re-validates anything it acts on.
type TTBucket struct {
	hiKeys  atomic.Uint64
	loKeys  atomic.Uint64
	entries [ttBucketSize]atomic.Uint64
}

// entryIndex derives the slot for a key fragment from its own bits.
func entryIndex(key21 uint64) int {
	return int(((key21 << 11) * ttBucketSize) >> 32)
}

func (b *TTBucket) clear() {
	b.hiKeys.Store(0)
	b.loKeys.Store(0)
	for i := range b.entries {
		b.entries[i].Store(0)
	}
}

func (b *TTBucket) usage() int {
	count := 0
	for i := range b.entries {
		if b.entries[i].Load() != 0 {
			count++
		}
	}
	return count
}

func (b *TTBucket) storeKey(entryIdx int, key21 uint64) {
	if entryIdx < 3 {
		bitOffset := ttKeySize * entryIdx
		keys := b.hiKeys.Load()
		b.hiKeys.Store(keys&^(ttKeyMask<<bitOffset) | key21<<bitOffset)
	} else {
		bitOffset := ttKeySize * (entryIdx - 3)
		keys := b.loKeys.Load()
		b.loKeys.Store(keys&^(ttKeyMask<<bitOffset) | key21<<bitOffset)
	}
}

func (b *TTBucket) probe(key21 uint64) (TTEntry, bool) {
	entryIdx := entryIndex(key21)
	var keys uint64
	var bitOffset int
	if entryIdx < 3 {
		keys = b.hiKeys.Load()
		bitOffset = ttKeySize * entryIdx
	} else {
		keys = b.loKeys.Load()
		bitOffset = ttKeySize * (entryIdx - 3)
	}
	if keys>>bitOffset&ttKeyMask != key21 {
		return TTEntry{}, false
	}
	return unpackTTEntry(b.entries[entryIdx].Load()), true
}

func (b *TTBucket) store(key21 uint64, entry TTEntry) {
	entryIdx := entryIndex(key21)
	b.storeKey(entryIdx, key21)
	b.entries[entryIdx].Store(entry.pack())
}

// TranspositionTable is the shared lock-free position cache. It is safe for
// concurrent use without locks or CAS loops.
type TranspositionTable struct {
	buckets []TTBucket
	age     atomic.Uint32
}

const ttBucketBytes = 64

// NewTranspositionTable creates a table of the given size in MiB, rounded
// down to whole buckets.
func NewTranspositionTable(sizeMiB int) *TranspositionTable {
	bucketCount := sizeMiB << 20 / ttBucketBytes
	if bucketCount < 1 {
		bucketCount = 1
	}
	return &TranspositionTable{buckets: make([]TTBucket, bucketCount)}
}

func (tt *TranspositionTable) bucketFor(key board.HashKey) *TTBucket {
	idx, _ := bits.Mul64(uint64(key), uint64(len(tt.buckets)))
	return &tt.buckets[idx]
}

// Probe looks up the entry stored for a position.
func (tt *TranspositionTable) Probe(key board.HashKey) (TTEntry, bool) {
	return tt.bucketFor(key).probe(uint64(key) & ttKeyMask)
}

// Store writes an entry for a position; it always succeeds.
func (tt *TranspositionTable) Store(key board.HashKey, entry TTEntry) {
	tt.bucketFor(key).store(uint64(key)&ttKeyMask, entry)
}

// Age returns the current generation counter.
func (tt *TranspositionTable) Age() uint8 {
	return uint8(tt.age.Load())
}

// IncreaseAge advances the generation counter for a new search.
func (tt *TranspositionTable) IncreaseAge() {
	tt.age.Add(1)
}

// Size returns the number of buckets.
func (tt *TranspositionTable) Size() int {
	return len(tt.buckets)
}

// Clear empties the table, splitting the work across the given number of
// goroutines for large tables.
func (tt *TranspositionTable) Clear(workers int) {
	tt.age.Store(0)

	if workers < 2 || len(tt.buckets) < 1<<19 {
		for i := range tt.buckets {
			tt.buckets[i].clear()
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (len(tt.buckets) + workers - 1) / workers
	for begin := 0; begin < len(tt.buckets); begin += chunk {
		end := min(begin+chunk, len(tt.buckets))
		wg.Add(1)
		go func(begin, end int) {
			defer wg.Done()
			for i := begin; i < end; i++ {
				tt.buckets[i].clear()
			}
		}(begin, end)
	}
	wg.Wait()
}

// UsagePermille samples the first buckets and returns the fraction of used
// slots in parts per thousand.
func (tt *TranspositionTable) UsagePermille() int {
	samples := min(len(tt.buckets), 1000)
	used := 0
	for i := 0; i < samples; i++ {
		used += tt.buckets[i].usage()
	}
	return used * 1000 / (samples * ttBucketSize)
}

// TotalEntries counts every used slot.
func (tt *TranspositionTable) TotalEntries() int {
	total := 0
	for i := range tt.buckets {
		total += tt.buckets[i].usage()
	}
	return total
}
