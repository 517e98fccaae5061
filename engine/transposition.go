package engine

import (
	"sync/atomic"

	gm "chess-core/chessmg"
)

// Bound tells how a stored score relates to the true value of the node.
type Bound uint8

const (
	// AlphaBound: the node failed low, the score is an upper bound.
	AlphaBound Bound = iota
	// BetaBound: the node failed high, the score is a lower bound.
	BetaBound
	ExactBound
)

const bucketSize = 4

// Packed data word layout.
const (
	scoreShift = 16
	depthShift = 32
	boundShift = 40
	validBit   = uint64(1) << 42
)

type TTEntry struct {
	Move  gm.Move
	Score int16
	Depth int8
	Bound Bound
}

// ScoreAt converts a stored score back to one relative to the root, for a
// node at the given ply.
func (e TTEntry) ScoreAt(ply int) int32 {
	score := int32(e.Score)
	if score > MateThreshold {
		return score - int32(ply)
	}
	if score < -MateThreshold {
		return score + int32(ply)
	}
	return score
}

func (e TTEntry) pack() uint64 {
	return uint64(e.Move) |
		uint64(uint16(e.Score))<<scoreShift |
		uint64(uint8(e.Depth))<<depthShift |
		uint64(e.Bound&3)<<boundShift |
		validBit
}

func unpack(data uint64) TTEntry {
	return TTEntry{
		Move:  gm.Move(data),
		Score: int16(data >> scoreShift),
		Depth: int8(data >> depthShift),
		Bound: Bound(data>>boundShift) & 3,
	}
}

// ttSlot stores key^data next to data. A reader that sees halves of two
// different writes gets a key that does not match and treats it as a miss.
type ttSlot struct {
	key  atomic.Uint64
	data atomic.Uint64
}

func (s *ttSlot) load() (hash, data uint64, ok bool) {
	key := s.key.Load()
	data = s.data.Load()
	if data&validBit == 0 {
		return 0, 0, false
	}
	return key ^ data, data, true
}

func (s *ttSlot) store(hash, data uint64) {
	s.key.Store(hash ^ data)
	s.data.Store(data)
}

// TransTable is shared by all search workers without locks. Every lookup is
// best effort: a lost or torn write only costs a miss.
type TransTable struct {
	slots   []ttSlot
	buckets uint64
}

// NewTransTable allocates a table of roughly mb MiB, at least one bucket.
func NewTransTable(mb int) *TransTable {
	const slotBytes = 16
	buckets := uint64(max(mb, 0)) * 1024 * 1024 / (slotBytes * bucketSize)
	if buckets == 0 {
		buckets = 1
	}
	return &TransTable{
		slots:   make([]ttSlot, buckets*bucketSize),
		buckets: buckets,
	}
}

func (tt *TransTable) bucket(hash uint64) []ttSlot {
	base := (hash % tt.buckets) * bucketSize
	return tt.slots[base : base+bucketSize]
}

// Probe returns the entry stored for hash, if any.
func (tt *TransTable) Probe(hash uint64) (TTEntry, bool) {
	bucket := tt.bucket(hash)
	for i := range bucket {
		h, data, ok := bucket[i].load()
		if ok && h == hash {
			return unpack(data), true
		}
	}
	return TTEntry{}, false
}

// Store records a search result. ply is the distance from the root of the
// node that produced score, so mate scores are kept relative to the node.
//
// An entry for the same position is overwritten when the new search is at
// least as deep. Otherwise an empty slot is used, and failing that the
// shallowest slot of the bucket, but only by a strictly deeper entry.
func (tt *TransTable) Store(hash uint64, depth, ply int, move gm.Move, score int32, bound Bound) {
	if score > MateThreshold {
		score += int32(ply)
	} else if score < -MateThreshold {
		score -= int32(ply)
	}
	entry := TTEntry{
		Move:  move,
		Score: int16(clamp(score, -MaxScore, MaxScore)),
		Depth: int8(clamp(depth, 0, MaxPly)),
		Bound: bound,
	}

	bucket := tt.bucket(hash)
	empty, shallowest := -1, -1
	shallowestDepth := int8(127)
	for i := range bucket {
		h, data, ok := bucket[i].load()
		if !ok {
			if empty < 0 {
				empty = i
			}
			continue
		}
		old := unpack(data)
		if h == hash {
			if entry.Depth >= old.Depth {
				bucket[i].store(hash, entry.pack())
			}
			return
		}
		if old.Depth < shallowestDepth {
			shallowest, shallowestDepth = i, old.Depth
		}
	}

	switch {
	case empty >= 0:
		bucket[empty].store(hash, entry.pack())
	case shallowest >= 0 && entry.Depth > shallowestDepth:
		bucket[shallowest].store(hash, entry.pack())
	}
}

// Clear empties the table. It must not run concurrently with a search.
func (tt *TransTable) Clear() {
	for i := range tt.slots {
		tt.slots[i].key.Store(0)
		tt.slots[i].data.Store(0)
	}
}

// Hashfull estimates table usage in permille from the first thousand slots.
func (tt *TransTable) Hashfull() int {
	n := min(len(tt.slots), 1000)
	used := 0
	for i := 0; i < n; i++ {
		if tt.slots[i].data.Load()&validBit != 0 {
			used++
		}
	}
	return used * 1000 / n
}
