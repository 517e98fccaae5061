package engine

import (
	"slices"
	"sync"

	gm "chess-core/chessmg"
)

// KillerTable keeps, per ply, a small ring buffer of quiet moves that caused
// a beta cutoff. It is shared by all workers of an engine.
type KillerTable struct {
	mu    sync.RWMutex
	slots int
	moves [][]gm.Move
	next  []int
}

func NewKillerTable(plies, slots int) *KillerTable {
	slots = max(slots, 1)
	k := &KillerTable{
		slots: slots,
		moves: make([][]gm.Move, plies),
		next:  make([]int, plies),
	}
	for i := range k.moves {
		k.moves[i] = make([]gm.Move, slots)
	}
	return k
}

// StoreKillerMove records m at ply, overwriting the oldest killer there.
// A move already stored at that ply is not duplicated.
func (k *KillerTable) StoreKillerMove(ply int, m gm.Move) {
	if ply < 0 || ply >= len(k.moves) || m == gm.NullMove {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if slices.Contains(k.moves[ply], m) {
		return
	}
	k.moves[ply][k.next[ply]] = m
	k.next[ply] = (k.next[ply] + 1) % k.slots
}

func (k *KillerTable) IsKiller(ply int, m gm.Move) bool {
	if ply < 0 || ply >= len(k.moves) || m == gm.NullMove {
		return false
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	return slices.Contains(k.moves[ply], m)
}

// Killers appends the killers stored at ply to dst.
func (k *KillerTable) Killers(ply int, dst []gm.Move) []gm.Move {
	if ply < 0 || ply >= len(k.moves) {
		return dst
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, m := range k.moves[ply] {
		if m != gm.NullMove {
			dst = append(dst, m)
		}
	}
	return dst
}

// Clear the killer moves table.
func (k *KillerTable) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i := range k.moves {
		clear(k.moves[i])
		k.next[i] = 0
	}
}
