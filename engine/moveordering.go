package engine

import (
	"cmp"
	"slices"

	gm "chess-core/chessmg"
)

type ScoredMove struct {
	Move  gm.Move
	Score int32
}

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim Knight
	{0, 34, 33, 32, 31, 30, 0}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim Rook
	{0, 54, 53, 52, 51, 50, 0}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},      // victim King
}

// Ordering offsets. Quiet moves score their kind ordinal, which stays below
// killerOffset.
const (
	ttMoveOffset  int32 = 30000
	captureOffset int32 = 20000
	killerOffset  int32 = 10000
)

// ScoreMove gives the ordering score of a legal move m on b.
func ScoreMove(b *gm.Board, m, ttMove gm.Move, killers []gm.Move) int32 {
	if m == ttMove && m != gm.NullMove {
		return ttMoveOffset
	}
	kind := m.Kind()
	if kind.IsCapture() {
		d := b.Detail(m)
		return captureOffset + mvvLva[d.Captured.Type()][d.Moved.Type()]
	}
	if slices.Contains(killers, m) {
		return killerOffset
	}
	return int32(kind)
}

// OrderMoves scores moves into dst and sorts them best first. Equal scores
// keep generation order.
func OrderMoves(b *gm.Board, moves []gm.Move, ttMove gm.Move, killers []gm.Move, dst []ScoredMove) []ScoredMove {
	dst = dst[:0]
	for _, m := range moves {
		dst = append(dst, ScoredMove{Move: m, Score: ScoreMove(b, m, ttMove, killers)})
	}
	slices.SortStableFunc(dst, func(a, b ScoredMove) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return dst
}
