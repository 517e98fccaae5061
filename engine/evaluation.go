package engine

import gm "chess-core/chessmg"

// Game phase weights for interpolation
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2
)

var fileMasks [8]gm.Bitboard
var adjacentFiles [8]gm.Bitboard

// passedMasks[c][sq] covers the squares ahead of sq, on its file and the
// neighbouring ones, that an enemy pawn must occupy to stop a pawn of color c.
var passedMasks [2][64]gm.Bitboard

func init() {
	for sq := gm.Square(0); sq < 64; sq++ {
		fileMasks[sq.File()].Set(sq)
	}
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= fileMasks[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= fileMasks[f+1]
		}
	}
	for sq := gm.Square(0); sq < 64; sq++ {
		span := fileMasks[sq.File()] | adjacentFiles[sq.File()]
		for other := gm.Square(0); other < 64; other++ {
			if !span.Has(other) {
				continue
			}
			if other.Row() < sq.Row() {
				passedMasks[gm.White][sq].Set(other)
			}
			if other.Row() > sq.Row() {
				passedMasks[gm.Black][sq].Set(other)
			}
		}
	}
}

// relativeRank counts ranks from the color's own back rank, 0..7.
func relativeRank(c gm.Color, sq gm.Square) int {
	if c == gm.White {
		return 7 - sq.Row()
	}
	return sq.Row()
}

// Evaluator is the static evaluation. It is immutable after construction
// and safe to share between search workers.
type Evaluator struct {
	w   Weights
	pst *gm.PieceSquareTables
}

func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{
		w:   w,
		pst: &gm.PieceSquareTables{MG: w.PSTMG, EG: w.PSTEG},
	}
}

func (e *Evaluator) Weights() Weights { return e.w }

// PieceSquareTables returns the tables a board should install so that
// Evaluate can read its incremental totals.
func (e *Evaluator) PieceSquareTables() *gm.PieceSquareTables { return e.pst }

// Evaluate scores b from the point of view of the side to move.
func (e *Evaluator) Evaluate(b *gm.Board) int32 {
	return e.EvaluateFrom(b, b.SideToMove())
}

// EvaluateFrom scores b from the point of view of side. Every term is
// accumulated White positive and flipped once at the end.
func (e *Evaluator) EvaluateFrom(b *gm.Board, side gm.Color) int32 {
	w := &e.w
	var mg, eg int32
	if b.PieceSquareTables() == e.pst {
		mg, eg = b.PSQT()
	} else {
		mg, eg = e.pstFromScratch(b)
	}

	missingPawns := int32(16 - b.TypeBB(gm.Pawn).Count())
	if missingPawns < 0 {
		missingPawns = 0
	}

	for _, c := range [2]gm.Color{gm.White, gm.Black} {
		var cmg, ceg int32
		for pt := gm.Pawn; pt <= gm.Queen; pt++ {
			n := int32(b.Pieces(c, pt).Count())
			cmg += n * w.PieceValueMG[pt]
			ceg += n * w.PieceValueEG[pt]
		}

		// Knights lose value and bishops gain it as the board opens up.
		minor := int32(b.Pieces(c, gm.Bishop).Count())*w.BishopPawnAdjust*missingPawns -
			int32(b.Pieces(c, gm.Knight).Count())*w.KnightPawnAdjust*missingPawns
		cmg += minor
		ceg += minor

		pmg, peg := e.pawnStructure(b, c)
		cmg += pmg
		ceg += peg

		rooks := e.rookFiles(b, c)
		cmg += rooks
		ceg += rooks

		penalty := e.threats(b, c) + e.pinned(b, c)
		cmg -= penalty
		ceg -= penalty

		if c == gm.White {
			mg += cmg
			eg += ceg
		} else {
			mg -= cmg
			eg -= ceg
		}
	}

	phase := gamePhase(b)
	score := (mg*phase + eg*(TotalPhase-phase)) / TotalPhase

	if b.InCheck() {
		penalty := w.InCheck
		if b.Checkers().More() {
			penalty += w.DoubleCheck
		}
		if b.SideToMove() == gm.White {
			score -= penalty
		} else {
			score += penalty
		}
	}

	if side == gm.Black {
		return -score
	}
	return score
}

// gamePhase is TotalPhase with all minor and major pieces on the board and 0 with none.
func gamePhase(b *gm.Board) int32 {
	phase := int32(b.TypeBB(gm.Knight).Count()*KnightPhase +
		b.TypeBB(gm.Bishop).Count()*BishopPhase +
		b.TypeBB(gm.Rook).Count()*RookPhase +
		b.TypeBB(gm.Queen).Count()*QueenPhase)
	return min(phase, TotalPhase)
}

func (e *Evaluator) pstFromScratch(b *gm.Board) (mg, eg int32) {
	for occ := b.Occupied(); occ != 0; {
		sq := occ.PopLSB()
		p := b.PieceAt(sq)
		pt := p.Type()
		if p.Color() == gm.White {
			mg += e.pst.MG[pt][sq]
			eg += e.pst.EG[pt][sq]
		} else {
			mg -= e.pst.MG[pt][sq^56]
			eg -= e.pst.EG[pt][sq^56]
		}
	}
	return mg, eg
}

func (e *Evaluator) pawnStructure(b *gm.Board, c gm.Color) (mg, eg int32) {
	own := b.Pieces(c, gm.Pawn)
	enemy := b.Pieces(c.Other(), gm.Pawn)
	for pcs := own; pcs != 0; {
		sq := pcs.PopLSB()
		if own&adjacentFiles[sq.File()] == 0 {
			mg -= e.w.IsolatedPawnMG
			eg -= e.w.IsolatedPawnEG
		}
		if enemy&passedMasks[c][sq] == 0 {
			r := relativeRank(c, sq)
			mg += e.w.PassedPawnMG[r]
			eg += e.w.PassedPawnEG[r]
		}
	}
	return mg, eg
}

func (e *Evaluator) rookFiles(b *gm.Board, c gm.Color) int32 {
	var bonus int32
	pawns := b.TypeBB(gm.Pawn)
	own := b.Pieces(c, gm.Pawn)
	for pcs := b.Pieces(c, gm.Rook); pcs != 0; {
		file := fileMasks[pcs.PopLSB().File()]
		switch {
		case pawns&file == 0:
			bonus += e.w.RookOpenFile
		case own&file == 0:
			bonus += e.w.RookSemiOpenFile
		}
	}
	return bonus
}

// threats charges c for its pieces standing on squares the opponent attacks,
// and again for those no own piece defends.
func (e *Evaluator) threats(b *gm.Board, c gm.Color) int32 {
	attacked := b.Attacked(c.Other())
	defended := b.Attacked(c)
	var penalty int32
	for pt := gm.Pawn; pt <= gm.Queen; pt++ {
		hit := b.Pieces(c, pt) & attacked
		if hit == 0 {
			continue
		}
		penalty += int32(hit.Count()) * e.w.AttackedPiece[pt]
		penalty += int32((hit &^ defended).Count()) * e.w.HangingPiece[pt]
	}
	return penalty
}

func (e *Evaluator) pinned(b *gm.Board, c gm.Color) int32 {
	pinned := b.Pins(c).Pinned()
	if pinned == 0 {
		return 0
	}
	var penalty int32
	for pt := gm.Pawn; pt <= gm.Queen; pt++ {
		penalty += int32((b.Pieces(c, pt) & pinned).Count()) * e.w.PinnedPiece[pt]
	}
	return penalty
}
