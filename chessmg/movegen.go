package chessmg

// maxMoves bounds the number of legal moves in any position (218 is the known maximum).
const maxMoves = 256

type genMode uint8

const (
	genAll genMode = iota
	genCaptures
)

// forward is the square offset of a single pawn push for each color.
var forward = [2]Square{White: -8, Black: 8}

// promotionRow is the row a pawn of each color promotes on.
var promotionRow = [2]int{White: 0, Black: 7}

// castleRookSquares gives the rook's from and to squares for a castle kind.
func castleRookSquares(c Color, k MoveKind) (Square, Square) {
	switch {
	case c == White && k == KingCastle:
		return SqH1, SqF1
	case c == White:
		return SqA1, SqD1
	case k == KingCastle:
		return SqH8, SqF8
	default:
		return SqA8, SqD8
	}
}

// attackersTo returns the pieces of color by attacking sq under occupancy occ.
func (b *Board) attackersTo(sq Square, by Color, occ Bitboard) Bitboard {
	t := b.tables
	them := b.colors[by]
	diag := b.types[Bishop] | b.types[Queen]
	orth := b.types[Rook] | b.types[Queen]
	return them & ((t.PawnAttackers[by][sq] & b.types[Pawn]) |
		(t.Knight[sq] & b.types[Knight]) |
		(t.King[sq] & b.types[King]) |
		(t.Bishop(sq, occ) & diag) |
		(t.Rook(sq, occ) & orth))
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.attackersTo(sq, by, b.occupied) != 0
}

// attacksBy returns every square attacked by color c with the given occupancy.
func (b *Board) attacksBy(c Color, occ Bitboard) Bitboard {
	t := b.tables
	var att Bitboard
	for pcs := b.Pieces(c, Pawn); pcs != 0; {
		att |= t.PawnAttacks[c][pcs.PopLSB()]
	}
	for pcs := b.Pieces(c, Knight); pcs != 0; {
		att |= t.Knight[pcs.PopLSB()]
	}
	for pcs := b.colors[c] & (b.types[Bishop] | b.types[Queen]); pcs != 0; {
		att |= t.Bishop(pcs.PopLSB(), occ)
	}
	for pcs := b.colors[c] & (b.types[Rook] | b.types[Queen]); pcs != 0; {
		att |= t.Rook(pcs.PopLSB(), occ)
	}
	if k := b.KingSquare(c); k != NoSquare {
		att |= t.King[k]
	}
	return att
}

// computePins finds the pieces of color c pinned to their king.
func (b *Board) computePins(c Color) PinsInfo {
	var pins PinsInfo
	king := b.KingSquare(c)
	if king == NoSquare {
		return pins
	}
	t := b.tables
	them := b.colors[c.Other()]
	own := b.colors[c]

	orth := them & (b.types[Rook] | b.types[Queen]) & t.rookEmpty[king]
	for orth != 0 {
		s := orth.PopLSB()
		between := t.Between[king][s] & b.occupied
		if between != 0 && !between.More() && between&own != 0 {
			pins.Orthogonal |= between
			pins.OrthogonalRays |= t.Between[king][s] | SquareBB(s)
		}
	}
	diag := them & (b.types[Bishop] | b.types[Queen]) & t.bishopEmpty[king]
	for diag != 0 {
		s := diag.PopLSB()
		between := t.Between[king][s] & b.occupied
		if between != 0 && !between.More() && between&own != 0 {
			pins.Diagonal |= between
			pins.DiagonalRays |= t.Between[king][s] | SquareBB(s)
		}
	}
	return pins
}

// updateDerived recomputes attacked squares, pins and checkers.
func (b *Board) updateDerived() {
	for _, c := range [2]Color{White, Black} {
		// The defending king is removed so it cannot shield squares behind itself.
		occ := b.occupied &^ b.Pieces(c.Other(), King)
		b.attacked[c] = b.attacksBy(c, occ)
		b.pins[c] = b.computePins(c)
	}
	b.checkers = 0
	if k := b.KingSquare(b.side); k != NoSquare {
		b.checkers = b.attackersTo(k, b.side.Other(), b.occupied)
	}
	b.gameEndKnown = false
}

// GenerateMoves returns all legal moves for the side to move.
func (b *Board) GenerateMoves() []Move { return b.GenerateMovesInto(make([]Move, 0, 64)) }

// GenerateMovesInto appends all legal moves to dst and returns the extended slice.
func (b *Board) GenerateMovesInto(dst []Move) []Move { return b.generate(dst, genAll) }

// GenerateCapturesInto appends the legal captures (en passant and capturing
// promotions included) to dst.
func (b *Board) GenerateCapturesInto(dst []Move) []Move { return b.generate(dst, genCaptures) }

// MovesFrom returns the legal moves of the piece on sq.
func (b *Board) MovesFrom(sq Square) []Move {
	var buf [maxMoves]Move
	all := b.GenerateMovesInto(buf[:0])
	var out []Move
	for _, m := range all {
		if m.From() == sq {
			out = append(out, m)
		}
	}
	return out
}

// HasLegalMoves reports whether the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	var buf [maxMoves]Move
	return len(b.GenerateMovesInto(buf[:0])) > 0
}

func appendTargets(dst []Move, from Square, targets Bitboard, kind MoveKind) []Move {
	for targets != 0 {
		dst = append(dst, NewMove(from, targets.PopLSB(), kind))
	}
	return dst
}

func appendPawnMoves(dst []Move, from Square, targets Bitboard, capture bool, promoRow int) []Move {
	for targets != 0 {
		to := targets.PopLSB()
		switch {
		case to.Row() == promoRow:
			for pt := Queen; pt >= Knight; pt-- {
				dst = append(dst, NewMove(from, to, promotionKind(pt, capture)))
			}
		case capture:
			dst = append(dst, NewMove(from, to, Capture))
		case to-from == 16 || from-to == 16:
			dst = append(dst, NewMove(from, to, DoublePawnPush))
		default:
			dst = append(dst, NewMove(from, to, Quiet))
		}
	}
	return dst
}

// generate is the legal move generator. Moves are only ever produced if
// they are legal, no make/unmake filtering is involved.
func (b *Board) generate(dst []Move, mode genMode) []Move {
	t := b.tables
	us, them := b.side, b.side.Other()
	own, enemy, occ := b.colors[us], b.colors[them], b.occupied
	king := b.KingSquare(us)
	if king == NoSquare {
		return dst
	}

	// King moves never depend on the check masks.
	kingTargets := t.King[king] &^ own &^ b.attacked[them]
	dst = appendTargets(dst, king, kingTargets&enemy, Capture)
	if mode == genAll {
		dst = appendTargets(dst, king, kingTargets&^occ, Quiet)
	}

	if b.checkers.More() {
		// Double check: only the king may move.
		return dst
	}

	pushMask, captureMask := FullBB, FullBB
	if b.checkers != 0 {
		checker := b.checkers.LSB()
		captureMask = b.checkers
		pushMask = 0
		if pt := b.squares[checker].Type(); pt == Bishop || pt == Rook || pt == Queen {
			pushMask = t.Between[king][checker]
		}
	} else if mode == genAll {
		dst = b.appendCastles(dst, us)
	}

	quietMask := pushMask &^ occ
	if mode == genCaptures {
		quietMask = 0
	}
	captureTargets := enemy & captureMask
	pins := b.pins[us]
	pinned := pins.Pinned()

	// A pinned knight can never stay on its pin ray.
	for pcs := b.Pieces(us, Knight) &^ pinned; pcs != 0; {
		from := pcs.PopLSB()
		att := t.Knight[from]
		dst = appendTargets(dst, from, att&captureTargets, Capture)
		dst = appendTargets(dst, from, att&quietMask, Quiet)
	}

	// Diagonal movers: an orthogonally pinned piece has no diagonal moves.
	for pcs := own & (b.types[Bishop] | b.types[Queen]) &^ pins.Orthogonal; pcs != 0; {
		from := pcs.PopLSB()
		att := t.Bishop(from, occ)
		if pins.Diagonal.Has(from) {
			att &= pins.DiagonalRays
		}
		dst = appendTargets(dst, from, att&captureTargets, Capture)
		dst = appendTargets(dst, from, att&quietMask, Quiet)
	}

	// Orthogonal movers: a diagonally pinned piece has no orthogonal moves.
	for pcs := own & (b.types[Rook] | b.types[Queen]) &^ pins.Diagonal; pcs != 0; {
		from := pcs.PopLSB()
		att := t.Rook(from, occ)
		if pins.Orthogonal.Has(from) {
			att &= pins.OrthogonalRays
		}
		dst = appendTargets(dst, from, att&captureTargets, Capture)
		dst = appendTargets(dst, from, att&quietMask, Quiet)
	}

	return b.appendPawnMoves(dst, mode, pushMask, captureMask)
}

func (b *Board) appendPawnMoves(dst []Move, mode genMode, pushMask, captureMask Bitboard) []Move {
	t := b.tables
	us, them := b.side, b.side.Other()
	enemy, occ := b.colors[them], b.occupied
	pins := b.pins[us]
	promoRow := promotionRow[us]
	fwd := forward[us]

	epTarget, epVictim := NoSquare, NoSquare
	if b.epFile >= 0 {
		epTarget = b.EnPassantSquare()
		epVictim = epTarget - fwd
	}

	for pawns := b.Pieces(us, Pawn); pawns != 0; {
		from := pawns.PopLSB()
		diagPinned := pins.Diagonal.Has(from)
		orthPinned := pins.Orthogonal.Has(from)

		if !diagPinned {
			var pushes Bitboard
			if !occ.Has(from + fwd) {
				pushes = t.PawnPushes[us][from] &^ occ
			}
			pushes &= pushMask
			if orthPinned {
				pushes &= pins.OrthogonalRays
			}
			if mode == genCaptures {
				// Quiet promotions are not captures.
				pushes = 0
			}
			dst = appendPawnMoves(dst, from, pushes, false, promoRow)
		}

		if orthPinned {
			continue
		}
		att := t.PawnAttacks[us][from]
		if diagPinned {
			att &= pins.DiagonalRays
		}
		dst = appendPawnMoves(dst, from, att&enemy&captureMask, true, promoRow)

		if epTarget != NoSquare && att.Has(epTarget) &&
			(pushMask.Has(epTarget) || captureMask.Has(epVictim)) &&
			b.enPassantKeepsKingSafe(from, epTarget, epVictim) {
			dst = append(dst, NewMove(from, epTarget, EnPassant))
		}
	}
	return dst
}

// enPassantKeepsKingSafe removes both pawns from the board and checks that
// no enemy slider then sees the king. This catches the case of two pawns
// shielding the king on the same rank, which pin detection cannot see.
func (b *Board) enPassantKeepsKingSafe(from, to, victim Square) bool {
	t := b.tables
	us, them := b.side, b.side.Other()
	king := b.KingSquare(us)
	occ := (b.occupied &^ SquareBB(from) &^ SquareBB(victim)) | SquareBB(to)
	enemy := b.colors[them]
	if t.Rook(king, occ)&enemy&(b.types[Rook]|b.types[Queen]) != 0 {
		return false
	}
	return t.Bishop(king, occ)&enemy&(b.types[Bishop]|b.types[Queen]) == 0
}

func (b *Board) appendCastles(dst []Move, us Color) []Move {
	enemyAtt := b.attacked[us.Other()]
	occ := b.occupied
	if us == White {
		if b.castling&CastlingWhiteK != 0 &&
			occ&(SquareBB(SqF1)|SquareBB(SqG1)) == 0 &&
			enemyAtt&(SquareBB(SqE1)|SquareBB(SqF1)|SquareBB(SqG1)) == 0 {
			dst = append(dst, NewMove(SqE1, SqG1, KingCastle))
		}
		if b.castling&CastlingWhiteQ != 0 &&
			occ&(SquareBB(SqD1)|SquareBB(SqC1)|SquareBB(SqC1-1)) == 0 &&
			enemyAtt&(SquareBB(SqE1)|SquareBB(SqD1)|SquareBB(SqC1)) == 0 {
			dst = append(dst, NewMove(SqE1, SqC1, QueenCastle))
		}
		return dst
	}
	if b.castling&CastlingBlackK != 0 &&
		occ&(SquareBB(SqF8)|SquareBB(SqG8)) == 0 &&
		enemyAtt&(SquareBB(SqE8)|SquareBB(SqF8)|SquareBB(SqG8)) == 0 {
		dst = append(dst, NewMove(SqE8, SqG8, KingCastle))
	}
	if b.castling&CastlingBlackQ != 0 &&
		occ&(SquareBB(SqD8)|SquareBB(SqC8)|SquareBB(SqC8-1)) == 0 &&
		enemyAtt&(SquareBB(SqE8)|SquareBB(SqD8)|SquareBB(SqC8)) == 0 {
		dst = append(dst, NewMove(SqE8, SqC8, QueenCastle))
	}
	return dst
}
