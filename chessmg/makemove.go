package chessmg

// undo is everything MakeMove overwrites that cannot be recovered from the
// move itself.
type undo struct {
	move     Move
	moved    Piece
	captured Piece
	castling CastlingRights
	epFile   int8
	halfmove int
	zobrist  Zobrist
	attacked [2]Bitboard
	pins     [2]PinsInfo
	checkers Bitboard
}

// castleRevoke[sq] holds the rights lost when a piece moves from or to sq.
var castleRevoke [64]CastlingRights

func init() {
	castleRevoke[SqE1] = CastlingWhiteK | CastlingWhiteQ
	castleRevoke[SqH1] = CastlingWhiteK
	castleRevoke[SqA1] = CastlingWhiteQ
	castleRevoke[SqE8] = CastlingBlackK | CastlingBlackQ
	castleRevoke[SqH8] = CastlingBlackK
	castleRevoke[SqA8] = CastlingBlackQ
}

// MakeMove applies m, which must come from the move generator for this
// position, and pushes an undo record.
func (b *Board) MakeMove(m Move) {
	from, to, kind := m.From(), m.To(), m.Kind()
	us := b.side
	moved := b.squares[from]

	u := undo{
		move:     m,
		moved:    moved,
		castling: b.castling,
		epFile:   b.epFile,
		halfmove: b.halfmove,
		zobrist:  b.zobrist,
		attacked: b.attacked,
		pins:     b.pins,
		checkers: b.checkers,
	}

	switch {
	case kind == EnPassant:
		u.captured = b.removePiece(to - forward[us])
	case kind.IsCapture():
		u.captured = b.removePiece(to)
	}
	b.history = append(b.history, u)

	b.removePiece(from)
	b.addPiece(to, placedPiece(moved, kind))
	if kind.IsCastle() {
		rookFrom, rookTo := castleRookSquares(us, kind)
		b.addPiece(rookTo, b.removePiece(rookFrom))
	}

	b.castling &^= castleRevoke[from] | castleRevoke[to]
	b.epFile = -1
	if kind == DoublePawnPush {
		b.epFile = int8(from.File())
	}
	if moved.Type() == Pawn || u.captured != NoPiece {
		b.halfmove = 0
	} else {
		b.halfmove++
	}
	if us == Black {
		b.fullmove++
	}
	b.side = us.Other()

	b.zobrist.toggleSide()
	b.zobrist.feedCastling(b.castling)
	b.zobrist.feedEnPassant(b.epFile)
	b.updateDerived()
}

// placedPiece is the piece that lands on the destination square.
func placedPiece(moved Piece, kind MoveKind) Piece {
	if kind.IsPromotion() {
		return NewPiece(moved.Color(), kind.PromotionType())
	}
	return moved
}

// RevertMove pops the last undo record and restores the exact prior state.
// Derived bitboards are restored from the record rather than recomputed.
func (b *Board) RevertMove() {
	n := len(b.history) - 1
	u := &b.history[n]
	from, to, kind := u.move.From(), u.move.To(), u.move.Kind()
	us := b.side.Other()

	if kind.IsCastle() {
		rookFrom, rookTo := castleRookSquares(us, kind)
		b.addPiece(rookFrom, b.removePiece(rookTo))
	}
	b.removePiece(to)
	b.addPiece(from, u.moved)
	switch {
	case kind == EnPassant:
		b.addPiece(to-forward[us], u.captured)
	case u.captured != NoPiece:
		b.addPiece(to, u.captured)
	}

	b.side = us
	if us == Black {
		b.fullmove--
	}
	b.castling = u.castling
	b.epFile = u.epFile
	b.halfmove = u.halfmove
	b.zobrist = u.zobrist
	b.attacked = u.attacked
	b.pins = u.pins
	b.checkers = u.checkers
	b.gameEndKnown = false
	b.history = b.history[:n]
}
