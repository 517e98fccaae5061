package chessmg

import (
	"errors"
	"fmt"
)

// Move encodes a chess move in a 16-bit value.
type Move uint16

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift = 0  // 6 bits
	moveToShift   = 6  // 6 bits
	moveKindShift = 12 // 4 bits
)

// NullMove is the zero move. a8a8 is never legal so it cannot collide.
const NullMove Move = 0

// MoveKind is the closed set of move categories.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	DoublePawnPush
	KingCastle
	QueenCastle
	Capture
	EnPassant
	PromoKnight
	PromoBishop
	PromoRook
	PromoQueen
	PromoCaptureKnight
	PromoCaptureBishop
	PromoCaptureRook
	PromoCaptureQueen
)

var moveKindNames = [...]string{
	Quiet:              "quiet",
	DoublePawnPush:     "double-push",
	KingCastle:         "O-O",
	QueenCastle:        "O-O-O",
	Capture:            "capture",
	EnPassant:          "en-passant",
	PromoKnight:        "promo-n",
	PromoBishop:        "promo-b",
	PromoRook:          "promo-r",
	PromoQueen:         "promo-q",
	PromoCaptureKnight: "promo-capture-n",
	PromoCaptureBishop: "promo-capture-b",
	PromoCaptureRook:   "promo-capture-r",
	PromoCaptureQueen:  "promo-capture-q",
}

func (k MoveKind) String() string {
	if int(k) < len(moveKindNames) {
		return moveKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsCapture is true for every kind that removes an enemy piece.
func (k MoveKind) IsCapture() bool {
	return k == Capture || k == EnPassant || k >= PromoCaptureKnight
}

func (k MoveKind) IsPromotion() bool { return k >= PromoKnight }

func (k MoveKind) IsCastle() bool { return k == KingCastle || k == QueenCastle }

// IsQuiet is true for moves that neither capture nor promote.
func (k MoveKind) IsQuiet() bool { return k <= QueenCastle }

// PromotionType returns the piece a promotion kind produces, or PieceTypeNone.
func (k MoveKind) PromotionType() PieceType {
	switch {
	case k >= PromoCaptureKnight:
		return Knight + PieceType(k-PromoCaptureKnight)
	case k >= PromoKnight:
		return Knight + PieceType(k-PromoKnight)
	}
	return PieceTypeNone
}

// promotionKind returns the kind promoting to pt, capturing or not.
func promotionKind(pt PieceType, capture bool) MoveKind {
	if capture {
		return PromoCaptureKnight + MoveKind(pt-Knight)
	}
	return PromoKnight + MoveKind(pt-Knight)
}

// NewMove constructs a Move value from components.
func NewMove(from, to Square, kind MoveKind) Move {
	return Move(uint16(from&0x3F) | uint16(to&0x3F)<<moveToShift | uint16(kind&0xF)<<moveKindShift)
}

// From returns the source square of the move.
func (m Move) From() Square { return Square((m >> moveFromShift) & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((m >> moveToShift) & 0x3F) }

func (m Move) Kind() MoveKind { return MoveKind(m >> moveKindShift) }

var promotionLetters = [7]string{Knight: "n", Bishop: "b", Rook: "r", Queen: "q"}

// String produces the coordinate form of the move, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if pt := m.Kind().PromotionType(); pt != PieceTypeNone {
		s += promotionLetters[pt]
	}
	return s
}

// DetailedMove is a move together with the pieces it involves.
type DetailedMove struct {
	Move     Move
	Moved    Piece
	Captured Piece
}

// Detail resolves the moved and captured pieces of m in the current
// position. m must be legal here.
func (b *Board) Detail(m Move) DetailedMove {
	d := DetailedMove{Move: m, Moved: b.squares[m.From()]}
	switch k := m.Kind(); {
	case k == EnPassant:
		d.Captured = NewPiece(b.side.Other(), Pawn)
	case k.IsCapture():
		d.Captured = b.squares[m.To()]
	}
	return d
}

// ErrIllegalMove is returned when move text does not match a legal move.
var ErrIllegalMove = errors.New("illegal move")

// ParseMove resolves coordinate text such as "e2e4" or "a7a8q" against the
// legal moves of the position.
func (b *Board) ParseMove(text string) (Move, error) {
	if len(text) != 4 && len(text) != 5 {
		return NullMove, fmt.Errorf("%w: %q", ErrIllegalMove, text)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	promo := ""
	if len(text) == 5 {
		promo = text[4:]
	}
	for _, m := range b.MovesFrom(from) {
		if m.To() == to && promotionLetters[m.Kind().PromotionType()] == promo {
			return m, nil
		}
	}
	return NullMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, text, b.ToPositionString())
}
