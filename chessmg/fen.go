package chessmg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every position parsing failure.
var ErrInvalidFEN = errors.New("invalid FEN")

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidFEN}, args...)...)
}

// pieceFromChar converts a FEN character to the corresponding Piece constant.
func pieceFromChar(ch rune) Piece {
	for p, letter := range pieceLetters {
		if letter != 0 && rune(letter) == ch {
			return Piece(p)
		}
	}
	return NoPiece
}

// ParseFEN builds a new board from a FEN string.
func ParseFEN(fen string) (*Board, error) {
	b := NewBoard()
	if err := b.ParsePosition(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// ParsePosition replaces the position with the one described by fen and
// drops the undo history. On error the board is left untouched.
func (b *Board) ParsePosition(fen string) error {
	scratch := Board{tables: b.tables}
	if scratch.tables == nil {
		scratch.tables = Attacks()
	}
	if err := scratch.parseFEN(fen); err != nil {
		return err
	}
	history, pst := b.history[:0], b.pst
	if history == nil {
		history = make([]undo, 0, maxHistory)
	}
	*b = scratch
	b.history = history
	b.SetPieceSquareTables(pst)
	return nil
}

func (b *Board) parseFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return fenError("want 4 to 6 fields, got %d", len(fields))
	}
	b.zobrist.reset()
	b.epFile = -1
	b.fullmove = 1

	// 1. Piece placement
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fenError("want 8 ranks, got %d", len(ranks))
	}
	for row, rankStr := range ranks {
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := pieceFromChar(ch)
			if p == NoPiece {
				return fenError("unrecognized piece character %q", ch)
			}
			if file >= 8 {
				return fenError("rank %d has more than 8 squares", 8-row)
			}
			if p.Type() == Pawn && (row == 0 || row == 7) {
				return fenError("pawn on rank %d", 8-row)
			}
			b.addPiece(MakeSquare(file, row), p)
			file++
		}
		if file != 8 {
			return fenError("rank %d does not have 8 columns", 8-row)
		}
	}
	for _, c := range [2]Color{White, Black} {
		if n := b.Pieces(c, King).Count(); n != 1 {
			return fenError("%s has %d kings", c, n)
		}
	}

	// 2. Side to move
	switch fields[1] {
	case "w":
		b.side = White
	case "b":
		b.side = Black
		b.zobrist.toggleSide()
	default:
		return fenError("side to move must be 'w' or 'b', got %q", fields[1])
	}

	// 3. Castling rights
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				b.castling |= CastlingWhiteK
			case 'Q':
				b.castling |= CastlingWhiteQ
			case 'k':
				b.castling |= CastlingBlackK
			case 'q':
				b.castling |= CastlingBlackQ
			default:
				return fenError("invalid castling rights character %q", ch)
			}
		}
	}
	b.castling &= b.consistentCastling()
	b.zobrist.feedCastling(b.castling)

	// 4. En passant target square
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return fenError("en passant: %v", err)
		}
		wantRow, pawnSq := 2, sq+8
		if b.side == Black {
			wantRow, pawnSq = 5, sq-8
		}
		if sq.Row() != wantRow {
			return fenError("en passant square %s impossible with %s to move", sq, b.side)
		}
		if b.squares[pawnSq] == NewPiece(b.side.Other(), Pawn) {
			b.epFile = int8(sq.File())
			b.zobrist.feedEnPassant(b.epFile)
		}
	}

	// 5. Halfmove clock, 6. Fullmove number
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return fenError("halfmove clock %q", fields[4])
		}
		b.halfmove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return fenError("fullmove number %q", fields[5])
		}
		b.fullmove = n
	}

	b.updateDerived()
	them := b.side.Other()
	if b.attackersTo(b.KingSquare(them), b.side, b.occupied) != 0 {
		return fenError("%s is in check but not to move", them)
	}
	return nil
}

// ToPositionString produces the FEN string representation of the board's current state.
func (b *Board) ToPositionString() string {
	var sb strings.Builder

	// 1. Piece placement
	for row := 0; row < 8; row++ {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[MakeSquare(file, row)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pieceLetters[p])
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	// 2. Side to move
	if b.side == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	// 3. Castling rights
	if b.castling == CastlingNone {
		sb.WriteByte('-')
	} else {
		for i, ch := range "KQkq" {
			if b.castling&(1<<i) != 0 {
				sb.WriteRune(ch)
			}
		}
	}

	// 4. En passant target square
	sb.WriteByte(' ')
	sb.WriteString(b.EnPassantSquare().String())

	fmt.Fprintf(&sb, " %d %d", b.halfmove, b.fullmove)
	return sb.String()
}
