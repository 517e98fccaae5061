package chessmg

import "fmt"

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece constants and types for pieces and colors
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = Piece(Pawn) | 8
	BlackKnight Piece = Piece(Knight) | 8
	BlackBishop Piece = Piece(Bishop) | 8
	BlackRook   Piece = Piece(Rook) | 8
	BlackQueen  Piece = Piece(Queen) | 8
	BlackKing   Piece = Piece(King) | 8
)

// NewPiece combines a colorless type with a side to produce a concrete Piece.
func NewPiece(c Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	return Piece(pt) | Piece(c)<<3
}

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color { return Color(p >> 3) }

func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	return string(pieceLetters[p])
}

// pieceLetters maps a Piece to its FEN letter.
var pieceLetters = [16]byte{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B', WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b', BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

// Castling rights bit flags
type CastlingRights uint8

const (
	CastlingWhiteK CastlingRights = 1 << iota
	CastlingWhiteQ
	CastlingBlackK
	CastlingBlackQ

	CastlingNone CastlingRights = 0
	CastlingAll                 = CastlingWhiteK | CastlingWhiteQ | CastlingBlackK | CastlingBlackQ
)

// Square represents a board position (0-63), a8 = 0, h1 = 63.
type Square int

const NoSquare Square = -1

// Squares used by castling.
const (
	SqA8 Square = 0
	SqC8 Square = 2
	SqD8 Square = 3
	SqE8 Square = 4
	SqF8 Square = 5
	SqG8 Square = 6
	SqH8 Square = 7
	SqA1 Square = 56
	SqC1 Square = 58
	SqD1 Square = 59
	SqE1 Square = 60
	SqF1 Square = 61
	SqG1 Square = 62
	SqH1 Square = 63
)

// MakeSquare builds a square from a file (0 = a) and a row (0 = rank 8).
func MakeSquare(file, row int) Square { return Square(row*8 + file) }

func (s Square) File() int { return int(s) & 7 }

// Row counts from the rank 8 side: row 0 is rank 8.
func (s Square) Row() int { return int(s) >> 3 }

// Rank returns the conventional rank number 1..8.
func (s Square) Rank() int { return 8 - s.Row() }

func (s Square) String() string {
	if s < 0 || s > 63 {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('0' + s.Rank())})
}

// ParseSquare converts "e4" style text into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return MakeSquare(int(s[0]-'a'), int('8'-s[1])), nil
}

// GameEndState classifies a position as finished or not.
type GameEndState uint8

const (
	Ongoing GameEndState = iota
	Draw
	WhiteWin
	BlackWin
)

func (g GameEndState) String() string {
	switch g {
	case Draw:
		return "draw"
	case WhiteWin:
		return "white wins"
	case BlackWin:
		return "black wins"
	}
	return "ongoing"
}

// PinsInfo describes the pieces of one side pinned to their own king.
type PinsInfo struct {
	Diagonal   Bitboard // pieces pinned along a diagonal
	Orthogonal Bitboard // pieces pinned along a rank or file
	// Squares a diagonally (orthogonally) pinned piece may still move to:
	// the pin rays up to and including the pinning piece.
	DiagonalRays   Bitboard
	OrthogonalRays Bitboard
}

// Pinned returns every pinned piece regardless of axis.
func (p PinsInfo) Pinned() Bitboard { return p.Diagonal | p.Orthogonal }

// PieceSquareTables hold midgame and endgame bonuses per piece type and
// square from White's point of view, a8 first. Black reads the mirrored square.
type PieceSquareTables struct {
	MG [7][64]int32
	EG [7][64]int32
}

const maxHistory = 1024

// Board represents the chess board state, including piece placement and game state.
type Board struct {
	tables *AttackTables

	colors   [2]Bitboard
	types    [7]Bitboard
	squares  [64]Piece
	occupied Bitboard

	side     Color
	castling CastlingRights
	epFile   int8
	halfmove int
	fullmove int

	zobrist Zobrist

	// Derived state, recomputed after every mutation.
	attacked [2]Bitboard // squares attacked by each color, ignoring the defending king
	pins     [2]PinsInfo
	checkers Bitboard // pieces giving check to the side to move

	pst   *PieceSquareTables
	pstMG int32
	pstEG int32

	gameEnd      GameEndState
	gameEndKnown bool

	history []undo
}

// NewBoard returns an empty board with White to move.
func NewBoard() *Board {
	b := &Board{
		tables:  Attacks(),
		history: make([]undo, 0, maxHistory),
	}
	b.Clear()
	return b
}

// Clear removes every piece and resets the game state.
func (b *Board) Clear() {
	b.colors = [2]Bitboard{}
	b.types = [7]Bitboard{}
	b.squares = [64]Piece{}
	b.occupied = 0
	b.side = White
	b.castling = CastlingNone
	b.epFile = -1
	b.halfmove = 0
	b.fullmove = 1
	b.zobrist.reset()
	b.pstMG, b.pstEG = 0, 0
	b.history = b.history[:0]
	b.updateDerived()
}

// Reset sets up the standard starting position.
func (b *Board) Reset() {
	if err := b.ParsePosition(FENStartPos); err != nil {
		panic(err)
	}
}

// addPiece places a piece on an empty square and updates bitboards, occupancy, zobrist and PST totals.
func (b *Board) addPiece(sq Square, p Piece) {
	bit := SquareBB(sq)
	b.squares[sq] = p
	b.colors[p.Color()] |= bit
	b.types[p.Type()] |= bit
	b.occupied |= bit
	b.zobrist.togglePiece(p, sq)
	if b.pst != nil {
		mg, eg := b.pstValue(p, sq)
		b.pstMG += mg
		b.pstEG += eg
	}
}

// removePiece removes a piece from a square and updates bitboards, occupancy, zobrist and PST totals.
func (b *Board) removePiece(sq Square) Piece {
	p := b.squares[sq]
	if p == NoPiece {
		return NoPiece
	}
	mask := ^SquareBB(sq)
	b.squares[sq] = NoPiece
	b.colors[p.Color()] &= mask
	b.types[p.Type()] &= mask
	b.occupied &= mask
	b.zobrist.togglePiece(p, sq)
	if b.pst != nil {
		mg, eg := b.pstValue(p, sq)
		b.pstMG -= mg
		b.pstEG -= eg
	}
	return p
}

// pstValue is the signed (White positive) table contribution of p on sq.
func (b *Board) pstValue(p Piece, sq Square) (int32, int32) {
	if p.Color() == White {
		return b.pst.MG[p.Type()][sq], b.pst.EG[p.Type()][sq]
	}
	m := sq ^ 56
	return -b.pst.MG[p.Type()][m], -b.pst.EG[p.Type()][m]
}

// SetPieceSquareTables installs the tables whose totals the board keeps up
// to date as pieces move. Passing nil disables the bookkeeping.
func (b *Board) SetPieceSquareTables(t *PieceSquareTables) {
	b.pst = t
	b.pstMG, b.pstEG = 0, 0
	if t == nil {
		return
	}
	for occ := b.occupied; occ != 0; {
		sq := occ.PopLSB()
		mg, eg := b.pstValue(b.squares[sq], sq)
		b.pstMG += mg
		b.pstEG += eg
	}
}

// PieceSquareTables returns the installed tables, or nil.
func (b *Board) PieceSquareTables() *PieceSquareTables { return b.pst }

// PSQT returns the midgame and endgame piece-square totals, White positive.
func (b *Board) PSQT() (mg, eg int32) { return b.pstMG, b.pstEG }

// SetPieceAt puts p on sq, replacing whatever was there. The undo history is
// dropped since earlier moves no longer describe this position.
func (b *Board) SetPieceAt(sq Square, p Piece) {
	b.removePiece(sq)
	if p != NoPiece {
		b.addPiece(sq, p)
	}
	b.edited()
}

// RemovePieceAt empties sq and returns the piece that stood there.
func (b *Board) RemovePieceAt(sq Square) Piece {
	p := b.removePiece(sq)
	b.edited()
	return p
}

func (b *Board) edited() {
	b.history = b.history[:0]
	b.castling &= b.consistentCastling()
	b.zobrist.feedCastling(b.castling)
	if !b.consistentEnPassant() {
		b.epFile = -1
		b.zobrist.feedEnPassant(-1)
	}
	b.updateDerived()
}

// consistentEnPassant reports whether the en-passant file still describes a
// double push: the pushed pawn on its square with the squares it passed
// over empty.
func (b *Board) consistentEnPassant() bool {
	target := b.EnPassantSquare()
	if target == NoSquare {
		return true
	}
	victim, origin, pawn := target+8, target-8, BlackPawn
	if b.side == Black {
		victim, origin, pawn = target-8, target+8, WhitePawn
	}
	return b.squares[victim] == pawn && b.squares[target] == NoPiece && b.squares[origin] == NoPiece
}

// consistentCastling returns the rights whose king and rook still stand on
// their home squares.
func (b *Board) consistentCastling() CastlingRights {
	var cr CastlingRights
	if b.squares[SqE1] == WhiteKing {
		if b.squares[SqH1] == WhiteRook {
			cr |= CastlingWhiteK
		}
		if b.squares[SqA1] == WhiteRook {
			cr |= CastlingWhiteQ
		}
	}
	if b.squares[SqE8] == BlackKing {
		if b.squares[SqH8] == BlackRook {
			cr |= CastlingBlackK
		}
		if b.squares[SqA8] == BlackRook {
			cr |= CastlingBlackQ
		}
	}
	return cr
}

func (b *Board) PieceAt(sq Square) Piece { return b.squares[sq] }

func (b *Board) SideToMove() Color { return b.side }

func (b *Board) CastlingRights() CastlingRights { return b.castling }

// EnPassantFile returns the file of the pawn that just double pushed, or -1.
func (b *Board) EnPassantFile() int { return int(b.epFile) }

// EnPassantSquare returns the en-passant target square, or NoSquare.
func (b *Board) EnPassantSquare() Square {
	if b.epFile < 0 {
		return NoSquare
	}
	if b.side == White {
		return MakeSquare(int(b.epFile), 2)
	}
	return MakeSquare(int(b.epFile), 5)
}

func (b *Board) HalfmoveClock() int { return b.halfmove }

func (b *Board) FullmoveNumber() int { return b.fullmove }

func (b *Board) Hash() uint64 { return b.zobrist.Hash() }

func (b *Board) Occupied() Bitboard { return b.occupied }

func (b *Board) ColorBB(c Color) Bitboard { return b.colors[c] }

func (b *Board) TypeBB(pt PieceType) Bitboard { return b.types[pt] }

// Pieces returns the squares holding pieces of type pt and color c.
func (b *Board) Pieces(c Color, pt PieceType) Bitboard { return b.types[pt] & b.colors[c] }

func (b *Board) KingSquare(c Color) Square { return b.Pieces(c, King).LSB() }

// Attacked returns the squares attacked by c, computed as if the opposing
// king were absent.
func (b *Board) Attacked(c Color) Bitboard { return b.attacked[c] }

func (b *Board) Pins(c Color) PinsInfo { return b.pins[c] }

// Checkers returns the pieces giving check to the side to move.
func (b *Board) Checkers() Bitboard { return b.checkers }

func (b *Board) InCheck() bool { return b.checkers != 0 }

// Tables exposes the attack tables the board was built with.
func (b *Board) Tables() *AttackTables { return b.tables }

// GameEndState reports whether the game is over. The result is cached until
// the next mutation.
func (b *Board) GameEndState() GameEndState {
	if b.gameEndKnown {
		return b.gameEnd
	}
	var buf [maxMoves]Move
	state := Ongoing
	if len(b.GenerateMovesInto(buf[:0])) == 0 {
		switch {
		case !b.InCheck():
			state = Draw
		case b.side == White:
			state = BlackWin
		default:
			state = WhiteWin
		}
	} else if b.halfmove >= 100 || b.repetitions() >= 2 {
		state = Draw
	}
	b.gameEnd, b.gameEndKnown = state, true
	return state
}

// IsRepetition reports whether the current position already occurred since
// the last capture or pawn move.
func (b *Board) IsRepetition() bool {
	return b.repetitions() >= 1
}

func (b *Board) repetitions() int {
	hash := b.zobrist.Hash()
	count := 0
	n := len(b.history)
	// Only positions with the same side to move can match, and nothing
	// before the last irreversible move can.
	for i := n - 2; i >= 0 && i >= n-b.halfmove; i -= 2 {
		if b.history[i].zobrist.Hash() == hash {
			count++
		}
	}
	return count
}

// Validate checks internal consistency between the square cache, the
// bitboards, the hash and the PST totals.
func (b *Board) Validate() error {
	var colors [2]Bitboard
	var types [7]Bitboard
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p == NoPiece {
			continue
		}
		if p.Type() < Pawn || p.Type() > King || p&^15 != 0 {
			return fmt.Errorf("bad piece %d on %s", p, sq)
		}
		colors[p.Color()].Set(sq)
		types[p.Type()].Set(sq)
	}
	if colors != b.colors || types != b.types {
		return fmt.Errorf("bitboards disagree with square cache")
	}
	if b.occupied != colors[White]|colors[Black] {
		return fmt.Errorf("occupancy disagrees with color bitboards")
	}
	if h := b.computeHash(); h != b.zobrist.Hash() {
		return fmt.Errorf("hash %#x, recomputed %#x", b.zobrist.Hash(), h)
	}
	if b.pst != nil {
		mg, eg := b.pstMG, b.pstEG
		b.SetPieceSquareTables(b.pst)
		if mg != b.pstMG || eg != b.pstEG {
			return fmt.Errorf("pst totals %d/%d, recomputed %d/%d", mg, eg, b.pstMG, b.pstEG)
		}
	}
	return nil
}

// String renders the board as an 8x8 grid followed by the FEN.
func (b *Board) String() string {
	buf := make([]byte, 0, 200)
	for row := 0; row < 8; row++ {
		for file := 0; file < 8; file++ {
			buf = append(buf, b.squares[MakeSquare(file, row)].String()...)
			if file < 7 {
				buf = append(buf, ' ')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf) + b.ToPositionString()
}
