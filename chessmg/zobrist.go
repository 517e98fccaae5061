package chessmg

import "math/rand"

// Zobrist hashing tables for pieces, castling, en passant, and side to move.
var zobristPiece [16][64]uint64 // indexed by piece code and square
var zobristCastle [4]uint64     // one key per castling right
var zobristEnPassant [8]uint64  // one key per en-passant file
var zobristSide uint64          // Black to move

func init() {
	// Use a fixed seed for reproducibility in tests
	rnd := rand.New(rand.NewSource(0xC0DE))
	for p := range zobristPiece {
		for sq := range zobristPiece[p] {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// Zobrist is a running position hash. Besides the hash it remembers which
// castling rights and en-passant file were last folded in, so a feed only
// XORs what changed since.
type Zobrist struct {
	hash     uint64
	castling CastlingRights
	epFile   int8
}

func (z *Zobrist) Hash() uint64 { return z.hash }

func (z *Zobrist) reset() {
	z.hash = 0
	z.castling = CastlingNone
	z.epFile = -1
}

func (z *Zobrist) togglePiece(p Piece, sq Square) {
	z.hash ^= zobristPiece[p][sq]
}

func (z *Zobrist) toggleSide() {
	z.hash ^= zobristSide
}

// feedCastling folds in the rights that flipped since the last feed.
func (z *Zobrist) feedCastling(cr CastlingRights) {
	changed := z.castling ^ cr
	for i := 0; changed != 0; i++ {
		if changed&1 != 0 {
			z.hash ^= zobristCastle[i]
		}
		changed >>= 1
	}
	z.castling = cr
}

// feedEnPassant replaces the folded en-passant file, -1 meaning none.
func (z *Zobrist) feedEnPassant(file int8) {
	if file == z.epFile {
		return
	}
	if z.epFile >= 0 {
		z.hash ^= zobristEnPassant[z.epFile]
	}
	if file >= 0 {
		z.hash ^= zobristEnPassant[file]
	}
	z.epFile = file
}

// computeHash recomputes the hash of the position from scratch.
func (b *Board) computeHash() uint64 {
	var z Zobrist
	z.reset()
	for occ := b.occupied; occ != 0; {
		sq := occ.PopLSB()
		z.togglePiece(b.squares[sq], sq)
	}
	if b.side == Black {
		z.toggleSide()
	}
	z.feedCastling(b.castling)
	z.feedEnPassant(b.epFile)
	return z.hash
}
