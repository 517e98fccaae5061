package chessmg

import "sync"

// Slider lines through a square. Each line is scanned in its two directions.
const (
	lineFile = iota
	lineRank
	lineDiagonal
	lineAntiDiagonal
	lineCount
)

// lineSteps holds the (file, row) steps of both directions of every line.
// Row grows toward rank 1.
var lineSteps = [lineCount][2][2]int{
	lineFile:         {{0, -1}, {0, 1}},
	lineRank:         {{1, 0}, {-1, 0}},
	lineDiagonal:     {{1, -1}, {-1, 1}},
	lineAntiDiagonal: {{1, 1}, {-1, -1}},
}

var knightSteps = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingSteps = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

// AttackTables is the immutable set of precomputed lookups shared by every
// Board. Build it through Attacks.
type AttackTables struct {
	Knight [64]Bitboard
	King   [64]Bitboard

	// PawnAttacks[c][sq] are the squares a pawn of color c on sq captures on.
	PawnAttacks [2][64]Bitboard
	// PawnPushes[c][sq] are the single push square and, from the start row,
	// the double push square. Blockers are not considered.
	PawnPushes [2][64]Bitboard
	// PawnAttackers[c][sq] are the squares from which a pawn of color c
	// attacks sq.
	PawnAttackers [2][64]Bitboard

	// Between[a][b] holds the squares strictly between a and b when they share
	// a rank, file or diagonal, and is empty otherwise.
	Between [64][64]Bitboard

	lineMask    [lineCount][64]Bitboard
	lineAttacks [lineCount][64][]Bitboard
	rookEmpty   [64]Bitboard
	bishopEmpty [64]Bitboard
}

var (
	attacksOnce  sync.Once
	attackTables *AttackTables
)

// Attacks returns the process-wide attack tables, building them on first use.
func Attacks() *AttackTables {
	attacksOnce.Do(func() {
		attackTables = newAttackTables()
	})
	return attackTables
}

func onBoard(file, row int) bool {
	return file >= 0 && file < 8 && row >= 0 && row < 8
}

func stepSet(sq Square, steps [][2]int) Bitboard {
	var bb Bitboard
	for _, st := range steps {
		f, r := sq.File()+st[0], sq.Row()+st[1]
		if onBoard(f, r) {
			bb.Set(MakeSquare(f, r))
		}
	}
	return bb
}

// traceLine walks both directions of a line from sq, stopping on (and
// including) the first occupied square.
func traceLine(sq Square, line int, occ Bitboard) Bitboard {
	var bb Bitboard
	for _, st := range lineSteps[line] {
		f, r := sq.File()+st[0], sq.Row()+st[1]
		for onBoard(f, r) {
			to := MakeSquare(f, r)
			bb.Set(to)
			if occ.Has(to) {
				break
			}
			f, r = f+st[0], r+st[1]
		}
	}
	return bb
}

// relevantMask is the line through sq without sq itself and without the
// edge squares, whose occupancy never changes the attack set.
func relevantMask(sq Square, line int) Bitboard {
	var bb Bitboard
	for _, st := range lineSteps[line] {
		f, r := sq.File()+st[0], sq.Row()+st[1]
		for onBoard(f+st[0], r+st[1]) {
			bb.Set(MakeSquare(f, r))
			f, r = f+st[0], r+st[1]
		}
	}
	return bb
}

func newAttackTables() *AttackTables {
	t := &AttackTables{}
	for sq := Square(0); sq < 64; sq++ {
		t.Knight[sq] = stepSet(sq, knightSteps[:])
		t.King[sq] = stepSet(sq, kingSteps[:])

		t.PawnAttacks[White][sq] = stepSet(sq, [][2]int{{-1, -1}, {1, -1}})
		t.PawnAttacks[Black][sq] = stepSet(sq, [][2]int{{-1, 1}, {1, 1}})

		row := sq.Row()
		if row > 0 && row < 7 {
			t.PawnPushes[White][sq] = SquareBB(sq - 8)
			t.PawnPushes[Black][sq] = SquareBB(sq + 8)
		}
		if row == 6 {
			t.PawnPushes[White][sq] |= SquareBB(sq - 16)
		}
		if row == 1 {
			t.PawnPushes[Black][sq] |= SquareBB(sq + 16)
		}

		// Build attack tables by iterating all subsets of mask using software pdep
		for line := 0; line < lineCount; line++ {
			mask := relevantMask(sq, line)
			n := mask.Count()
			table := make([]Bitboard, 1<<n)
			for idx := range table {
				table[idx] = traceLine(sq, line, pdep(idx, mask))
			}
			t.lineMask[line][sq] = mask
			t.lineAttacks[line][sq] = table
		}
		t.rookEmpty[sq] = traceLine(sq, lineFile, 0) | traceLine(sq, lineRank, 0)
		t.bishopEmpty[sq] = traceLine(sq, lineDiagonal, 0) | traceLine(sq, lineAntiDiagonal, 0)

		for _, st := range kingSteps {
			var acc Bitboard
			f, r := sq.File()+st[0], sq.Row()+st[1]
			for onBoard(f, r) {
				to := MakeSquare(f, r)
				t.Between[sq][to] = acc
				acc.Set(to)
				f, r = f+st[0], r+st[1]
			}
		}
	}
	for sq := 0; sq < 64; sq++ {
		t.PawnAttackers[White][sq] = t.PawnAttacks[Black][sq]
		t.PawnAttackers[Black][sq] = t.PawnAttacks[White][sq]
	}
	return t
}

func (t *AttackTables) line(line int, sq Square, occ Bitboard) Bitboard {
	return t.lineAttacks[line][sq][pext(occ, t.lineMask[line][sq])]
}

// Rook returns the rook attack set from sq for the given occupancy.
func (t *AttackTables) Rook(sq Square, occ Bitboard) Bitboard {
	return t.line(lineFile, sq, occ) | t.line(lineRank, sq, occ)
}

// Bishop returns the bishop attack set from sq for the given occupancy.
func (t *AttackTables) Bishop(sq Square, occ Bitboard) Bitboard {
	return t.line(lineDiagonal, sq, occ) | t.line(lineAntiDiagonal, sq, occ)
}
