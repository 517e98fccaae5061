package engine

import (
	"testing"

	gm "chess-core/chessmg"
)

const fenKiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func mustParse(t *testing.T, fen string) *gm.Board {
	t.Helper()
	b, err := gm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func mustMove(t *testing.T, b *gm.Board, text string) gm.Move {
	t.Helper()
	m, err := b.ParseMove(text)
	if err != nil {
		t.Fatalf("ParseMove(%s): %v", text, err)
	}
	return m
}

func TestOrderMovesPriorities(t *testing.T) {
	b := mustParse(t, fenKiwipete)
	ttMove := mustMove(t, b, "a2a3")
	killer := mustMove(t, b, "g2g3")

	ordered := OrderMoves(b, b.GenerateMoves(), ttMove, []gm.Move{killer}, nil)
	if len(ordered) != 48 {
		t.Fatalf("moves got %d want 48", len(ordered))
	}
	if ordered[0].Move != ttMove {
		t.Fatalf("first move got %v want tt move %v", ordered[0].Move, ttMove)
	}

	category := func(m gm.Move) int {
		switch {
		case m == ttMove:
			return 3
		case m.Kind().IsCapture():
			return 2
		case m == killer:
			return 1
		}
		return 0
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Score < ordered[i].Score {
			t.Fatalf("not sorted at %d: %d < %d", i, ordered[i-1].Score, ordered[i].Score)
		}
		if category(ordered[i-1].Move) < category(ordered[i].Move) {
			t.Fatalf("%v ordered before %v", ordered[i-1].Move, ordered[i].Move)
		}
	}
}

func TestOrderMovesMVVLVA(t *testing.T) {
	// The c4 pawn and the d1 queen can both take the queen on d5, and the
	// queen can also take the pawn on a4.
	b := mustParse(t, "4k3/8/8/3q4/p1P5/8/8/3QK3 w - - 0 1")
	ordered := OrderMoves(b, b.GenerateMoves(), gm.NullMove, nil, nil)

	want := []string{"c4d5", "d1d5", "d1a4"}
	for i, w := range want {
		if got := ordered[i].Move.String(); got != w {
			t.Fatalf("move %d got %s want %s", i, got, w)
		}
	}
	if ordered[3].Move.Kind().IsCapture() {
		t.Fatalf("unexpected capture %v after the three captures", ordered[3].Move)
	}
}

func TestScoreMoveEnPassantTakesPawn(t *testing.T) {
	b := mustParse(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	m := mustMove(t, b, "e5d6")
	if m.Kind() != gm.EnPassant {
		t.Fatalf("kind got %v want en-passant", m.Kind())
	}
	if got, want := ScoreMove(b, m, gm.NullMove, nil), captureOffset+mvvLva[gm.Pawn][gm.Pawn]; got != want {
		t.Fatalf("score got %d want %d", got, want)
	}
}

func TestOrderMovesStableForQuiets(t *testing.T) {
	b := gm.NewBoard()
	b.Reset()
	moves := b.GenerateMoves()
	ordered := OrderMoves(b, moves, gm.NullMove, nil, nil)

	// Quiet pushes all share one score and keep generation order among
	// themselves, double pushes follow the same rule.
	var quiet, double []gm.Move
	for _, m := range moves {
		switch m.Kind() {
		case gm.Quiet:
			quiet = append(quiet, m)
		case gm.DoublePawnPush:
			double = append(double, m)
		}
	}
	var gotQuiet, gotDouble []gm.Move
	for _, sm := range ordered {
		switch sm.Move.Kind() {
		case gm.Quiet:
			gotQuiet = append(gotQuiet, sm.Move)
		case gm.DoublePawnPush:
			gotDouble = append(gotDouble, sm.Move)
		}
	}
	for i := range quiet {
		if quiet[i] != gotQuiet[i] {
			t.Fatalf("quiet order changed at %d", i)
		}
	}
	for i := range double {
		if double[i] != gotDouble[i] {
			t.Fatalf("double push order changed at %d", i)
		}
	}
	if ordered[0].Move.Kind() != gm.DoublePawnPush {
		t.Fatalf("higher kind ordinal should sort first, got %v", ordered[0].Move)
	}
}
