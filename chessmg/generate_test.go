package chessmg_test

import (
	"slices"
	"strings"
	"testing"

	"chess-core/chessmg"
)

func TestCapturesInitialZero(t *testing.T) {
	b := mustParse(t, chessmg.FENStartPos)
	if got := b.GenerateCapturesInto(nil); len(got) != 0 {
		t.Fatalf("initial captures: got %d want 0", len(got))
	}
}

func TestCapturesEnPassant(t *testing.T) {
	b := mustParse(t, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	caps := b.GenerateCapturesInto(nil)
	var epCount int
	for _, m := range caps {
		if m.Kind() == chessmg.EnPassant {
			epCount++
		}
	}
	if epCount != 1 {
		t.Fatalf("expected exactly 1 en passant capture, got %d (total captures=%d)", epCount, len(caps))
	}
}

func TestPromotionCapturesAndQuiets(t *testing.T) {
	b := mustParse(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1")

	var caps []string
	for _, m := range b.GenerateCapturesInto(nil) {
		caps = append(caps, m.String())
	}
	slices.Sort(caps)
	if want := []string{"a7b8b", "a7b8n", "a7b8q", "a7b8r"}; !slices.Equal(caps, want) {
		t.Fatalf("capture promotions got %v want %v", caps, want)
	}

	var quiet []string
	for _, m := range b.MovesFrom(chessmg.SqA8 + 8) {
		if !m.Kind().IsCapture() {
			quiet = append(quiet, m.String())
		}
	}
	slices.Sort(quiet)
	if want := []string{"a7a8b", "a7a8n", "a7a8q", "a7a8r"}; !slices.Equal(quiet, want) {
		t.Fatalf("quiet promotions got %v want %v", quiet, want)
	}
}

func TestCapturesAreSubsetOfAllMoves(t *testing.T) {
	for _, fen := range []string{fenKiwipete, fenPos3, fenPos4, fenPos5, fenPos6} {
		b := mustParse(t, fen)
		all := b.GenerateMoves()
		var want []chessmg.Move
		for _, m := range all {
			if m.Kind().IsCapture() {
				want = append(want, m)
			}
		}
		got := b.GenerateCapturesInto(nil)
		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(got, want) {
			t.Fatalf("%s: captures got %v want %v", fen, got, want)
		}
	}
}

func TestGenerateMovesIntoNoAlloc(t *testing.T) {
	b := mustParse(t, fenKiwipete)
	buf := make([]chessmg.Move, 0, 256)
	allocs := testing.AllocsPerRun(100, func() {
		buf = b.GenerateMovesInto(buf[:0])
		buf = b.GenerateCapturesInto(buf[:0])
	})
	if allocs != 0 {
		t.Fatalf("move generation allocated %.1f times per run", allocs)
	}
}

func TestMakeRevertNoAlloc(t *testing.T) {
	b := mustParse(t, fenKiwipete)
	moves := b.GenerateMoves()
	allocs := testing.AllocsPerRun(100, func() {
		for _, m := range moves {
			b.MakeMove(m)
			b.RevertMove()
		}
	})
	if allocs != 0 {
		t.Fatalf("make/revert allocated %.1f times per run", allocs)
	}
}

func TestFiftyMoveRuleGame(t *testing.T) {
	b := mustParse(t, chessmg.FENStartPos)
	seq := "d2d4 d7d5 f2f4 f7f5 e2e3 e7e6 g2g3 g7g6 h2h4 h7h5 c2c3 c7c6 b2b4 b7b5 a2a3 a7a6 b1d2 g8e7 f1g2 c8b7 e1f2 e8f7 d1e2 f8g7 h1h3 a8a7 c1b2 b8d7 a1c1 b7c8 c1b1 d7f8 g1f3 f8h7 d2f1 e7g8 f1d2 g8e7 d2f1 e7g8 f1h2 g8h6 f3g5 f7f8 e2c2 f8e7 b1d1 c8b7 f2e2 g7f8 g2f3 h7f6 c2c1 d8c8 c1a1 c8a8 d1g1 b7c8 h2f1 h8h7 h3h2 h7h8 f1d2 f8g7 d2f1 c8d7 a1c1 a8b7 b2a1 a7a8 f1d2 h8c8 g1g2 c8f8 h2h1 f8g8 g2g1 g8h8 g5h3 h6g8 d2f1 g8h6 f1h2 f6g4 h2f1 g4f6 f1d2 g7f8 g1e1 b7c7 h1g1 f8g7 f3h1 h8b8 e1f1 d7e8 d2b3 e8d7 b3c5 f6e4 h3g5 h6g4 c5b3 e4f6 g5h3 g4h6 h1f3 f6g8 g1h1 g7f6 f1f2 e7d8 e2f1 d8c8 f1g2 c8b7"
	playMoves(t, b, strings.Fields(seq)...)

	if b.HalfmoveClock() < 100 {
		t.Fatalf("halfmove clock got %d want >= 100", b.HalfmoveClock())
	}
	if got := b.GameEndState(); got != chessmg.Draw {
		t.Fatalf("game end got %v want Draw", got)
	}
}
