package chessmg_test

import (
	"testing"

	"chess-core/chessmg"
)

func mustParse(t testing.TB, fen string) *chessmg.Board {
	t.Helper()
	b, err := chessmg.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

const (
	fenKiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	fenPos3     = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	fenPos4     = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	fenPos5     = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
	fenPos6     = "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P3/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10"
)

func TestPerftInitialPosition(t *testing.T) {
	b := mustParse(t, chessmg.FENStartPos)
	want := []uint64{1, 20, 400, 8902, 197281, 4865609}
	for depth := 1; depth < len(want); depth++ {
		if depth == 5 && testing.Short() {
			t.Skip("skipping depth 5 in short mode")
		}
		if got := chessmg.PerftNodes(b, depth); got != want[depth] {
			t.Fatalf("perft depth%d: got %d want %d", depth, got, want[depth])
		}
	}
}

func TestPerftPositions(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want []uint64
	}{
		{"kiwipete", fenKiwipete, []uint64{48, 2039, 97862}},
		{"pos3", fenPos3, []uint64{14, 191, 2812, 43238}},
		{"pos4", fenPos4, []uint64{6, 264, 9467}},
		{"pos5", fenPos5, []uint64{44, 1486, 62379}},
		{"pos6", fenPos6, []uint64{46, 2079, 89890}},
		{"en passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", []uint64{5, 19}},
		{"promotion", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", []uint64{11}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			for i, want := range tc.want {
				if got := chessmg.PerftNodes(b, i+1); got != want {
					t.Fatalf("perft depth%d: got %d want %d", i+1, got, want)
				}
			}
			if fen := b.ToPositionString(); fen != tc.fen {
				t.Fatalf("position changed by perft: got %q want %q", fen, tc.fen)
			}
		})
	}
}

func TestPerftCategories(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		depth int
		want  chessmg.PerftResult
	}{
		{"start d4", chessmg.FENStartPos, 4, chessmg.PerftResult{Nodes: 197281, Captures: 1576}},
		{"start d5", chessmg.FENStartPos, 5, chessmg.PerftResult{Nodes: 4865609, Captures: 82719, EnPassants: 258}},
		{"kiwipete d1", fenKiwipete, 1, chessmg.PerftResult{Nodes: 48, Captures: 8, Castles: 2}},
		{"kiwipete d2", fenKiwipete, 2, chessmg.PerftResult{Nodes: 2039, Captures: 351, EnPassants: 1, Castles: 91}},
		{"kiwipete d3", fenKiwipete, 3, chessmg.PerftResult{Nodes: 97862, Captures: 17102, EnPassants: 45, Castles: 3162}},
		{"pos3 d3", fenPos3, 3, chessmg.PerftResult{Nodes: 2812, Captures: 209, EnPassants: 2}},
		{"pos4 d2", fenPos4, 2, chessmg.PerftResult{Nodes: 264, Captures: 87, Castles: 6, Promotions: 48}},
		{"pos4 d3", fenPos4, 3, chessmg.PerftResult{Nodes: 9467, Captures: 1021, EnPassants: 4, Promotions: 120}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.want.Nodes > 1_000_000 && testing.Short() {
				t.Skip("skipping large perft in short mode")
			}
			b := mustParse(t, tc.fen)
			if got := chessmg.Perft(b, tc.depth); got != tc.want {
				t.Fatalf("perft %s: got %+v want %+v", tc.name, got, tc.want)
			}
		})
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	b := mustParse(t, fenKiwipete)
	div := chessmg.PerftDivide(b, 3)
	if len(div) != 48 {
		t.Fatalf("divide root moves: got %d want %d", len(div), 48)
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 97862 {
		t.Fatalf("divide total: got %d want %d", sum, 97862)
	}
}

func TestPerftDepthZero(t *testing.T) {
	b := mustParse(t, chessmg.FENStartPos)
	if got := chessmg.Perft(b, 0).Nodes; got != 1 {
		t.Fatalf("perft depth0: got %d want 1", got)
	}
}
