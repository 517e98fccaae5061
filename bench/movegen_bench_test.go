package bench

import (
	"testing"

	"chess-core/chessmg"
)

func benchGenerateMoves(b *testing.B, fen string) {
	board, err := chessmg.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]chessmg.Move, 0, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = board.GenerateMovesInto(buf[:0])
	}
}

func BenchmarkGenerateMoves_Initial(b *testing.B) {
	benchGenerateMoves(b, chessmg.FENStartPos)
}

func BenchmarkGenerateMoves_Kiwipete(b *testing.B) {
	benchGenerateMoves(b, fenKiwipete)
}

func BenchmarkGenerateMoves_Pos6(b *testing.B) {
	benchGenerateMoves(b, "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10")
}

func BenchmarkGenerateCaptures_Kiwipete(b *testing.B) {
	board, err := chessmg.ParseFEN(fenKiwipete)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	buf := make([]chessmg.Move, 0, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = board.GenerateCapturesInto(buf[:0])
	}
}

func BenchmarkMakeRevert_Kiwipete(b *testing.B) {
	board, err := chessmg.ParseFEN(fenKiwipete)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	moves := board.GenerateMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := moves[i%len(moves)]
		board.MakeMove(m)
		board.RevertMove()
	}
}
