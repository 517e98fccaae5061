package bench

import (
	"testing"

	goosemg "github.com/Oliverans/GooseEngineMG/goosemg"

	"chess-core/chessmg"
)

const fenKiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func benchPerft(b *testing.B, fen string, depth int) {
	board, err := chessmg.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	var nodes uint64
	for i := 0; i < b.N; i++ {
		nodes += chessmg.PerftNodes(board, depth)
	}
	b.ReportMetric(float64(nodes)/b.Elapsed().Seconds(), "nodes/s")
}

func BenchmarkPerft_Initial_D4(b *testing.B) {
	benchPerft(b, chessmg.FENStartPos, 4)
}

func BenchmarkPerft_Kiwipete_D3(b *testing.B) {
	benchPerft(b, fenKiwipete, 3)
}

func BenchmarkPerftCategories_Kiwipete_D3(b *testing.B) {
	board, err := chessmg.ParseFEN(fenKiwipete)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = chessmg.Perft(board, 3)
	}
}

// The GooseEngine generator is the baseline the local one is measured against.
func benchReferencePerft(b *testing.B, fen string, depth int) {
	board, err := goosemg.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = goosemg.Perft(board, depth)
	}
}

func BenchmarkReferencePerft_Initial_D4(b *testing.B) {
	benchReferencePerft(b, chessmg.FENStartPos, 4)
}

func BenchmarkReferencePerft_Kiwipete_D3(b *testing.B) {
	benchReferencePerft(b, fenKiwipete, 3)
}
