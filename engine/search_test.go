package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	gm "chess-core/chessmg"
)

func newTestEngine(t *testing.T, threads int) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Threads = threads
	cfg.HashMB = 8
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestSearchFindsMateInOne(t *testing.T) {
	e := newTestEngine(t, 1)
	b := mustParse(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	res, err := e.Search(context.Background(), b, Limits{Depth: 4})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := res.BestMove.String(); got != "a1a8" {
		t.Fatalf("best move got %s want a1a8", got)
	}
	if res.Score != MateScore-1 {
		t.Fatalf("score got %d want %d", res.Score, MateScore-1)
	}
	if got := res.ScoreString(); got != "mate 1" {
		t.Fatalf("score string got %q want %q", got, "mate 1")
	}
	if res.Depth != 1 {
		t.Fatalf("search should stop once mate is found, depth got %d", res.Depth)
	}
}

func TestSearchWinsHangingQueen(t *testing.T) {
	e := newTestEngine(t, 1)
	b := mustParse(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	res, err := e.Search(context.Background(), b, Limits{Depth: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := res.BestMove.String(); got != "d2d5" {
		t.Fatalf("best move got %s want d2d5", got)
	}
	if res.Score < 300 {
		t.Fatalf("score got %d, expected a clear advantage", res.Score)
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	e := newTestEngine(t, 2)

	stalemate := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	res, err := e.Search(context.Background(), stalemate, Limits{Depth: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.BestMove != gm.NullMove || res.Score != DrawScore {
		t.Fatalf("stalemate got %v %d", res.BestMove, res.Score)
	}

	mated := gm.NewBoard()
	mated.Reset()
	for _, text := range []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"} {
		mated.MakeMove(mustMove(t, mated, text))
	}
	res, err = e.Search(context.Background(), mated, Limits{Depth: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.BestMove != gm.NullMove || res.Score != -MateScore {
		t.Fatalf("checkmated got %v %d", res.BestMove, res.Score)
	}
}

func TestSearchNilBoard(t *testing.T) {
	e := newTestEngine(t, 1)
	if _, err := e.Search(context.Background(), nil, Limits{}); !errors.Is(err, ErrNilBoard) {
		t.Fatalf("got %v want ErrNilBoard", err)
	}
}

func TestSearchIsDeterministicWithOneThread(t *testing.T) {
	var first SearchResults
	for i := 0; i < 2; i++ {
		e := newTestEngine(t, 1)
		b := mustParse(t, fenKiwipete)
		res, err := e.Search(context.Background(), b, Limits{Depth: 4})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if res.Depth != 4 {
			t.Fatalf("depth got %d want 4", res.Depth)
		}
		if i == 0 {
			first = res
			continue
		}
		if res.BestMove != first.BestMove || res.Score != first.Score || res.Nodes != first.Nodes {
			t.Fatalf("run differs: %v %d %d vs %v %d %d",
				res.BestMove, res.Score, res.Nodes, first.BestMove, first.Score, first.Nodes)
		}
	}
}

func TestUntimedSearchIsDeterministicWithManyThreads(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		var first SearchResults
		for i := 0; i < 3; i++ {
			e := newTestEngine(t, 4)
			res, err := e.Search(context.Background(), mustParse(t, fen), Limits{Depth: 5})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if i == 0 {
				first = res
				continue
			}
			if res.BestMove != first.BestMove || res.Score != first.Score || res.Nodes != first.Nodes {
				t.Fatalf("%s: run differs: %v %d %d vs %v %d %d", fen,
					res.BestMove, res.Score, res.Nodes, first.BestMove, first.Score, first.Nodes)
			}
		}
	}
}

func TestSearchLeavesBoardUntouched(t *testing.T) {
	e := newTestEngine(t, 2)
	b := mustParse(t, fenKiwipete)
	before, hash := b.ToPositionString(), b.Hash()
	if _, err := e.Search(context.Background(), b, Limits{Depth: 3}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if b.ToPositionString() != before || b.Hash() != hash {
		t.Fatalf("board changed by search")
	}
}

func TestSearchTimedReturnsLegalMove(t *testing.T) {
	e := newTestEngine(t, 4)
	b := gm.NewBoard()
	b.Reset()

	res, err := e.Search(context.Background(), b, Limits{MoveTime: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Depth < 1 {
		t.Fatalf("depth got %d want at least 1", res.Depth)
	}
	if _, err := b.ParseMove(res.BestMove.String()); err != nil {
		t.Fatalf("best move %v is not legal: %v", res.BestMove, err)
	}
	if res.Nodes == 0 {
		t.Fatalf("no nodes counted")
	}
	if res.Elapsed > 5*time.Second {
		t.Fatalf("search ignored its budget: %v", res.Elapsed)
	}
}

func TestSearchCancelledStillCompletesDepthOne(t *testing.T) {
	e := newTestEngine(t, 2)
	b := mustParse(t, fenKiwipete)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Search(ctx, b, Limits{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Depth != 1 || res.BestMove == gm.NullMove {
		t.Fatalf("got depth %d move %v, want a depth 1 result", res.Depth, res.BestMove)
	}
}

func TestSearchReusedAcrossGame(t *testing.T) {
	e := newTestEngine(t, 2)
	b := gm.NewBoard()
	b.Reset()
	for i := 0; i < 6; i++ {
		res, err := e.Search(context.Background(), b, Limits{Depth: 3})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if res.BestMove == gm.NullMove {
			t.Fatalf("ply %d: no move", i)
		}
		b.MakeMove(res.BestMove)
	}
	e.NewGame()
	if _, ok := e.TransTable().Probe(b.Hash()); ok {
		t.Fatalf("NewGame kept table entries")
	}
}

func TestMoveBudget(t *testing.T) {
	b := gm.NewBoard()
	b.Reset()

	if got := (Limits{}).moveBudget(b); got != 0 {
		t.Fatalf("no limits got %v want 0", got)
	}
	if got := (Limits{MoveTime: time.Second, Clock: Clock{Remaining: time.Minute}}).moveBudget(b); got != time.Second {
		t.Fatalf("move time got %v want 1s", got)
	}

	// Full board: 45 moves left.
	clock := Limits{Clock: Clock{Remaining: 90 * time.Second, Increment: time.Second}}
	if got, want := clock.moveBudget(b), 2*time.Second+time.Second; got != want {
		t.Fatalf("clock budget got %v want %v", got, want)
	}

	panicking := Limits{Clock: Clock{Remaining: 500 * time.Millisecond, Increment: 100 * time.Millisecond}}
	if got, want := panicking.moveBudget(b), 90*time.Millisecond; got != want {
		t.Fatalf("panic budget got %v want %v", got, want)
	}

	noInc := Limits{Clock: Clock{Remaining: 40 * time.Second}}
	if got, want := noInc.moveBudget(b), time.Second; got != want {
		t.Fatalf("no increment budget got %v want %v", got, want)
	}
}
