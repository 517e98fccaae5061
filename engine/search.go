package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gm "chess-core/chessmg"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxPly = 100

	MaxScore  int32 = 32500
	MateScore int32 = 32000
	// Scores beyond MateThreshold in absolute value are mates.
	MateThreshold       = MateScore - MaxPly
	DrawScore     int32 = 0
)

var ErrNilBoard = errors.New("nil board")

type PVLine struct {
	Moves []gm.Move
}

func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

// Update sets the line to m followed by child.
func (pv *PVLine) Update(m gm.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], m)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv PVLine) BestMove() gm.Move {
	if len(pv.Moves) == 0 {
		return gm.NullMove
	}
	return pv.Moves[0]
}

func (pv PVLine) String() string { return pvString(pv.Moves) }

// Engine searches positions. A single Engine keeps its transposition table
// and killers across calls; concurrent Search calls are serialized.
type Engine struct {
	cfg     Config
	log     zerolog.Logger
	eval    *Evaluator
	tt      *TransTable
	killers *KillerTable

	mu sync.Mutex
}

type Option func(*Engine)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:     cfg,
		log:     zerolog.Nop(),
		eval:    NewEvaluator(cfg.Weights),
		tt:      NewTransTable(cfg.HashMB),
		killers: NewKillerTable(MaxPly+1, cfg.KillerSlots),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Config() Config          { return e.cfg }
func (e *Engine) Evaluator() *Evaluator   { return e.eval }
func (e *Engine) TransTable() *TransTable { return e.tt }

// NewGame forgets everything learned in previous searches.
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
	e.killers.Clear()
}

// Search looks for the best move in b within limits. b itself is not
// modified; every worker searches its own copy rebuilt from b's FEN, so
// repetitions are only detected inside the search tree.
//
// Running out of time or a cancelled ctx are not errors: the result of the
// deepest completed iteration is returned, and depth 1 always completes.
// When b has no legal moves the result carries gm.NullMove.
func (e *Engine) Search(ctx context.Context, b *gm.Board, limits Limits) (SearchResults, error) {
	if b == nil {
		return SearchResults{}, ErrNilBoard
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	if !b.HasLegalMoves() {
		res := SearchResults{BestMove: gm.NullMove, Score: DrawScore}
		if b.InCheck() {
			res.Score = -MateScore
		}
		return res, nil
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = e.cfg.MaxDepth
	}
	maxDepth = clamp(maxDepth, 1, MaxPly-1)

	budget := limits.moveBudget(b)
	var cancel context.CancelFunc
	if budget > 0 {
		ctx, cancel = context.WithTimeout(ctx, budget)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	// Helpers only pay off against a clock; an untimed search runs one
	// worker so the result does not depend on thread interleaving.
	threads := e.cfg.Threads
	if budget == 0 {
		threads = 1
	}
	st := newSearchState(threads, maxDepth, start, budget)
	stopWatch := context.AfterFunc(ctx, func() { st.stop.Store(true) })
	defer stopWatch()
	if ctx.Err() != nil {
		st.stop.Store(true)
	}

	e.killers.Clear()
	fen := b.ToPositionString()
	e.log.Debug().
		Str("fen", fen).
		Int("threads", threads).
		Int("max_depth", maxDepth).
		Dur("budget", budget).
		Msg("search start")

	var g errgroup.Group
	for id := 0; id < threads; id++ {
		g.Go(func() error {
			wb, err := gm.ParseFEN(fen)
			if err != nil {
				return fmt.Errorf("worker %d: %w", id, err)
			}
			wb.SetPieceSquareTables(e.eval.PieceSquareTables())
			newWorker(id, e, wb, st).run()
			return nil
		})
	}
	err := g.Wait()

	res := st.results
	res.Elapsed = time.Since(start)
	e.log.Info().
		Str("bestmove", res.BestMove.String()).
		Str("score", res.ScoreString()).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Msg("search done")
	return res, err
}

func (w *worker) negamax(alpha, beta int32, depth, ply int) int32 {
	w.counters.nodes++
	pv := &w.pv[ply]
	pv.Clear()
	if w.stopped() {
		return 0
	}
	w.counters.selDepth = max(w.counters.selDepth, ply)

	b := w.board
	isRoot := ply == 0
	inCheck := b.InCheck()

	// Draw detection
	if !isRoot {
		if b.IsRepetition() {
			return DrawScore
		}
		if b.HalfmoveClock() >= 100 {
			if inCheck && !b.HasLegalMoves() {
				return -MateScore + int32(ply)
			}
			return DrawScore
		}
	}

	// Check extension
	if inCheck {
		depth++
	}

	if depth <= 0 || ply >= MaxPly-1 {
		return w.quiescence(alpha, beta, ply)
	}

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	hash := b.Hash()
	ttMove := gm.NullMove
	if entry, ok := w.e.tt.Probe(hash); ok {
		w.counters.ttHits++
		ttMove = entry.Move
		if !isRoot && int(entry.Depth) >= depth {
			score := entry.ScoreAt(ply)
			switch entry.Bound {
			case ExactBound:
				return score
			case BetaBound:
				alpha = max(alpha, score)
			case AlphaBound:
				beta = min(beta, score)
			}
			if alpha >= beta {
				return score
			}
		}
	}

	moves := b.GenerateMovesInto(w.moves[ply][:0])
	w.moves[ply] = moves
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + int32(ply) // Checkmate
		}
		return DrawScore // Stalemate
	}

	w.killerBuf = w.e.killers.Killers(ply, w.killerBuf[:0])
	ordered := OrderMoves(b, moves, ttMove, w.killerBuf, w.scored[ply])
	w.scored[ply] = ordered

	lmr := w.e.cfg.LMR
	bestMove := gm.NullMove
	bound := AlphaBound

	for index, sm := range ordered {
		move := sm.Move
		quiet := move.Kind().IsQuiet()

		b.MakeMove(move)
		givesCheck := b.InCheck()

		/*
			LATE MOVE REDUCTIONS
		*/
		var score int32
		fullDepth := true
		if quiet && !inCheck && !givesCheck && index >= lmr.MoveIndex && depth >= lmr.MinDepth {
			if r := min(lmr.Reduction, depth-2); r > 0 {
				score = -w.negamax(-alpha-1, -alpha, depth-1-r, ply+1)
				fullDepth = score > alpha
				if !fullDepth {
					w.counters.lmrSavings++
				}
			}
		}

		// Full window until a move has raised alpha, then null window probes
		// with a re-search when they land inside the window.
		if fullDepth && bestMove != gm.NullMove {
			score = -w.negamax(-alpha-1, -alpha, depth-1, ply+1)
			fullDepth = score > alpha && score < beta
		}
		if fullDepth {
			score = -w.negamax(-beta, -alpha, depth-1, ply+1)
		}
		b.RevertMove()

		if w.aborted {
			return 0
		}

		// Beta cutoff
		if score >= beta {
			w.e.tt.Store(hash, depth, ply, move, beta, BetaBound)
			if quiet {
				w.e.killers.StoreKillerMove(ply, move)
			}
			return beta
		}

		// Alpha improvement
		if score > alpha {
			alpha = score
			bestMove = move
			bound = ExactBound
			pv.Update(move, w.pv[ply+1])
		}
	}

	if bestMove == gm.NullMove {
		bestMove = ttMove
	}
	w.e.tt.Store(hash, depth, ply, bestMove, alpha, bound)
	return alpha
}

// quiescence searches captures only, or every evasion when in check, until
// the position is quiet.
func (w *worker) quiescence(alpha, beta int32, ply int) int32 {
	w.counters.nodes++
	w.pv[ply].Clear()
	if w.stopped() {
		return 0
	}
	w.counters.selDepth = max(w.counters.selDepth, ply)

	b := w.board
	if ply >= MaxPly {
		return w.e.eval.Evaluate(b)
	}

	var moves []gm.Move
	if b.InCheck() {
		moves = b.GenerateMovesInto(w.moves[ply][:0])
		if len(moves) == 0 {
			return -MateScore + int32(ply)
		}
	} else {
		standPat := w.e.eval.Evaluate(b)
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
		moves = b.GenerateCapturesInto(w.moves[ply][:0])
	}
	w.moves[ply] = moves

	ordered := OrderMoves(b, moves, gm.NullMove, nil, w.scored[ply])
	w.scored[ply] = ordered

	for _, sm := range ordered {
		b.MakeMove(sm.Move)
		score := -w.quiescence(-beta, -alpha, ply+1)
		b.RevertMove()

		if w.aborted {
			return 0
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
			w.pv[ply].Update(sm.Move, w.pv[ply+1])
		}
	}
	return alpha
}
