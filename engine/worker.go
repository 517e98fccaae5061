package engine

import (
	"sync"
	"sync/atomic"
	"time"

	gm "chess-core/chessmg"
)

// searchState is shared by the workers of one Search call. The dispatcher
// hands out depths and merges finished iterations under mu; stop and
// completed are read at every node.
type searchState struct {
	stop      atomic.Bool
	completed atomic.Int32

	mu       sync.Mutex
	threads  int
	maxDepth int
	active   map[int]int // depth -> workers searching it
	finished bool
	start    time.Time
	soft     time.Duration
	results  SearchResults
}

func newSearchState(threads, maxDepth int, start time.Time, budget time.Duration) *searchState {
	return &searchState{
		threads:  threads,
		maxDepth: maxDepth,
		active:   make(map[int]int),
		start:    start,
		soft:     softLimit(budget),
	}
}

// nextDepth assigns a depth to an idle worker: one past the deepest
// completed iteration, or two past it once half of the pool already works on
// that one. It reports false when no more depths should be started. Until
// some iteration has completed, depth 1 is handed out even after a stop.
func (s *searchState) nextDepth() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := s.results.Depth
	if s.shouldStop(best) {
		if best > 0 || s.active[1] > 0 {
			return 0, false
		}
		s.active[1]++
		return 1, true
	}
	depth := best + 1
	if s.active[depth]*2 >= s.threads && depth < s.maxDepth {
		depth++
	}
	s.active[depth]++
	return depth, true
}

func (s *searchState) shouldStop(best int) bool {
	switch {
	case s.finished, s.stop.Load(), best >= s.maxDepth:
		return true
	case best > 0 && s.soft > 0 && time.Since(s.start) > s.soft:
		return true
	}
	return false
}

// report merges a worker's counters and, for a completed iteration deeper
// than anything seen so far, its result.
func (s *searchState) report(w *worker, depth int, score int32, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[depth]--
	s.results.addCounters(w.counters)
	w.counters = counters{}

	if !completed || !s.results.complete(depth, score, w.pv[0].Moves) {
		return
	}
	s.completed.Store(int32(depth))

	elapsed := time.Since(s.start)
	nps := uint64(0)
	if elapsed > 0 {
		nps = uint64(float64(s.results.Nodes) / elapsed.Seconds())
	}
	w.e.log.Info().
		Int("depth", depth).
		Int("seldepth", s.results.SelDepth).
		Str("score", scoreString(score)).
		Uint64("nodes", s.results.Nodes).
		Uint64("nps", nps).
		Uint64("tt_hits", s.results.TTHits).
		Int("hashfull", w.e.tt.Hashfull()).
		Str("pv", pvString(s.results.PV)).
		Int("worker", w.id).
		Msg("depth complete")

	if depth >= s.maxDepth || isMateScore(score) {
		s.finished = true
	}
}

// worker owns a board and the per-ply scratch buffers of one search thread.
type worker struct {
	id    int
	e     *Engine
	board *gm.Board
	state *searchState

	depth    int
	aborted  bool
	counters counters

	moves     [MaxPly + 1][]gm.Move
	scored    [MaxPly + 1][]ScoredMove
	pv        [MaxPly + 1]PVLine
	killerBuf []gm.Move
}

func newWorker(id int, e *Engine, b *gm.Board, st *searchState) *worker {
	return &worker{
		id:        id,
		e:         e,
		board:     b,
		state:     st,
		killerBuf: make([]gm.Move, 0, e.cfg.KillerSlots),
	}
}

func (w *worker) run() {
	for {
		depth, ok := w.state.nextDepth()
		if !ok {
			return
		}
		w.e.log.Debug().Int("worker", w.id).Int("depth", depth).Msg("worker start")
		score, completed := w.searchRoot(depth)
		if !completed {
			w.e.log.Debug().Int("worker", w.id).Int("depth", depth).Msg("worker abort")
		}
		w.state.report(w, depth, score, completed)
	}
}

func (w *worker) searchRoot(depth int) (int32, bool) {
	w.depth = depth
	w.aborted = false
	score := w.negamax(-MaxScore, MaxScore, depth, 0)
	return score, !w.aborted
}

// stopped checks the shared stop flag and whether another worker already
// finished this depth. Depth 1 is never interrupted so a search always has
// a move to return.
func (w *worker) stopped() bool {
	if w.aborted {
		return true
	}
	if w.depth > 1 && (w.state.stop.Load() || int(w.state.completed.Load()) >= w.depth) {
		w.aborted = true
	}
	return w.aborted
}
