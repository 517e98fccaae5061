package engine

import (
	"time"

	gm "chess-core/chessmg"
)

// Clock is the game clock of the side to move.
type Clock struct {
	Remaining time.Duration
	Increment time.Duration
}

// Limits bound one search. The zero value searches to the configured
// maximum depth without a time limit.
type Limits struct {
	// Depth caps iterative deepening; 0 means Config.MaxDepth.
	Depth int
	// MoveTime is a hard budget for this move; 0 means none. It takes
	// precedence over Clock.
	MoveTime time.Duration
	Clock    Clock
}

// Engine-side safety knobs
const (
	moveOverhead   = 30 * time.Millisecond // reserve for IO jitter
	minMoveTime    = 5 * time.Millisecond  // never less than this
	maxClockFrac   = 0.7                   // never spend >70% of remaining time
	panicThreshold = time.Second
	panicIncFrac   = 0.9 // use 90% of inc in panic
)

// moveBudget returns how long the search may run, or 0 for no limit.
func (l Limits) moveBudget(b *gm.Board) time.Duration {
	if l.MoveTime > 0 {
		return l.MoveTime
	}
	rem, inc := l.Clock.Remaining, l.Clock.Increment
	if rem <= 0 {
		return 0
	}

	movesLeft := time.Duration(estimateMovesRemaining(gamePhase(b)))
	var moveTime time.Duration
	switch {
	case inc > 0 && rem < panicThreshold:
		// Panic: try to "bank" a little time
		moveTime = time.Duration(float64(inc) * panicIncFrac)
	case inc > 0:
		moveTime = rem/movesLeft + inc
	default:
		moveTime = rem / 40
	}

	moveTime = min(moveTime, time.Duration(float64(rem)*maxClockFrac), rem-moveOverhead)
	return max(moveTime, minMoveTime)
}

// softLimit is the point after which no new depth is started; finishing one
// usually takes longer than everything before it.
func softLimit(budget time.Duration) time.Duration {
	return budget / 2
}

func estimateMovesRemaining(phase int32) int32 {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	return (phase*25)/TotalPhase + 20
}
