package engine

import (
	"fmt"
	"strings"
	"time"

	gm "chess-core/chessmg"
)

// SearchResults describes the deepest completed iteration plus counters
// summed over every worker.
type SearchResults struct {
	BestMove   gm.Move
	Score      int32
	Depth      int
	SelDepth   int
	Nodes      uint64
	TTHits     uint64
	LMRSavings uint64
	PV         []gm.Move
	Elapsed    time.Duration
}

// NPS is nodes per second over the whole search.
func (r SearchResults) NPS() uint64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return uint64(float64(r.Nodes) / r.Elapsed.Seconds())
}

// IsMate reports whether Score announces a forced mate for either side.
func (r SearchResults) IsMate() bool { return isMateScore(r.Score) }

// ScoreString renders the score as "cp N" or "mate N", negative N when the
// side to move is being mated.
func (r SearchResults) ScoreString() string { return scoreString(r.Score) }

func (r SearchResults) PVString() string { return pvString(r.PV) }

func isMateScore(score int32) bool { return abs(score) > MateThreshold }

func scoreString(score int32) string {
	if !isMateScore(score) {
		return fmt.Sprintf("cp %d", score)
	}
	plies := MateScore - abs(score)
	moves := (plies + 1) / 2
	if score < 0 {
		moves = -moves
	}
	return fmt.Sprintf("mate %d", moves)
}

func pvString(pv []gm.Move) string {
	var sb strings.Builder
	for i, m := range pv {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}

// counters accumulated by one worker between two reports.
type counters struct {
	nodes      uint64
	ttHits     uint64
	lmrSavings uint64
	selDepth   int
}

func (r *SearchResults) addCounters(c counters) {
	r.Nodes += c.nodes
	r.TTHits += c.ttHits
	r.LMRSavings += c.lmrSavings
	r.SelDepth = max(r.SelDepth, c.selDepth)
}

// complete installs the outcome of a finished iteration if it is deeper than
// the current one.
func (r *SearchResults) complete(depth int, score int32, pv []gm.Move) bool {
	if depth <= r.Depth || len(pv) == 0 {
		return false
	}
	r.Depth = depth
	r.Score = score
	r.BestMove = pv[0]
	r.PV = append(r.PV[:0], pv...)
	return true
}
