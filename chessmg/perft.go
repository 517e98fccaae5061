package chessmg

// PerftResult counts the leaf nodes of a perft run and the kinds of the
// moves that reached them. Captures include en passant and capturing promotions.
type PerftResult struct {
	Nodes      uint64
	Captures   uint64
	EnPassants uint64
	Castles    uint64
	Promotions uint64
}

func (r *PerftResult) add(o PerftResult) {
	r.Nodes += o.Nodes
	r.Captures += o.Captures
	r.EnPassants += o.EnPassants
	r.Castles += o.Castles
	r.Promotions += o.Promotions
}

func (r *PerftResult) count(k MoveKind) {
	r.Nodes++
	if k.IsCapture() {
		r.Captures++
	}
	if k == EnPassant {
		r.EnPassants++
	}
	if k.IsCastle() {
		r.Castles++
	}
	if k.IsPromotion() {
		r.Promotions++
	}
}

type perftCtx struct {
	bufs [][]Move
}

func newPerftCtx(depth int) *perftCtx {
	pc := &perftCtx{bufs: make([][]Move, depth+1)}
	for i := range pc.bufs {
		pc.bufs[i] = make([]Move, 0, maxMoves)
	}
	return pc
}

// Perft walks the legal move tree to the given depth and returns the leaf
// count broken down by the kind of the last move.
func Perft(b *Board, depth int) PerftResult {
	if depth <= 0 {
		return PerftResult{Nodes: 1}
	}
	return perftRec(b, depth, newPerftCtx(depth))
}

func perftRec(b *Board, depth int, pc *perftCtx) PerftResult {
	var res PerftResult
	moves := b.GenerateMovesInto(pc.bufs[depth][:0])
	if depth == 1 {
		// Bulk counting: the generator only yields legal moves.
		for _, m := range moves {
			res.count(m.Kind())
		}
		return res
	}
	for _, m := range moves {
		b.MakeMove(m)
		res.add(perftRec(b, depth-1, pc))
		b.RevertMove()
	}
	return res
}

// PerftNodes returns only the leaf count, skipping the category bookkeeping.
func PerftNodes(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	return perftNodes(b, depth, newPerftCtx(depth))
}

func perftNodes(b *Board, depth int, pc *perftCtx) uint64 {
	moves := b.GenerateMovesInto(pc.bufs[depth][:0])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		b.MakeMove(m)
		nodes += perftNodes(b, depth-1, pc)
		b.RevertMove()
	}
	return nodes
}

// PerftDivide returns the leaf count below each root move.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range b.GenerateMoves() {
		b.MakeMove(m)
		result[m] = PerftNodes(b, depth-1)
		b.RevertMove()
	}
	return result
}
