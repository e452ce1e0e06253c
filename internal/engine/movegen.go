package engine

import (
	"sort"

	"github.com/junghyun397/mintaka-sub000/internal/board"
)

// VCFMovesCap bounds the four-threat moves considered per position.
const VCFMovesCap = 31

// VCFMoves is a fixed-capacity list of candidate four-making moves, sorted by
// distance to a reference move.
type VCFMoves struct {
	Moves [VCFMovesCap]board.Pos
	Top   int
}

// GenerateVCFMoves scans the pattern field for cells where the color can make
// any four within the distance window around the reference move.
func GenerateVCFMoves(b *board.Board, c board.Color, distanceWindow int, recentMove board.Pos) VCFMoves {
	var moves VCFMoves

	field := &b.Patterns.Field[c]
	for idx := 0; idx < board.Size && moves.Top < VCFMovesCap; idx++ {
		if field[idx].Apply(board.UnitAnyFourMask) == 0 {
			continue
		}
		p := board.Pos(idx)
		if recentMove.Distance(p) <= distanceWindow {
			moves.Moves[moves.Top] = p
			moves.Top++
		}
	}

	moves.Sort(recentMove)
	return moves
}

// Sort orders the moves by Chebyshev distance to the reference move.
func (m *VCFMoves) Sort(recentMove board.Pos) {
	slice := m.Moves[:m.Top]
	sort.SliceStable(slice, func(i, j int) bool {
		return recentMove.Distance(slice[i]) < recentMove.Distance(slice[j])
	})
}
