// Package engine implements the Renju endgame machinery: the VCF solver, its
// move generation, and the shared lock-free transposition table.
package engine

// Score is a centipawn-style search score; win scores encode the distance to
// the winning move.
type Score = int16

const (
	// ScoreInf bounds every reachable score.
	ScoreInf Score = 32000

	// ScoreWin is the base of win scores: a win found at ply n scores
	// ScoreWin - n.
	ScoreWin Score = 31000

	// ScoreNone is the sentinel for an aborted or absent result.
	ScoreNone Score = -32001
)

// winScoreAtPly returns the mate-style score for a win established at the
// given VCF ply.
func winScoreAtPly(ply uint8) Score {
	return ScoreWin - Score(ply)
}
