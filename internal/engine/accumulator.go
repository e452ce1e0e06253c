package engine

import "github.com/junghyun397/mintaka-sub000/internal/board"

// Accumulator abstracts what the VCF solver builds while unwinding a proven
// win: either just the score, or the full move sequence. The score-only
// implementation keeps the hot path allocation free.
type Accumulator[A any] interface {
	// Zero is the no-win result.
	Zero() A

	// Unit starts a result from the winning four move.
	Unit(four board.Pos, score Score) A

	// AppendPair prepends one (defend, four) exchange while unwinding.
	AppendPair(acc A, defend, four board.Pos) A

	// IsWin reports whether the accumulated result proves a win.
	IsWin(acc A) bool

	// Score extracts the result score.
	Score(acc A) Score

	// DistanceWindow is the move-generation distance bound while extending
	// a line.
	DistanceWindow() int
}

// ScoreAccumulator discards moves and carries only the win score.
type ScoreAccumulator struct{}

func (ScoreAccumulator) Zero() Score { return 0 }

func (ScoreAccumulator) Unit(_ board.Pos, score Score) Score { return score }

func (ScoreAccumulator) AppendPair(acc Score, _, _ board.Pos) Score { return acc }

func (ScoreAccumulator) IsWin(acc Score) bool { return acc > 0 }

func (ScoreAccumulator) Score(acc Score) Score { return acc }

func (ScoreAccumulator) DistanceWindow() int { return 5 }

// SequenceAccumulator collects the winning line; nil means no win. The
// unwinding order is leaf first, so callers reverse the sequence to get it
// root first.
type SequenceAccumulator struct{}

func (SequenceAccumulator) Zero() []board.Pos { return nil }

func (SequenceAccumulator) Unit(four board.Pos, _ Score) []board.Pos {
	return []board.Pos{four}
}

func (SequenceAccumulator) AppendPair(acc []board.Pos, defend, four board.Pos) []board.Pos {
	if acc == nil {
		return nil
	}
	return append(acc, defend, four)
}

func (SequenceAccumulator) IsWin(acc []board.Pos) bool { return acc != nil }

func (SequenceAccumulator) Score(acc []board.Pos) Score {
	if acc == nil {
		return 0
	}
	return ScoreWin - Score(len(acc))
}

func (SequenceAccumulator) DistanceWindow() int { return 5 }
