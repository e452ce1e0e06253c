package engine

import (
	"sync/atomic"

	"github.com/junghyun397/mintaka-sub000/internal/board"
)

// abortPollInterval is how many search-loop steps (frame entries and
// backtracks) a worker takes between checks of the shared abort flag.
const abortPollInterval = 4096

// ThreadData is the per-worker state of the endgame solvers: the shared
// transposition table and node counter, the cooperative abort flag, and the
// reusable DFS stack. Each worker owns one.
type ThreadData struct {
	TT      *TranspositionTable
	Counter *BatchCounter
	Aborted *atomic.Bool

	vcfStack  []vcfFrame
	pollCount int
}

// NewThreadData creates worker state over the shared table, counter and
// abort flag.
func NewThreadData(tt *TranspositionTable, globalCounter *atomic.Uint64, aborted *atomic.Bool) *ThreadData {
	return &ThreadData{
		TT:      tt,
		Counter: NewBatchCounter(globalCounter),
		Aborted: aborted,
	}
}

// shouldAbort is called once per search-loop step and reads the abort flag on
// every abortPollInterval-th call.
func (td *ThreadData) shouldAbort() bool {
	td.pollCount++
	if td.pollCount < abortPollInterval {
		return false
	}
	td.pollCount = 0
	return td.Aborted != nil && td.Aborted.Load()
}

// vcfFrame is one suspended level of the iterative VCF search.
type vcfFrame struct {
	moves      VCFMoves
	nextCursor int
	ply        int
	fourPos    board.Pos
	defendPos  board.Pos
}

// vcfDestination customizes what counts as reaching the goal: a plain win,
// or additionally reaching a designated defensive cell.
type vcfDestination interface {
	conditionalAbort(defendPattern board.Pattern) bool
	additionalReached(fourPos board.Pos) bool
}

type vcfWin struct{}

func (vcfWin) conditionalAbort(board.Pattern) bool { return false }

func (vcfWin) additionalReached(board.Pos) bool { return false }

type vcfDefendDest struct {
	targetPos board.Pos
}

func (d vcfDefendDest) conditionalAbort(defendPattern board.Pattern) bool {
	return defendPattern.HasThree()
}

func (d vcfDefendDest) additionalReached(fourPos board.Pos) bool {
	return d.targetPos == fourPos
}

// VCFSearch decides whether the player to move has a victory by continuous
// fours within the depth budget, returning its score. recentMove seeds the
// move ordering; pass board.Center when no history is available.
func VCFSearch(td *ThreadData, b *board.Board, maxDepth int, recentMove board.Pos) (Score, bool) {
	moves := GenerateVCFMoves(b, b.PlayerColor, ScoreAccumulator{}.DistanceWindow(), recentMove)
	if moves.Top == 0 {
		return 0, false
	}
	moves.Sort(recentMove)

	acc := ScoreAccumulator{}
	result := tryVCF[Score](acc, td, vcfWin{}, *b, moves, maxDepth)
	if !acc.IsWin(result) {
		return 0, false
	}
	return result, true
}

// VCFDefend runs a VCF that also accepts making a four on the target cell,
// and gives up as soon as the defender gains a three. It is used to test
// whether a threatened cell can be defended by counter-fours.
func VCFDefend(td *ThreadData, b *board.Board, maxDepth int, targetPos board.Pos) Score {
	moves := GenerateVCFMoves(b, b.PlayerColor, 8, targetPos)

	acc := ScoreAccumulator{}
	return tryVCF[Score](acc, td, vcfDefendDest{targetPos: targetPos}, *b, moves, maxDepth)
}

// VCFSequence proves a victory by continuous fours and returns the winning
// line, root move first, or nil when no forced win exists within the budget.
func VCFSequence(td *ThreadData, b *board.Board, maxDepth int) []board.Pos {
	moves := GenerateVCFMoves(b, b.PlayerColor, 8, board.Center)

	acc := SequenceAccumulator{}
	sequence := tryVCF[[]board.Pos](acc, td, vcfWin{}, *b, moves, maxDepth)
	if sequence == nil {
		return nil
	}
	for i, j := 0, len(sequence)-1; i < j; i, j = i+1, j-1 {
		sequence[i], sequence[j] = sequence[j], sequence[i]
	}
	return sequence
}

// tryVCF is the depth-first forced-sequence search. Every attacker move makes
// a four; the defender's reply is the unique five-completion cell. The search
// runs on an explicit stack and memoizes failed subtrees as Cold entries.
func tryVCF[A any](acc Accumulator[A], td *ThreadData, dest vcfDestination, b board.Board, vcfMoves VCFMoves, maxDepth int) A {
	attacker := b.PlayerColor
	defender := attacker.Other()

	vcfPly := 0
	moveCounter := 0
	stackBase := len(td.vcfStack)

	// backtrace unwinds the stack after a proven win, storing win/lose
	// entries along the line and building the result.
	backtrace := func(hashKey board.HashKey, depth int, fourPos board.Pos) A {
		result := acc.Unit(fourPos, winScoreAtPly(uint8(min(depth, 255))))

		for len(td.vcfStack) > stackBase {
			frame := td.vcfStack[len(td.vcfStack)-1]
			td.vcfStack = td.vcfStack[:len(td.vcfStack)-1]

			hashKey = hashKey.Set(defender, frame.defendPos)
			td.TT.Store(hashKey, vcfLoseEntry(depth))

			hashKey = hashKey.Set(attacker, frame.fourPos)
			td.TT.Store(hashKey, vcfWinEntry(depth, frame.fourPos))

			result = acc.AppendPair(result, frame.defendPos, frame.fourPos)
		}

		return result
	}

search:
	for {
		if td.shouldAbort() {
			td.vcfStack = td.vcfStack[:stackBase]
			return acc.Zero()
		}

		for seq := moveCounter; seq < vcfMoves.Top; seq++ {
			fourPos := vcfMoves.Moves[seq]
			playerPattern := b.Patterns.Field[attacker][fourPos]

			if attacker == board.Black && playerPattern.IsForbidden() {
				continue
			}

			if playerPattern.HasOpenFour() {
				td.TT.Store(b.HashKey, vcfWinEntry(vcfPly, fourPos))
				return backtrace(b.HashKey, vcfPly, fourPos)
			}

			b.Set(fourPos)
			td.Counter.AddSingle()

			defendPos := b.Patterns.UncheckedFivePos[attacker]
			if defendPos == board.NoPos {
				b.Unset(fourPos)
				continue
			}

			ttKey := b.HashKey.Set(defender, defendPos)

			defendPattern := b.Patterns.Field[defender][defendPos]
			defendFourCount := defendPattern.CountFours()
			defendIsForbidden := attacker == board.White && defendPattern.IsForbidden()

			var attackRefuted bool
			if attacker == board.Black {
				attackRefuted = defendFourCount == board.CountMultiple ||
					defendPattern.HasOpenFour()
			} else {
				attackRefuted = defendPattern.HasOpenFour() && !defendIsForbidden
			}
			if attackRefuted || dest.conditionalAbort(defendPattern) {
				b.Unset(fourPos)
				continue
			}

			if (attacker == board.White && defendIsForbidden) ||
				(defendFourCount == board.CountCold &&
					(playerPattern.HasThree() || dest.additionalReached(fourPos))) {
				td.TT.Store(b.HashKey, vcfWinEntry(vcfPly, fourPos))
				return backtrace(b.HashKey, vcfPly, fourPos)
			}

			if b.Stones+3 >= board.Size || vcfPly+4 > maxDepth || td.probeCold(ttKey) {
				b.Unset(fourPos)
				continue
			}

			b.Set(defendPos)
			td.Counter.AddSingle()

			td.vcfStack = append(td.vcfStack, vcfFrame{
				moves:      vcfMoves,
				nextCursor: seq + 1,
				ply:        vcfPly,
				fourPos:    fourPos,
				defendPos:  defendPos,
			})

			var nextMoves VCFMoves
			if defendFourCount != board.CountCold {
				// The defense made a four of its own; the only continuation
				// is blocking it with another four on its five spot.
				defendMove := b.Patterns.UncheckedFivePos[defender]
				if defendMove == board.NoPos ||
					!b.Patterns.Field[attacker][defendMove].HasAnyFour() {
					vcfPly += 2
					break
				}
				nextMoves.Moves[0] = defendMove
				nextMoves.Top = 1
			} else {
				nextMoves = GenerateVCFMoves(&b, attacker, acc.DistanceWindow(), fourPos)
			}

			vcfMoves = nextMoves
			moveCounter = 0
			vcfPly += 2
			continue search
		}

		// No candidate worked from here: memoize the failure.
		entry, ok := td.TT.Probe(b.HashKey)
		if ok {
			entry.Flag.SetEndgameFlag(EndgameCold)
		} else {
			entry = TTEntry{
				BestMove: board.NoPos,
				Depth:    uint8(min(vcfPly, 255)),
				Age:      td.TT.Age(),
				Flag:     NewTTFlag(ScoreExact, EndgameCold, false),
			}
		}
		td.TT.Store(b.HashKey, entry)

		if len(td.vcfStack) > stackBase {
			frame := td.vcfStack[len(td.vcfStack)-1]
			td.vcfStack = td.vcfStack[:len(td.vcfStack)-1]

			b.Unset(frame.defendPos)
			b.Unset(frame.fourPos)

			vcfMoves = frame.moves
			moveCounter = frame.nextCursor
			vcfPly = frame.ply
		} else {
			break search
		}
	}

	return acc.Zero()
}

// probeCold reports whether the position is already memoized as a failure.
func (td *ThreadData) probeCold(key board.HashKey) bool {
	entry, ok := td.TT.Probe(key)
	return ok && entry.Flag.EndgameFlag() == EndgameCold
}

func vcfWinEntry(depth int, fourPos board.Pos) TTEntry {
	return TTEntry{
		BestMove: fourPos,
		Depth:    uint8(min(depth, 255)),
		Age:      255,
		Flag:     NewTTFlag(ScoreExact, EndgameWin, false),
		Score:    ScoreInf,
		Eval:     ScoreInf,
	}
}

func vcfLoseEntry(depth int) TTEntry {
	return TTEntry{
		BestMove: board.NoPos,
		Depth:    uint8(min(depth, 255)),
		Age:      255,
		Flag:     NewTTFlag(ScoreExact, EndgameLose, false),
		Score:    -ScoreInf,
		Eval:     -ScoreInf,
	}
}
