// Command renju-solve reads a Renju position, reports its forbidden cells and
// runs the VCF endgame solver against it.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/junghyun397/mintaka-sub000/internal/board"
	"github.com/junghyun397/mintaka-sub000/internal/engine"
	"github.com/junghyun397/mintaka-sub000/internal/memo"
	"github.com/junghyun397/mintaka-sub000/internal/storage"
)

var (
	boardPath = flag.String("board", "", "board text file (default: read stdin)")
	history   = flag.String("moves", "", "comma-separated move literals to play first, e.g. h8,i9")
	maxDepth  = flag.Int("depth", 128, "maximum VCF depth in plies")
	hashMiB   = flag.Int("hash", 64, "transposition table size in MiB")
	timeout   = flag.Duration("timeout", 0, "abort the search after this duration")
	save      = flag.Bool("save", false, "persist the analysis result")
	list      = flag.Bool("list", false, "list saved analyses and exit")
)

func main() {
	flag.Parse()

	if *list {
		listAnalyses()
		return
	}

	b := loadBoard()

	fmt.Println(b.String())
	fmt.Printf("player: %s, stones: %d, hash: 0x%016x\n\n", b.PlayerColor, b.Stones, uint64(b.HashKey))

	if winner, ok := b.FindGlobalWinner(); ok {
		fmt.Printf("game over: %s already has five in a row\n", winner)
		return
	}

	tt := engine.NewTranspositionTable(*hashMiB)
	var nodes atomic.Uint64
	var aborted atomic.Bool
	td := engine.NewThreadData(tt, &nodes, &aborted)

	if *timeout > 0 {
		timer := time.AfterFunc(*timeout, func() { aborted.Store(true) })
		defer timer.Stop()
	}

	started := time.Now()
	sequence := engine.VCFSequence(td, &b, *maxDepth)
	elapsed := time.Since(started)

	if sequence == nil {
		fmt.Printf("no VCF found within %d plies (%v, tt usage %d‰)\n", *maxDepth, elapsed, tt.UsagePermille())
	} else {
		literals := make([]string, len(sequence))
		final := b
		for i, p := range sequence {
			literals[i] = p.String()
			final.Set(p)
		}
		fmt.Printf("VCF win in %d plies: %s (%v)\n\n", len(sequence), strings.Join(literals, " "), elapsed)
		fmt.Println(final.ToStringWithMoveMarker(sequence[len(sequence)-1]))
	}

	if *save {
		saveAnalysis(&b, sequence, uint64(td.Counter.LocalTotal()))
	}
}

func loadBoard() board.Board {
	var source []byte
	var err error
	if *boardPath != "" {
		source, err = os.ReadFile(*boardPath)
	} else {
		source, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal("could not read board: ", err)
	}

	patternMemo, err := memo.NewSlicePatternMemo(1 << 15)
	if err != nil {
		log.Fatal("could not create pattern memo: ", err)
	}
	defer patternMemo.Close()

	b, err := board.ParseBoardCached(string(source), patternMemo)
	if err != nil {
		log.Fatal(err)
	}

	if *history != "" {
		moves, err := board.ParseHistory(*history)
		if err != nil {
			log.Fatal(err)
		}
		for _, p := range moves {
			if p == board.NoPos {
				b.Pass()
				continue
			}
			if !b.IsLegalMove(p) {
				log.Fatalf("illegal move: %s", p)
			}
			b.Set(p)
		}
	}

	return b
}

func saveAnalysis(b *board.Board, sequence []board.Pos, nodes uint64) {
	store, err := storage.NewStorage()
	if err != nil {
		log.Fatal("could not open storage: ", err)
	}
	defer store.Close()

	record := &storage.AnalysisRecord{
		HashKey:     fmt.Sprintf("0x%016x", uint64(b.HashKey)),
		PlayerColor: b.PlayerColor.String(),
		Board:       b.String(),
		Depth:       *maxDepth,
		Win:         sequence != nil,
		Nodes:       nodes,
	}
	if sequence != nil {
		record.Score = engine.ScoreWin - int16(len(sequence))
		record.Sequence = make([]string, len(sequence))
		for i, p := range sequence {
			record.Sequence[i] = p.String()
		}
	}

	id, err := store.SaveAnalysis(record)
	if err != nil {
		log.Fatal("could not save analysis: ", err)
	}
	fmt.Printf("saved analysis %s\n", id)
}

func listAnalyses() {
	store, err := storage.NewStorage()
	if err != nil {
		log.Fatal("could not open storage: ", err)
	}
	defer store.Close()

	records, err := store.ListAnalyses()
	if err != nil {
		log.Fatal(err)
	}

	for _, record := range records {
		verdict := "cold"
		if record.Win {
			verdict = fmt.Sprintf("win in %d", len(record.Sequence))
		}
		fmt.Printf("%s  %s  %s  player=%s  %s\n",
			record.CreatedAt.Format(time.RFC3339), record.ID, record.HashKey, record.PlayerColor, verdict)
	}
}
