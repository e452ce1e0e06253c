package memo

import (
	"strings"
	"testing"

	"github.com/junghyun397/mintaka-sub000/internal/board"
)

func TestMemoMatchesDirectComputation(t *testing.T) {
	memo, err := NewSlicePatternMemo(1 << 10)
	if err != nil {
		t.Fatal(err)
	}
	defer memo.Close()

	cases := []string{
		". . . O O . . . . . . . . . .",
		"X . O O . . . . . . . . . . .",
		". X X . X X . . . . . . . . .",
		". O O O . . O . . . . . . . .",
	}

	for _, source := range cases {
		slice, err := board.ParseSlice(source)
		if err != nil {
			t.Fatal(err)
		}

		for c := board.Black; c <= board.White; c++ {
			want := slice.CalculateSlicePattern(c)

			// First call computes, later calls may come from cache; both
			// must agree with the direct computation.
			for i := 0; i < 3; i++ {
				if got := memo.Pattern(&slice, c); got != want {
					t.Fatalf("%q %s: memo = %v, want %v", source, c, got, want)
				}
			}
		}
	}
}

// A board rebuilt through the memo must match one computed directly.
func TestMemoBackedBoardRebuild(t *testing.T) {
	memo, err := NewSlicePatternMemo(1 << 10)
	if err != nil {
		t.Fatal(err)
	}
	defer memo.Close()

	source := strings.Join([]string{
		"   A B C D E F G H I J K L M N O",
		"15 . . . . . . . . . . . . . . . 15",
		"14 . . . . . . . . . . . . . . . 14",
		"13 . . . . . . . . . . . . . . . 13",
		"12 . . . . . . . . . . . . . . . 12",
		"11 . . . . . . . . . . . . . . . 11",
		"10 . . . . . . . . . . . . . . . 10",
		" 9 . . . . . . . . O . . . . . . 9",
		" 8 . . . . . X X . X O . . . . . 8",
		" 7 . . . . . . X . . . . . . . . 7",
		" 6 . . . . . . X . . . . . . . . 6",
		" 5 . . . . . . . . . . . . . . . 5",
		" 4 . . . . . . . . . . . . . . . 4",
		" 3 . . . . . . . . . . . . . . . 3",
		" 2 . . . . . . . . . . . . . . . 2",
		" 1 . . . . . . . . . . . . . . . 1",
		"   A B C D E F G H I J K L M N O",
	}, "\n")

	want, err := board.ParseBoard(source)
	if err != nil {
		t.Fatal(err)
	}

	// Parse the same position twice through the cache: the second rebuild
	// may be served from it and must still agree.
	for i := 0; i < 2; i++ {
		got, err := board.ParseBoardCached(source, memo)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("rebuild %d through the memo differs from direct computation", i)
		}
	}
}

func TestMemoDistinguishesColors(t *testing.T) {
	memo, err := NewSlicePatternMemo(1 << 10)
	if err != nil {
		t.Fatal(err)
	}
	defer memo.Close()

	slice, err := board.ParseSlice(". . O O O . . . . . . . . . .")
	if err != nil {
		t.Fatal(err)
	}

	white := memo.Pattern(&slice, board.White)
	black := memo.Pattern(&slice, board.Black)

	if white == black {
		t.Error("memo returned identical patterns for both colors")
	}
	if white.IsEmpty() {
		t.Error("white pattern empty for a three-stone line")
	}
	if !black.IsEmpty() {
		t.Error("black pattern non-empty with no black stones")
	}
}
