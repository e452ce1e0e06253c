package board

import (
	"strings"
	"testing"
)

func TestDoubleThreeForbidden(t *testing.T) {
	b := buildDoubleThreeBoard(t)
	h8 := mustPos(t, "h8")

	if b.IsLegalMove(h8) {
		t.Error("double-three cell is legal for Black")
	}
	if kind := b.Patterns.ForbiddenKindAt(h8); kind != ForbiddenDoubleThree {
		t.Errorf("forbidden kind = %s, want double-three", kind)
	}

	// The same cell is fine for White.
	b.Pass()
	if !b.IsLegalMove(h8) {
		t.Error("double-three cell is illegal for White")
	}
}

func TestDoubleFourForbidden(t *testing.T) {
	b := NewBoard()
	// Black b8, d8, e8, h8: f8 then carries two broken fours in one line.
	for _, literal := range []string{"b8", "a1", "d8", "c1", "e8", "e1", "h8", "g1"} {
		b.Set(mustPos(t, literal))
	}

	f8 := mustPos(t, "f8")
	if b.IsLegalMove(f8) {
		t.Error("double-four cell is legal for Black")
	}
	if kind := b.Patterns.ForbiddenKindAt(f8); kind != ForbiddenDoubleFour {
		t.Errorf("forbidden kind = %s, want double-four", kind)
	}
}

func TestOverlineForbidden(t *testing.T) {
	b := NewBoard()
	// Black f8 g8 h8 j8 k8: i8 would make six in a row.
	for _, literal := range []string{"f8", "a1", "g8", "c1", "h8", "e1", "j8", "g1", "k8", "i1"} {
		b.Set(mustPos(t, literal))
	}

	i8 := mustPos(t, "i8")
	if b.IsLegalMove(i8) {
		t.Error("overline cell is legal for Black")
	}
	if kind := b.Patterns.ForbiddenKindAt(i8); kind != ForbiddenOverline {
		t.Errorf("forbidden kind = %s, want overline", kind)
	}
}

func TestFiveOverridesForbidden(t *testing.T) {
	b := NewBoard()
	// Black f8 g8 h8 i8 horizontally, j5 j6 j7 vertically and g5 h6 i7 on the
	// ascending diagonal: j8 completes a five and a double four at once. The
	// win takes precedence.
	literals := []string{
		"f8", "a1", "g8", "c1", "h8", "e1",
		"i8", "a3", "j5", "c3", "j6", "e3", "j7", "g1",
		"g5", "k1", "h6", "m1", "i7", "o1",
	}
	for _, literal := range literals {
		b.Set(mustPos(t, literal))
	}
	if b.PlayerColor != Black {
		t.Fatal("expected Black to move")
	}

	j8 := mustPos(t, "j8")
	if !b.Patterns.Field[Black][j8].HasFours() {
		t.Fatal("precondition: j8 carries a double four")
	}
	if !b.IsLegalMove(j8) {
		t.Error("winning move is forbidden")
	}
	if kind := b.Patterns.ForbiddenKindAt(j8); kind != ForbiddenNone {
		t.Errorf("forbidden kind = %s, want none", kind)
	}

	b.Set(j8)
	if winner, ok := b.FindWinner(j8); !ok || winner != Black {
		t.Error("five not recognized after the move")
	}
}

// The nested case from real play: a double three is only forbidden when both
// threes are real; a three whose completing four lands on another forbidden
// cell does not count.
func TestNestedDoubleThree(t *testing.T) {
	source := strings.Join([]string{
		"   A B C D E F G H I J K L M N O",
		"15 . . . . . . . . . . . . . . . 15",
		"14 . . . . . . . . . . . . . . . 14",
		"13 . . . . . . . . . . . . . . . 13",
		"12 . . . . . . . O . . . . . . . 12",
		"11 . . . . . . . X . . . . . . . 11",
		"10 . . . . . O . X . . . . . . . 10",
		" 9 . . . . . X O X O . . . . . . 9",
		" 8 . . . . . X . X . O . . . . . 8",
		" 7 . . O X X X X O X . . . . . . 7",
		" 6 . . . . . X . O . O . . . . . 6",
		" 5 . . . . X O O . . . . . . . . 5",
		" 4 . . . O . . . . . . . . . . . 4",
		" 3 . . . . . . . . . . . . . . . 3",
		" 2 . . . . . . . . . . . . . . . 2",
		" 1 . . . . . . . . . . . . . . . 1",
		"   A B C D E F G H I J K L M N O",
	}, "\n")

	expected := strings.Join([]string{
		"   A B C D E F G H I J K L M N O",
		"15 . . . . . . . . . . . . . . . 15",
		"14 . . . . . . . . . . . . . . . 14",
		"13 . . . . . . . . . . . . . . . 13",
		"12 . . . . . . . O . . . . . . . 12",
		"11 . . . . . . . X . . . . . . . 11",
		"10 . . . . . O . X . . . . . . . 10",
		" 9 . . . . . X O X O . . . . . . 9",
		" 8 . . . . 3 X . X . O . . . . . 8",
		" 7 . . O X X X X O X . . . . . . 7",
		" 6 . . . . 3 X . O . O . . . . . 6",
		" 5 . . . . X O O . . . . . . . . 5",
		" 4 . . . O . . . . . . . . . . . 4",
		" 3 . . . . . . . . . . . . . . . 3",
		" 2 . . . . . . . . . . . . . . . 2",
		" 1 . . . . . . . . . . . . . . . 1",
		"   A B C D E F G H I J K L M N O",
	}, "\n")

	b, err := ParseBoard(source)
	if err != nil {
		t.Fatal(err)
	}

	if got := b.String(); got != expected {
		t.Errorf("forbidden rendering mismatch\ngot:\n%s\nwant:\n%s", got, expected)
	}
}

// A double three whose threes are all refuted is not forbidden; the cell is
// cached as invalid instead. Undoing the game must clear that cache so the
// board compares equal to a fresh one.
func TestInvalidDoubleThreeMarkerClearedOnUndo(t *testing.T) {
	// Black e9-e11 and i9-i11 give e8 and i8 four threats, refuting the
	// horizontal three through h8; only the vertical three stays real.
	literals := []string{
		"f8", "a1", "g8", "c1", "h6", "e1", "h7", "g1",
		"e9", "i1", "e10", "k1", "e11", "m1",
		"i11", "o1", "i10", "a3", "i9", "c3",
	}

	fresh := NewBoard()
	b := NewBoard()
	moves := make([]Pos, len(literals))
	for i, literal := range literals {
		moves[i] = mustPos(t, literal)
		if !b.IsLegalMove(moves[i]) {
			t.Fatalf("%s is not legal in test sequence", literal)
		}
		b.Set(moves[i])
	}
	if b.PlayerColor != Black {
		t.Fatal("expected Black to move")
	}

	h8 := mustPos(t, "h8")
	pattern := b.Patterns.Field[Black][h8]
	if pattern.CountOpenThrees() < 2 {
		t.Fatalf("h8 carries %d open threes, want at least 2", pattern.CountOpenThrees())
	}
	if !b.IsLegalMove(h8) {
		t.Fatal("h8 forbidden although one of its threes is refuted")
	}
	if !pattern.HasInvalidDoubleThree() {
		t.Fatal("invalid double three not cached at h8")
	}

	for i := len(moves) - 1; i >= 0; i-- {
		b.Unset(moves[i])
	}
	if b != fresh {
		t.Error("stale validation state survived the undo")
	}
}

// With Black to move, pattern-level forbidden state and move legality must
// agree on every empty cell.
func TestForbiddenMatchesLegality(t *testing.T) {
	b := buildDoubleThreeBoard(t)

	for idx := 0; idx < Size; idx++ {
		p := Pos(idx)
		if !b.IsPosEmpty(p) {
			continue
		}
		patternForbidden := b.Patterns.Field[Black][p].IsForbidden()
		fieldForbidden := b.Patterns.IsForbidden(p)
		if patternForbidden != fieldForbidden {
			t.Errorf("%s: pattern forbidden %v, field forbidden %v", p, patternForbidden, fieldForbidden)
		}
		if b.IsLegalMove(p) == fieldForbidden {
			t.Errorf("%s: legality disagrees with forbidden field", p)
		}
	}
}

// Forbidden classification must be invariant under board symmetry.
func TestForbiddenSymmetry(t *testing.T) {
	blacks := []Pos{}
	whites := []Pos{}
	for _, literal := range []string{"f8", "g8", "h6", "h7"} {
		blacks = append(blacks, mustPos(t, literal))
	}
	for _, literal := range []string{"a1", "c1", "e1", "g1"} {
		whites = append(whites, mustPos(t, literal))
	}

	transforms := map[string]func(Pos) Pos{
		"rot90":  func(p Pos) Pos { return NewPos(p.Col(), Width-1-p.Row()) },
		"rot180": func(p Pos) Pos { return NewPos(Width-1-p.Row(), Width-1-p.Col()) },
		"rot270": func(p Pos) Pos { return NewPos(Width-1-p.Col(), p.Row()) },
		"mirror": func(p Pos) Pos { return NewPos(p.Row(), Width-1-p.Col()) },
	}

	reference := NewBoard()
	reference.BatchSetEachColor(blacks, whites, Black)
	referenceForbidden := reference.Patterns.ForbiddenField.HotPositions()
	if len(referenceForbidden) == 0 {
		t.Fatal("reference board has no forbidden cells")
	}

	for name, transform := range transforms {
		mappedBlacks := make([]Pos, len(blacks))
		for i, p := range blacks {
			mappedBlacks[i] = transform(p)
		}
		mappedWhites := make([]Pos, len(whites))
		for i, p := range whites {
			mappedWhites[i] = transform(p)
		}

		b := NewBoard()
		b.BatchSetEachColor(mappedBlacks, mappedWhites, Black)

		var want Bitfield
		for _, p := range referenceForbidden {
			want.Set(transform(p))
		}
		if b.Patterns.ForbiddenField != want {
			t.Errorf("%s: forbidden field not symmetric; got %v, want %v",
				name, b.Patterns.ForbiddenField.HotPositions(), want.HotPositions())
		}
	}
}

func TestForbiddenClearedWhenThreatRemoved(t *testing.T) {
	b := buildDoubleThreeBoard(t)
	h8 := mustPos(t, "h8")

	if b.IsLegalMove(h8) {
		t.Fatal("precondition: h8 forbidden")
	}

	// White blocks one of the threes; h8 stops being a double three.
	b.Pass()
	b.Set(mustPos(t, "e8"))

	if !b.IsLegalMove(h8) {
		t.Error("h8 still forbidden after the horizontal three was blocked")
	}
}
