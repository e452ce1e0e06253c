package board

// Board owns the slice collections, the pattern field, the occupancy and
// forbidden bookkeeping, the Zobrist key and the player to move. It is a
// plain value: copying the struct snapshots the whole position.
type Board struct {
	PlayerColor Color
	Stones      int
	Slices      Slices
	Patterns    Patterns
	HotField    Bitfield
	HashKey     HashKey
}

// NewBoard returns the empty board with Black to move.
func NewBoard() Board {
	return Board{
		PlayerColor: Black,
		Slices:      NewSlices(),
		Patterns:    NewPatterns(),
		HashKey:     HashKey(EmptyHash),
	}
}

// IsPosEmpty reports whether the cell is unoccupied.
func (b *Board) IsPosEmpty(p Pos) bool {
	return b.HotField.IsCold(p)
}

// IsLegalMove reports whether the player to move may place a stone on the
// cell: it must be empty, and not forbidden when Black is to move.
func (b *Board) IsLegalMove(p Pos) bool {
	return b.IsPosEmpty(p) &&
		(b.PlayerColor != Black || !b.Patterns.IsForbidden(p))
}

// LegalField returns the bitfield of legal moves for the player to move.
func (b *Board) LegalField() Bitfield {
	if b.PlayerColor == Black {
		return b.HotField.Union(b.Patterns.ForbiddenField).Complement()
	}
	return b.HotField.Complement()
}

// StoneKind returns the color of the stone on a cell, if any.
func (b *Board) StoneKind(p Pos) (Color, bool) {
	return b.Slices.Horizontals[p.Row()].StoneKind(p.Col())
}

// WithSet returns a copy of the board with a stone placed for the player to
// move.
func (b Board) WithSet(p Pos) Board {
	b.Set(p)
	return b
}

// WithUnset returns a copy of the board with the stone removed.
func (b Board) WithUnset(p Pos) Board {
	b.Unset(p)
	return b
}

// Set places a stone for the player to move and incrementally updates the
// patterns, forbidden cells and hash key. The cell must be empty.
func (b *Board) Set(p Pos) {
	b.Stones++
	b.HotField.Set(p)
	b.HashKey = b.HashKey.Set(b.PlayerColor, p)

	b.incrementalUpdate(p, true)

	b.switchPlayer()
}

// Unset removes the most recent stone at the cell, restoring the previous
// position.
func (b *Board) Unset(p Pos) {
	b.switchPlayer()

	b.Stones--
	b.HotField.Unset(p)
	b.HashKey = b.HashKey.Set(b.PlayerColor, p)

	b.incrementalUpdate(p, false)
}

// Pass flips the player to move without placing a stone.
func (b *Board) Pass() {
	b.switchPlayer()
}

// Unpass undoes a pass.
func (b *Board) Unpass() {
	b.switchPlayer()
}

func (b *Board) switchPlayer() {
	b.PlayerColor = b.PlayerColor.Other()
}

// BatchSet plays an alternating move list starting with the player to move;
// NoPos entries are passes.
func (b *Board) BatchSet(moves []Pos) {
	var blacks, whites []Pos
	color := b.PlayerColor
	for _, p := range moves {
		if p != NoPos {
			if color == Black {
				blacks = append(blacks, p)
			} else {
				whites = append(whites, p)
			}
		}
		color = color.Other()
	}

	b.BatchSetEachColor(blacks, whites, color)
}

// SlicePatternSource supplies slice patterns during full-board rebuilds.
// Implementations may cache computations across boards sharing lines.
type SlicePatternSource interface {
	Pattern(slice *Slice, c Color) SlicePattern
}

// BatchSetEachColor places all given stones and rebuilds patterns, forbidden
// cells and the hash key in one full-board pass.
func (b *Board) BatchSetEachColor(blacks, whites []Pos, player Color) {
	b.BatchSetEachColorCached(blacks, whites, player, nil)
}

// BatchSetEachColorCached is BatchSetEachColor with the full-board pattern
// pass reading slice patterns from the given source; a nil source computes
// them directly.
func (b *Board) BatchSetEachColorCached(blacks, whites []Pos, player Color, patterns SlicePatternSource) {
	b.Stones += len(blacks) + len(whites)

	for _, p := range blacks {
		b.Slices.Set(Black, p)
		b.HotField.Set(p)
	}
	for _, p := range whites {
		b.Slices.Set(White, p)
		b.HotField.Set(p)
	}

	b.PlayerColor = player

	b.fullUpdate(patterns)
	b.HashKey = HashKeyFromSlices(&b.Slices.Horizontals)
}

// incrementalUpdate recomputes the patterns of the up-to-four slices through
// the cell and re-validates the forbidden candidates.
func (b *Board) incrementalUpdate(p Pos, set bool) {
	b.Patterns.UncheckedFivePos = [2]Pos{NoPos, NoPos}

	update := func(slice *Slice, d Direction, sliceIdx int) {
		if set {
			slice.SetStone(b.PlayerColor, sliceIdx)
		} else {
			slice.UnsetStone(b.PlayerColor, sliceIdx)
		}

		for c := Black; c <= White; c++ {
			switch {
			case slice.HasPotentialPattern(c):
				b.Patterns.UpdateWithSlice(slice, c, d)
			case slice.PatternAvailable[c]:
				b.Patterns.ClearWithSlice(slice, c, d)
			}
		}
	}

	update(&b.Slices.Horizontals[p.Row()], Horizontal, p.Col())
	update(&b.Slices.Verticals[p.Col()], Vertical, p.Row())

	if idx, ok := AscendingSliceIndex(p); ok {
		slice := &b.Slices.Ascendings[idx]
		update(slice, Ascending, p.Col()-int(slice.StartCol))
	}
	if idx, ok := DescendingSliceIndex(p); ok {
		slice := &b.Slices.Descendings[idx]
		update(slice, Descending, p.Col()-int(slice.StartCol))
	}

	b.validateForbiddenMoves()
}

// fullUpdate recomputes the pattern field from every slice, consulting the
// pattern source when one is given.
func (b *Board) fullUpdate(source SlicePatternSource) {
	b.Patterns.UncheckedFivePos = [2]Pos{NoPos, NoPos}

	update := func(slice *Slice, d Direction) {
		for c := Black; c <= White; c++ {
			if slice.HasPotentialPattern(c) {
				if source != nil {
					b.Patterns.UpdateWithSlicePattern(slice, c, d, source.Pattern(slice, c))
				} else {
					b.Patterns.UpdateWithSlice(slice, c, d)
				}
			}
		}
	}

	for idx := range b.Slices.Horizontals {
		update(&b.Slices.Horizontals[idx], Horizontal)
	}
	for idx := range b.Slices.Verticals {
		update(&b.Slices.Verticals[idx], Vertical)
	}
	for idx := range b.Slices.Ascendings {
		update(&b.Slices.Ascendings[idx], Ascending)
	}
	for idx := range b.Slices.Descendings {
		update(&b.Slices.Descendings[idx], Descending)
	}

	b.validateForbiddenMoves()
}

// FindWinner scans the slices through a cell for a five-in-a-row.
func (b *Board) FindWinner(p Pos) (Color, bool) {
	if winner, ok := b.Slices.Horizontals[p.Row()].Winner(); ok {
		return winner, true
	}
	if winner, ok := b.Slices.Verticals[p.Col()].Winner(); ok {
		return winner, true
	}
	if idx, ok := AscendingSliceIndex(p); ok {
		if winner, ok := b.Slices.Ascendings[idx].Winner(); ok {
			return winner, true
		}
	}
	if idx, ok := DescendingSliceIndex(p); ok {
		if winner, ok := b.Slices.Descendings[idx].Winner(); ok {
			return winner, true
		}
	}
	return NoColor, false
}

// FindGlobalWinner scans every slice for a five-in-a-row.
func (b *Board) FindGlobalWinner() (Color, bool) {
	for idx := range b.Slices.Horizontals {
		if winner, ok := b.Slices.Horizontals[idx].Winner(); ok {
			return winner, true
		}
	}
	for idx := range b.Slices.Verticals {
		if winner, ok := b.Slices.Verticals[idx].Winner(); ok {
			return winner, true
		}
	}
	for idx := range b.Slices.Ascendings {
		if winner, ok := b.Slices.Ascendings[idx].Winner(); ok {
			return winner, true
		}
	}
	for idx := range b.Slices.Descendings {
		if winner, ok := b.Slices.Descendings[idx].Winner(); ok {
			return winner, true
		}
	}
	return NoColor, false
}
