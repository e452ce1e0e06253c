package board

import "math/bits"

// DiagonalSliceCount is the number of diagonals long enough to hold a five.
const DiagonalSliceCount = Width*2 - 9

// Slice is one line of the board: a row, a column, or a diagonal of length
// 5..15. Stones are kept as bitmasks indexed by the offset along the slice.
type Slice struct {
	Length   uint8
	StartRow uint8
	StartCol uint8

	BlackStones uint16
	WhiteStones uint16

	// PatternAvailable caches, per color, whether pattern data derived from
	// this slice is currently present in the pattern field.
	PatternAvailable [2]bool
}

func newSlice(length, startRow, startCol int) Slice {
	return Slice{Length: uint8(length), StartRow: uint8(startRow), StartCol: uint8(startCol)}
}

// StartPos returns the first cell of the slice.
func (s *Slice) StartPos() Pos {
	return NewPos(int(s.StartRow), int(s.StartCol))
}

// Stones returns the stone mask for a color.
func (s *Slice) Stones(c Color) uint16 {
	if c == Black {
		return s.BlackStones
	}
	return s.WhiteStones
}

// SetStone sets the stone bit for a color at an offset along the slice.
func (s *Slice) SetStone(c Color, idx int) {
	if c == Black {
		s.BlackStones |= 1 << idx
	} else {
		s.WhiteStones |= 1 << idx
	}
}

// UnsetStone clears the stone bit for a color at an offset along the slice.
func (s *Slice) UnsetStone(c Color, idx int) {
	if c == Black {
		s.BlackStones &^= 1 << idx
	} else {
		s.WhiteStones &^= 1 << idx
	}
}

// StoneKind returns the color of the stone at an offset, if any.
func (s *Slice) StoneKind(idx int) (Color, bool) {
	mask := uint16(1) << idx
	switch {
	case s.BlackStones&mask != 0:
		return Black, true
	case s.WhiteStones&mask != 0:
		return White, true
	default:
		return NoColor, false
	}
}

// SliceIndex returns the offset of a position along this slice in the given
// direction.
func (s *Slice) SliceIndex(d Direction, p Pos) int {
	switch d {
	case Vertical:
		return p.Row()
	case Horizontal:
		return p.Col()
	default:
		return p.Col() - int(s.StartCol)
	}
}

// HasPotentialPattern reports whether the slice holds enough material for the
// color to possibly form any threat shape.
func (s *Slice) HasPotentialPattern(c Color) bool {
	p := s.Stones(c)
	q := s.Stones(c.Other())

	// filter . . O . . . .
	// filter O X . . O X .
	// filter O . . . O . .
	return bits.OnesCount16(p) > 1 &&
		p & ^(q<<1) & ^(q>>1) != 0 &&
		p&((p<<3)|(p<<2)|(p<<1)|(p>>1)|(p>>2)|(p>>3)) != 0
}

// Winner returns the color holding a five-in-a-row on this slice, if any.
func (s *Slice) Winner() (Color, bool) {
	if containsFiveInARow(s.BlackStones) {
		return Black, true
	}
	if containsFiveInARow(s.WhiteStones) {
		return White, true
	}
	return NoColor, false
}

// containsFiveInARow reports whether the mask holds five consecutive stones.
func containsFiveInARow(stones uint16) bool {
	return stones&(stones>>1)&(stones>>2)&(stones>>3)&(stones>>4) != 0
}

// Slices holds the 72 board slices: 15 rows, 15 columns and 21 diagonals in
// each diagonal orientation.
type Slices struct {
	Horizontals [Width]Slice
	Verticals   [Width]Slice
	Ascendings  [DiagonalSliceCount]Slice
	Descendings [DiagonalSliceCount]Slice
}

// NewSlices returns the empty-board slice collection.
func NewSlices() Slices {
	var slices Slices
	for idx := 0; idx < Width; idx++ {
		slices.Horizontals[idx] = newSlice(Width, idx, 0)
		slices.Verticals[idx] = newSlice(Width, 0, idx)
	}
	for idx := 0; idx < DiagonalSliceCount; idx++ {
		seq := idx - 10
		length := Width - abs(seq)
		slices.Ascendings[idx] = newSlice(length, max(0, -seq), max(0, seq))
		slices.Descendings[idx] = newSlice(length, Width-1-max(0, -seq), max(0, seq))
	}
	return slices
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// AscendingSliceIndex returns the index of the ascending slice through a
// position, if it is long enough to matter.
func AscendingSliceIndex(p Pos) (int, bool) {
	idx := 10 - (p.Row() - p.Col())
	return idx, idx >= 0 && idx < DiagonalSliceCount
}

// DescendingSliceIndex returns the index of the descending slice through a
// position, if it is long enough to matter.
func DescendingSliceIndex(p Pos) (int, bool) {
	idx := p.Row() + p.Col() - 4
	return idx, idx >= 0 && idx < DiagonalSliceCount
}

// Set places a stone on every slice through the position.
func (s *Slices) Set(c Color, p Pos) {
	s.Horizontals[p.Row()].SetStone(c, p.Col())
	s.Verticals[p.Col()].SetStone(c, p.Row())
	if idx, ok := AscendingSliceIndex(p); ok {
		slice := &s.Ascendings[idx]
		slice.SetStone(c, p.Col()-int(slice.StartCol))
	}
	if idx, ok := DescendingSliceIndex(p); ok {
		slice := &s.Descendings[idx]
		slice.SetStone(c, p.Col()-int(slice.StartCol))
	}
}

// Access returns the slice through a position in the given direction. The
// diagonal through the position must exist; callers on the short corner
// diagonals must check first.
func (s *Slices) Access(d Direction, p Pos) *Slice {
	switch d {
	case Horizontal:
		return &s.Horizontals[p.Row()]
	case Vertical:
		return &s.Verticals[p.Col()]
	case Ascending:
		idx, _ := AscendingSliceIndex(p)
		return &s.Ascendings[idx]
	default:
		idx, _ := DescendingSliceIndex(p)
		return &s.Descendings[idx]
	}
}

// Bitfields rebuilds the per-color occupancy bitfields from the horizontal
// slices.
func (s *Slices) Bitfields() [2]Bitfield {
	var fields [2]Bitfield
	for row := range s.Horizontals {
		slice := &s.Horizontals[row]
		for col := 0; col < Width; col++ {
			if c, ok := slice.StoneKind(col); ok {
				fields[c].Set(NewPos(row, col))
			}
		}
	}
	return fields
}
