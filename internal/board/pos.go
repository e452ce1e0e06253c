package board

import "fmt"

// Board geometry.
const (
	Width = 15
	Size  = Width * Width
)

// Pos addresses a cell on the 15x15 board (0-224), row-major from the bottom
// left corner: a1=0, o1=14, a15=210.
type Pos uint8

// NoPos is the pass/none sentinel, distinct from every valid cell.
const NoPos Pos = 255

// Center is the middle cell of the board (h8).
const Center Pos = Size / 2

// NewPos creates a position from row and column (0-indexed).
func NewPos(row, col int) Pos {
	return Pos(row*Width + col)
}

// Row returns the row of the position (0-14).
func (p Pos) Row() int {
	return int(p) / Width
}

// Col returns the column of the position (0-14).
func (p Pos) Col() int {
	return int(p) % Width
}

// Index returns the raw cell index.
func (p Pos) Index() int {
	return int(p)
}

// IsValid reports whether the position addresses a board cell.
func (p Pos) IsValid() bool {
	return p < Size
}

// Offset returns the position displaced by the given row/column deltas and
// whether it stays on the board.
func (p Pos) Offset(rowDelta, colDelta int) (Pos, bool) {
	row := p.Row() + rowDelta
	col := p.Col() + colDelta
	if row < 0 || row >= Width || col < 0 || col >= Width {
		return NoPos, false
	}
	return NewPos(row, col), true
}

// DirectionalOffset steps along a direction in index space and reports whether
// the destination stays on the board and on the same line.
func (p Pos) DirectionalOffset(d Direction, amount int) (Pos, bool) {
	switch d {
	case Horizontal:
		return p.Offset(0, amount)
	case Vertical:
		return p.Offset(amount, 0)
	case Ascending:
		return p.Offset(amount, amount)
	default:
		return p.Offset(-amount, amount)
	}
}

// Distance returns the Chebyshev distance between two positions.
func (p Pos) Distance(other Pos) int {
	rowDiff := p.Row() - other.Row()
	if rowDiff < 0 {
		rowDiff = -rowDiff
	}
	colDiff := p.Col() - other.Col()
	if colDiff < 0 {
		colDiff = -colDiff
	}
	if rowDiff > colDiff {
		return rowDiff
	}
	return colDiff
}

// String returns the move literal for the position, e.g. "h8".
func (p Pos) String() string {
	if !p.IsValid() {
		return "none"
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col(), p.Row()+1)
}

// ParsePos parses a move literal: one lowercase column letter (a-o) followed
// by a 1- or 2-digit row number, e.g. "h8".
func ParsePos(s string) (Pos, error) {
	if len(s) < 2 || len(s) > 3 {
		return NoPos, fmt.Errorf("invalid move literal: %q", s)
	}
	col := int(s[0] - 'a')
	row := 0
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return NoPos, fmt.Errorf("invalid move literal: %q", s)
		}
		row = row*10 + int(c-'0')
	}
	if col < 0 || col >= Width || row < 1 || row > Width {
		return NoPos, fmt.Errorf("move literal out of range: %q", s)
	}
	return NewPos(row-1, col), nil
}
