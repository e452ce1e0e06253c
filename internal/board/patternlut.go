package board

// The slice-pattern lookup tables. Stage one maps a 16-bit window vector
// (own stones in the low byte, opponent-or-boundary in the high byte) to up
// to two patch pointers; stage two holds the patch data each pointer selects.
// Both stages are generated once, at package initialization, from the
// declarative pattern literals below.
//
// Literal alphabet: 'O' own stone, 'X' opponent stone, '.' empty,
// '!' anything but an own stone. Patch literals replace one cell with the
// shape digit to emit there: '3' open three, 'C' close three, '4' open four,
// 'F' closed four, '5' five, '6' overline.

type extendedMatch uint8

const (
	extendedMatchNone extendedMatch = iota
	extendedMatchLeft
	extendedMatchRight
)

type slicePatchData struct {
	patchMask           [8]uint8
	closedFourClearMask [8]uint8
	closedFourMask      [8]uint8
	extendedMatch       extendedMatch
}

type slicePatternTables struct {
	vector [2][1 << 16][2]uint8
	patch  [2][128]slicePatchData
	top    [2]uint8
}

var slicePatternLUT = buildSlicePatternLUT()

type variantCell struct {
	own     bool
	foe     bool
	canOmit bool
}

func parseVectorVariants(source string, reversed bool) [8]variantCell {
	var cells [8]variantCell
	for i := range cells {
		cells[i] = variantCell{own: true, foe: true, canOmit: true}
	}
	for idx := 0; idx < len(source); idx++ {
		pos := idx
		if reversed {
			pos = 7 - idx
		}
		switch source[idx] {
		case 'O':
			cells[pos] = variantCell{own: true}
		case 'X':
			cells[pos] = variantCell{foe: true}
		case '!':
			cells[pos] = variantCell{foe: true, canOmit: true}
		case '.':
			cells[pos] = variantCell{canOmit: true}
		}
	}
	return cells
}

func parsePatchLiteral(source string, reversed bool) (int, uint8) {
	for idx := 0; idx < len(source); idx++ {
		pos := idx
		if reversed {
			pos = 7 - idx
		}
		switch source[idx] {
		case '3':
			return pos, OpenThree
		case 'C':
			return pos, CloseThree
		case '4':
			return pos, OpenFour
		case 'F':
			return pos, ClosedFourSingle
		case '5':
			return pos, Five
		case '6':
			return pos, Overline
		}
	}
	panic("patch literal without a shape digit: " + source)
}

func buildSlicePatchData(ext extendedMatch, reversed bool, sources []string) slicePatchData {
	var data slicePatchData

	for _, source := range sources {
		pos, kind := parsePatchLiteral(source, reversed)
		if kind == ClosedFourSingle {
			data.closedFourClearMask[pos] = ClosedFourDouble
			data.closedFourMask[pos] = ClosedFourSingle
		} else {
			data.patchMask[pos] |= kind
		}
	}

	data.extendedMatch = ext

	return data
}

func (t *slicePatternTables) registerVariants(c Color, patchPointer uint8, cells [8]variantCell, depth int, vector uint16) {
	flash := func(newVector uint16) {
		if depth < 7 {
			t.registerVariants(c, patchPointer, cells, depth+1, newVector)
			return
		}
		bucket := &t.vector[c][newVector]
		if bucket[0] != 0 {
			bucket[1] = patchPointer
		} else {
			bucket[0] = patchPointer
		}
	}

	if cells[depth].own {
		flash(1<<depth | vector)
	}
	if cells[depth].foe {
		flash(1<<(8+depth) | vector)
	}
	if cells[depth].canOmit {
		flash(vector)
	}
}

func (t *slicePatternTables) embedOne(c Color, reversed bool, ext extendedMatch, pattern string, patches []string) {
	t.top[c]++
	pointer := t.top[c]
	t.patch[c][pointer] = buildSlicePatchData(ext, reversed, patches)
	t.registerVariants(c, pointer, parseVectorVariants(pattern, reversed), 0, 0)
}

// embed registers a pattern in forward orientation only.
func (t *slicePatternTables) embed(c Color, pattern string, patches ...string) {
	t.embedOne(c, false, extendedMatchNone, pattern, patches)
}

// embedBoth registers an asymmetric pattern in both orientations.
func (t *slicePatternTables) embedBoth(c Color, pattern string, patches ...string) {
	t.embedOne(c, false, extendedMatchNone, pattern, patches)
	t.embedOne(c, true, extendedMatchNone, pattern, patches)
}

// embedLongLeft registers a Black long pattern in both orientations. The
// forward match additionally requires the cell just left of the window to be
// free of a Black stone; the reversed match checks the cell just right of it.
func (t *slicePatternTables) embedLongLeft(pattern string, patches ...string) {
	t.embedOne(Black, false, extendedMatchLeft, pattern, patches)
	t.embedOne(Black, true, extendedMatchRight, pattern, patches)
}

func buildSlicePatternLUT() *slicePatternTables {
	t := &slicePatternTables{}

	// black open-three

	t.embedBoth(Black, "!.OO...!", "!.OO3..!", "!.OO.3.!")
	t.embedBoth(Black, "X..OO..!", "X.3OO..!")
	t.embedBoth(Black, "!.O.O..!", "!.O3O..!", "!.O.O3.!")
	t.embed(Black, "!.O..O.!", "!.O3.O.!", "!.O.3O.!")
	t.embedLongLeft("..OO...O", "..OO3..O") // [!]..OO...O

	// white open-three

	t.embedBoth(White, ".OO...", ".OO.3.")
	t.embedBoth(White, "!.OO...", "!.OO3..")
	t.embedBoth(White, "X..OO..", "X.3OO..")
	t.embedBoth(White, ".O.O..!!", ".O.O3.!!")
	t.embedBoth(White, ".O.O..O!", ".O.O3.O!")
	t.embedBoth(White, "!.O.O..", "!.O3O..")
	t.embedBoth(White, "!.O..O.", "!.O3.O.")
	t.embedBoth(White, "!O.O..O.", "!O.O3.O.")

	// black closed-four

	t.embed(Black, "!O.O.O!", "!OFO.O!", "!O.OFO!")
	t.embedBoth(Black, "!OO.O.!", "!OO.OF!")
	t.embedBoth(Black, "!O.OO.!", "!O.OOF!")
	t.embedBoth(Black, "!OO..O!", "!OOF.O!", "!OO.FO!")

	t.embedBoth(Black, "XOOO..!", "XOOOF.!", "XOOO.F!")
	t.embedBoth(Black, "XOO.O.!", "XOOFO.!")
	t.embedBoth(Black, "XO.OO.!", "XOFOO.!")
	t.embedBoth(Black, "X.OOO.!", "XFOOO.!")
	t.embedBoth(Black, "X.OOO..!", "X.OOO.C!")

	t.embedBoth(Black, "O.O.OO.!", "O.OFOO.!")
	t.embedBoth(Black, "O.OO.O.!", "O.OOFO.!")
	t.embedLongLeft("..OOO..O", "..OOOF.O", "C.OOO..O") // [!]..OOO..O

	// white closed-four

	t.embed(White, "!O.O.O!", "!OFO.O!", "!O.OFO!")
	t.embedBoth(White, "OOO..!", "OOO.F!")

	t.embed(White, "OO..OO", "OOF.OO", "OO.FOO")
	t.embedBoth(White, "OO..O!", "OOF.O!", "OO.FO!")
	t.embedBoth(White, "OO.O.O!", "OO.OFO!")

	t.embedBoth(White, "OO.O.!", "OO.OF!")
	t.embedBoth(White, "O.OO.!", "O.OOF!")

	t.embedBoth(White, "XOOO..!", "XOOOF.!")
	t.embedBoth(White, "XOO.O.", "XOOFO.")
	t.embedBoth(White, "XO.OO.", "XOFOO.")
	t.embedBoth(White, "X.OOO.", "XFOOO.")
	t.embedBoth(White, "X.OOO..", "X.OOO.C")

	// black open-four

	t.embedBoth(Black, "!.OOO..!", "!.OOO4.!", "!.OOO.F!", "!COOO..!", "!.OOOC.!")
	t.embedBoth(Black, "!.OO.O.!", "!.OO4O.!", "!COO.O.!", "!.OOCO.!", "!.OO.OC!")

	// white open-four

	t.embedBoth(White, ".OOO..", ".OOO4.", "COOO..", ".OOOC.")
	t.embedBoth(White, ".OO.O.", ".OO4O.", "COO.O.", ".OOCO.", ".OO.OC")

	// black five

	t.embed(Black, "!OO.OO!", "!OO5OO!")
	t.embedBoth(Black, "!OOO.O!", "!OOO5O!")
	t.embedBoth(Black, "!OOOO.!", "!OOOO5!")

	// white five

	t.embed(White, "OO.OO", "OO5OO")
	t.embedBoth(White, "OOO.O", "OOO5O")
	t.embedBoth(White, "OOOO.", "OOOO5")

	// black overline

	t.embedBoth(Black, "O.OOOO", "O6OOOO")
	t.embedBoth(Black, "OO.OOO", "OO6OOO")

	return t
}
