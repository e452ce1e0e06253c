package board

// Forbidden-move validation. Only Black moves are ever forbidden. A cell is a
// forbidden double-three only when at least two of its open threes are real:
// a three is real when its completing four could itself be played legally,
// which may require recursing into further double-three checks. The override
// set commits cells along the recursion path so cyclic justification
// terminates.

// setOverrides tracks cells committed on the current recursion path and, per
// direction, the next-four cells to treat as blocked once the parent three
// resolves.
type setOverrides struct {
	field    Bitfield
	nextFour [12]Pos // three slots per direction
	root     Pos
}

func newSetOverrides(root Pos) setOverrides {
	overrides := setOverrides{root: root}
	for i := range overrides.nextFour {
		overrides.nextFour[i] = NoPos
	}
	overrides.field.Set(root)
	return overrides
}

// threeContext carries the recursion state of a double-three check. The root
// check has no parent direction and an empty override set.
type threeContext struct {
	overrides       setOverrides
	parentDirection Direction
	parentPos       Pos
	isRoot          bool
}

func (ctx *threeContext) overrideContains(p Pos) bool {
	return !ctx.isRoot && ctx.overrides.field.IsHot(p)
}

func (ctx *threeContext) branchOverrides() setOverrides {
	if ctx.isRoot {
		return newSetOverrides(ctx.parentPos)
	}
	return ctx.overrides
}

// validateForbiddenMoves re-verifies every candidate forbidden cell against
// its current pattern. A five always wins, so it is never forbidden; double
// fours and overlines always are; double threes need the recursive check.
func (b *Board) validateForbiddenMoves() {
	for _, rootPos := range b.Patterns.CandidateForbiddenField.HotPositions() {
		pattern := b.Patterns.Field[Black][rootPos]

		var markForbidden, deleteCandidate bool

		// The marker caches only "validated double three found invalid";
		// every other outcome clears it, so a cell that loses its threes
		// never keeps a stale mark behind.
		switch {
		case pattern.HasFive():
			b.Patterns.Field[Black][rootPos].unmarkInvalidDoubleThree()
		case pattern.HasFours() || pattern.HasOverline():
			markForbidden = true
			b.Patterns.Field[Black][rootPos].unmarkInvalidDoubleThree()
		case pattern.HasThrees():
			ctx := threeContext{parentPos: rootPos, isRoot: true}
			if b.isValidDoubleThree(&ctx) {
				markForbidden = true
				b.Patterns.Field[Black][rootPos].unmarkInvalidDoubleThree()
			} else {
				b.Patterns.Field[Black][rootPos].markInvalidDoubleThree()
			}
		default:
			deleteCandidate = true
			b.Patterns.Field[Black][rootPos].unmarkInvalidDoubleThree()
		}

		if markForbidden {
			b.Patterns.ForbiddenField.Set(rootPos)
		} else {
			b.Patterns.ForbiddenField.Unset(rootPos)
		}
		if deleteCandidate {
			b.Patterns.CandidateForbiddenField.Unset(rootPos)
		}
	}
}

// nearFourWindow extracts the five stone bits around a cell along a
// direction: bit 0 is two cells before, bit 4 two cells after. The center bit
// is always clear since the probed cell is empty.
func (b *Board) nearFourWindow(c Color, d Direction, p Pos) uint8 {
	slice := b.Slices.Access(d, p)
	sliceIdx := slice.SliceIndex(d, p)
	stones := uint32(slice.Stones(c))
	return uint8(((stones << 2) >> sliceIdx) & 0b11111) // 0[00V00]0
}

// isValidDoubleThree reports whether the cell holds at least two real threes.
func (b *Board) isValidDoubleThree(ctx *threeContext) bool {
	pos := ctx.parentPos
	pattern := b.Patterns.Field[Black][pos]

	totalThrees := pattern.CountOpenThrees()
	if !ctx.isRoot {
		totalThrees--
	}

	for _, direction := range pattern.ThreeDirections() {
		if !ctx.isRoot && direction == ctx.parentDirection {
			continue
		}

		var invalid bool
		switch b.nearFourWindow(Black, direction, pos) {
		case 0b11000: // .VOO.
			invalid = b.isInvalidThreeComponent(ctx, direction, -1) &&
				b.isInvalidThreeComponent(ctx, direction, 3)
		case 0b00011: // .OOV.
			invalid = b.isInvalidThreeComponent(ctx, direction, -3) &&
				b.isInvalidThreeComponent(ctx, direction, 1)
		case 0b10000: // V.OO
			invalid = b.isInvalidThreeComponent(ctx, direction, 1)
		case 0b00001: // OO.V
			invalid = b.isInvalidThreeComponent(ctx, direction, -1)
		case 0b01000: // VO.O
			invalid = b.isInvalidThreeComponent(ctx, direction, 2)
		case 0b01010: // .OVO.
			invalid = b.isInvalidThreeComponent(ctx, direction, -2) &&
				b.isInvalidThreeComponent(ctx, direction, 2)
		case 0b00010: // O.OV
			invalid = b.isInvalidThreeComponent(ctx, direction, -2)
		case 0b10010: // OV.O
			invalid = b.isInvalidThreeComponent(ctx, direction, 1)
		case 0b01001: // O.VO
			invalid = b.isInvalidThreeComponent(ctx, direction, -1)
		}

		if invalid {
			if totalThrees < 3 {
				return false
			}
			totalThrees--
		}
	}

	return true
}

// isInvalidThreeComponent reports whether the three is blocked through the
// next-four cell at the given offset: the cell carries no three, already
// carries another forbidden shape, is committed on the recursion path, or is
// itself a valid nested double-three.
func (b *Board) isInvalidThreeComponent(ctx *threeContext, direction Direction, offset int) bool {
	anyFourOrOverlineMask := UnitAnyFourMask | UnitOverlineMask

	pos, ok := ctx.parentPos.DirectionalOffset(direction, offset)
	if !ok {
		return true
	}

	pattern := b.Patterns.Field[Black][pos]

	if !pattern.HasThree() || // non-three
		pattern.Apply(anyFourOrOverlineMask) != 0 || // double-four or overline
		ctx.overrideContains(pos) { // double-four or recursive
		return true
	}

	if pattern.CountOpenThrees() <= 2 { // no nested double-three possible
		return false
	}

	newOverrides := ctx.branchOverrides()
	if ctx.isRoot {
		b.updateRootFourOverrides(&newOverrides)
	}
	b.updateFourOverrides(&newOverrides, direction, pos)

	nested := threeContext{
		overrides:       newOverrides,
		parentDirection: direction,
		parentPos:       pos,
	}
	return b.isValidDoubleThree(&nested)
}

func (b *Board) updateRootFourOverrides(overrides *setOverrides) {
	for _, direction := range b.Patterns.Field[Black][overrides.root].ThreeDirections() {
		b.updateFourOverridesEachDirection(overrides, direction, overrides.root)
	}
}

// updateFourOverrides commits the pending next-four cells of every direction
// except the one being descended, then records the new parent's next-four
// cells and commits the parent itself.
func (b *Board) updateFourOverrides(overrides *setOverrides, directionFrom Direction, pos Pos) {
	skipBegin := int(directionFrom) * 3
	for idx := 0; idx < len(overrides.nextFour); idx++ {
		if idx >= skipBegin && idx < skipBegin+3 {
			continue
		}
		if fourPos := overrides.nextFour[idx]; fourPos != NoPos {
			overrides.field.Set(fourPos)
		}
	}

	for idx := range overrides.nextFour {
		overrides.nextFour[idx] = NoPos
	}

	for _, direction := range b.Patterns.Field[Black][pos].ThreeDirections() {
		if direction == directionFrom {
			continue
		}
		b.updateFourOverridesEachDirection(overrides, direction, pos)
	}

	overrides.field.Set(pos)
}

func (b *Board) updateFourOverridesEachDirection(overrides *setOverrides, direction Direction, pos Pos) {
	offset := int(direction) * 3

	record := func(slot int, step int) {
		if fourPos, ok := pos.DirectionalOffset(direction, step); ok {
			overrides.nextFour[offset+slot] = fourPos
		}
	}

	switch b.nearFourWindow(Black, direction, pos) {
	case 0b11000: // .VOO.
		record(0, -1)
		record(1, 3)
	case 0b00011: // .OOV.
		record(0, -3)
		record(1, 1)
	case 0b10000: // .V.OO.
		record(0, -1)
		record(1, 1)
		record(2, 3)
	case 0b00001: // .OO.V.
		record(0, -3)
		record(1, -1)
		record(2, 1)
	case 0b01000: // .VO.O.
		record(0, -1)
		record(1, 2)
		record(2, 4)
	case 0b01010: // .OVO.
		record(0, -2)
		record(1, 2)
	case 0b00010: // .O.OV.
		record(0, -4)
		record(1, -2)
		record(2, 1)
	case 0b10010: // .OV.O.
		record(0, -2)
		record(1, 1)
		record(2, 3)
	case 0b01001: // .O.VO.
		record(0, -3)
		record(1, -1)
		record(2, 2)
	}
}
