package field

import (
	"fmt"
	"strings"
)

var stateGlyphs = [numCellStates]string{
	Empty:        ".",
	FallingShape: "o",
	LockedBlock:  "#",
	Garbage:      "=",
}

// ToDisplayText renders the field for humans. Cells listed in highlight
// are drawn as '@' so a candidate placement can be shown on top.
func (f *Field) ToDisplayText(highlight ...Cell) string {
	marked := make(map[[2]int]bool, len(highlight))
	for _, c := range highlight {
		marked[[2]int{c.X, c.Y}] = true
	}
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < f.width; x++ {
		sb.WriteString(fmt.Sprintf("%d", x%10))
	}
	sb.WriteString("\n   " + strings.Repeat("-", f.width) + "\n")
	for y := 0; y < f.height; y++ {
		sb.WriteString(fmt.Sprintf("%2d|", y))
		for x := 0; x < f.width; x++ {
			if marked[[2]int{x, y}] {
				sb.WriteString("@")
				continue
			}
			sb.WriteString(stateGlyphs[f.Get(x, y)])
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", f.width) + "\n")
	return "\n" + sb.String()
}

// FromRows builds a field from a picture: one string per row, top to
// bottom, using the glyphs of ToDisplayText. Useful for tests and the
// shell.
func FromRows(rows ...string) (*Field, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadDimensions)
	}
	f, err := New(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != f.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrBadFieldText, y, len(row), f.width)
		}
		for x, r := range row {
			s, ok := glyphState(r)
			if !ok {
				return nil, fmt.Errorf("%w: bad glyph %q at (%d, %d)", ErrBadFieldText, r, x, y)
			}
			f.Set(x, y, s)
		}
	}
	return f, nil
}

func glyphState(r rune) (CellState, bool) {
	for s, g := range stateGlyphs {
		if string(r) == g {
			return CellState(s), true
		}
	}
	return Empty, false
}
