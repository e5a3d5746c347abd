package field

import (
	"github.com/lentono/blockbot/shape"
)

// Resolve returns the four absolute cells kind covers at rotation when
// anchored at (x, y). The cells are not checked against any field. ok is
// false for unknown kinds and unsupported rotations.
func Resolve(kind shape.Kind, rotation, x, y int) (cells [shape.CellsPerShape]Cell, ok bool) {
	offs, ok := shape.Offsets(kind, rotation)
	if !ok {
		return cells, false
	}
	for i, o := range offs {
		cells[i] = Cell{X: x + o.DX, Y: y + o.DY, State: LockedBlock}
	}
	return cells, true
}

// CheckValidPlacement reports whether kind at rotation can rest with its
// anchor at (x, y): every cell in bounds, empty and accessible from above.
// When it fits, score is the heuristic value of the field with the piece
// in place. The field is left exactly as it was.
func (f *Field) CheckValidPlacement(kind shape.Kind, rotation, x, y int) (fits bool, score float64) {
	return f.checkPlacement(kind, rotation, x, y, true)
}

// CheckPlacementUnrestricted is CheckValidPlacement without the
// accessibility requirement.
func (f *Field) CheckPlacementUnrestricted(kind shape.Kind, rotation, x, y int) (fits bool, score float64) {
	return f.checkPlacement(kind, rotation, x, y, false)
}

func (f *Field) checkPlacement(kind shape.Kind, rotation, x, y int, needAccess bool) (bool, float64) {
	cells, ok := Resolve(kind, rotation, x, y)
	if !ok {
		return false, 0
	}
	for _, c := range cells {
		if f.HasCollision(c.X, c.Y) {
			return false, 0
		}
		if needAccess && !f.IsAccessible(c.X, c.Y) {
			return false, 0
		}
	}
	var score float64
	f.withPlacement(cells[:], func() {
		score = f.CalculateMoveScore()
	})
	return true, score
}

// withPlacement marks cells as landed blocks for the duration of fn. The
// previous states are restored when fn returns or panics.
func (f *Field) withPlacement(cells []Cell, fn func()) {
	prior := make([]CellState, len(cells))
	for i, c := range cells {
		prior[i] = f.Get(c.X, c.Y)
	}
	defer func() {
		for i := len(cells) - 1; i >= 0; i-- {
			f.Set(cells[i].X, cells[i].Y, prior[i])
		}
	}()
	for _, c := range cells {
		f.Set(c.X, c.Y, LockedBlock)
	}
	fn()
}

// Fits reports whether none of cells collides with the field.
func (f *Field) Fits(cells []Cell) bool {
	for _, c := range cells {
		if f.HasCollision(c.X, c.Y) {
			return false
		}
	}
	return true
}

// Collides reports whether any of second lands on one of first or on a
// cell that is already occupied in the field.
func (f *Field) Collides(first, second []Cell) bool {
	taken := make(map[[2]int]bool, len(first))
	for _, c := range first {
		taken[[2]int{c.X, c.Y}] = true
	}
	for _, c := range second {
		if taken[[2]int{c.X, c.Y}] || f.HasCollision(c.X, c.Y) {
			return true
		}
	}
	return false
}
