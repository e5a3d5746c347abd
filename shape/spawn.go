package shape

// The host spawns every piece inside a square box whose top-left corner is
// the reported piece position, and rotates pieces clockwise inside that box.
// Rotation therefore moves the leftmost occupied column of a piece, and the
// amount it moves is fully determined by the box size and where the
// rotation-0 cells sit inside the box.
var spawnBoxSizes = [NumKinds]int{
	I: 4,
	J: 3,
	L: 3,
	O: 2,
	S: 3,
	T: 3,
	Z: 3,
}

// Box row holding the bottom row of every rotation-0 piece.
const spawnBottomRow = 1

// BoxCell is a cell position inside a spawn box; Row grows downward.
type BoxCell struct {
	Col, Row int
}

// SpawnBoxSize returns the side of the square box kind spawns in.
func SpawnBoxSize(kind Kind) int {
	if !kind.Valid() {
		return 0
	}
	return spawnBoxSizes[kind]
}

// SpawnCells returns the cells kind occupies inside its spawn box after
// rotation clockwise turns.
func SpawnCells(kind Kind, rotation int) ([CellsPerShape]BoxCell, bool) {
	var cells [CellsPerShape]BoxCell
	if _, ok := Offsets(kind, rotation); !ok {
		return cells, false
	}
	size := spawnBoxSizes[kind]
	base, _ := Offsets(kind, 0)
	for i, o := range base {
		cells[i] = BoxCell{Col: o.DX, Row: spawnBottomRow + o.DY}
	}
	for r := 0; r < rotation; r++ {
		for i, c := range cells {
			cells[i] = BoxCell{Col: size - 1 - c.Row, Row: c.Col}
		}
	}
	return cells, true
}

// Normalize translates box cells into anchor offsets, placing the leftmost
// column at DX 0 and the bottom row at DY 0.
func Normalize(cells [CellsPerShape]BoxCell) [CellsPerShape]Offset {
	minCol, maxRow := cells[0].Col, cells[0].Row
	for _, c := range cells[1:] {
		minCol = min(minCol, c.Col)
		maxRow = max(maxRow, c.Row)
	}
	var offs [CellsPerShape]Offset
	for i, c := range cells {
		offs[i] = Offset{DX: c.Col - minCol, DY: c.Row - maxRow}
	}
	return offs
}

func leftmostCol(cells [CellsPerShape]BoxCell) int {
	col := cells[0].Col
	for _, c := range cells[1:] {
		col = min(col, c.Col)
	}
	return col
}

// AnchorCorrection is how far the anchor column of kind moves to the right
// when the piece is turned from rotation 0 to rotation inside its spawn box.
// Unsupported rotations have no correction.
func AnchorCorrection(kind Kind, rotation int) int {
	rotated, ok := SpawnCells(kind, rotation)
	if !ok {
		return 0
	}
	base, _ := SpawnCells(kind, 0)
	return leftmostCol(rotated) - leftmostCol(base)
}

// SpawnX returns the column the host places the top-left corner of kind's
// spawn box at on a field of the given width.
func SpawnX(kind Kind, width int) int {
	return (width - SpawnBoxSize(kind) + 1) / 2
}
