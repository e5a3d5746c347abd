package field

import "fmt"

// CellState is the occupancy of a single field cell. The numeric values are
// the codes the host uses in its field text.
type CellState uint8

const (
	Empty CellState = iota
	// FallingShape marks the piece the player currently controls.
	FallingShape
	// LockedBlock marks cells of pieces that have landed.
	LockedBlock
	// Garbage marks penalty rows. They are never cleared.
	Garbage

	numCellStates
)

func (s CellState) String() string {
	switch s {
	case Empty:
		return "empty"
	case FallingShape:
		return "shape"
	case LockedBlock:
		return "block"
	case Garbage:
		return "solid"
	}
	return fmt.Sprintf("CellState(%d)", uint8(s))
}

// Filled reports whether the cell blocks pieces: landed blocks and garbage.
func (s CellState) Filled() bool {
	return s == LockedBlock || s == Garbage
}

// Cell is a grid position together with its state.
type Cell struct {
	X, Y  int
	State CellState
}
