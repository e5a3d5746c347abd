// Package field models one player's playing field: a dense grid of cells
// with the feasibility checks and the heuristic used to pick placements.
package field

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/lentono/blockbot/equity"
)

// MaxDimension bounds each side of a field. Block-battle fields are 10x20.
const MaxDimension = 1024

var (
	ErrBadDimensions = errors.New("field dimensions must be in [1, 1024]")
	ErrBadFieldText  = errors.New("malformed field text")
)

// Field is a width x height grid of cells. Row 0 is the top row.
type Field struct {
	width      int
	height     int
	grid       []CellState
	calculator equity.Calculator
}

// New returns an empty field scored with the default weights.
func New(width, height int) (*Field, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	return &Field{
		width:      width,
		height:     height,
		grid:       make([]CellState, width*height),
		calculator: equity.DefaultWeights,
	}, nil
}

// Parse builds a field from the host's text representation: rows separated
// by ';' from top to bottom, cell codes within a row separated by ','.
func Parse(width, height int, text string) (*Field, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	rows := strings.Split(strings.TrimSpace(text), ";")
	if len(rows) != height {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrBadFieldText, height, len(rows))
	}
	grid := make([][]string, len(rows))
	for y, row := range rows {
		grid[y] = strings.Split(row, ",")
		if len(grid[y]) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrBadFieldText, y, len(grid[y]), width)
		}
	}
	f, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for y, codes := range grid {
		for x, code := range codes {
			n, err := strconv.Atoi(strings.TrimSpace(code))
			if err != nil || n < 0 || n >= int(numCellStates) {
				return nil, fmt.Errorf("%w: bad cell code %q at (%d, %d)", ErrBadFieldText, code, x, y)
			}
			f.Set(x, y, CellState(n))
		}
	}
	return f, nil
}

func (f *Field) Width() int  { return f.width }
func (f *Field) Height() int { return f.height }

// Get returns the state of the cell at (x, y), which must be in bounds.
func (f *Field) Get(x, y int) CellState {
	return f.grid[y*f.width+x]
}

func (f *Field) Set(x, y int, s CellState) {
	f.grid[y*f.width+x] = s
}

// Cell returns the cell at (x, y), which must be in bounds.
func (f *Field) Cell(x, y int) Cell {
	return Cell{X: x, Y: y, State: f.Get(x, y)}
}

func (f *Field) Calculator() equity.Calculator {
	return f.calculator
}

// SetCalculator changes what CalculateMoveScore scores the features with.
func (f *Field) SetCalculator(c equity.Calculator) {
	f.calculator = c
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := *f
	c.grid = make([]CellState, len(f.grid))
	copy(c.grid, f.grid)
	return &c
}

// Settled returns a copy of the field with the falling piece removed, which
// is the field the falling piece will be placed onto.
func (f *Field) Settled() *Field {
	c := f.Clone()
	for i, s := range c.grid {
		if s == FallingShape {
			c.grid[i] = Empty
		}
	}
	return c
}

// Equals reports whether both fields have the same size and cells.
func (f *Field) Equals(other *Field) bool {
	if f.width != other.width || f.height != other.height {
		return false
	}
	for i := range f.grid {
		if f.grid[i] != other.grid[i] {
			return false
		}
	}
	return true
}

// SolidRowCount counts garbage rows from the bottom up, stopping at the
// first row that is not garbage. Garbage rows span the full width, so only
// the first column is inspected.
func (f *Field) SolidRowCount() int {
	count := 0
	for y := f.height - 1; y >= 0; y-- {
		if f.Get(0, y) != Garbage {
			break
		}
		count++
	}
	return count
}

// IsOutOfBounds reports whether (x, y) lies outside the grid.
func (f *Field) IsOutOfBounds(x, y int) bool {
	return x < 0 || x >= f.width || y < 0 || y >= f.height
}

// HasCollision reports whether a piece cell cannot go to (x, y): the
// position is outside the grid or already holds something.
func (f *Field) HasCollision(x, y int) bool {
	return f.IsOutOfBounds(x, y) || f.Get(x, y) != Empty
}

// accessRows is how many rows above a cell are checked for blocks.
const accessRows = 8

// IsAccessible reports whether a piece could slide straight down into
// (x, y): no block or garbage in that column from row y up to row y-8.
func (f *Field) IsAccessible(x, y int) bool {
	if f.IsOutOfBounds(x, y) {
		return false
	}
	limit := max(0, y-accessRows)
	for row := y; row >= limit; row-- {
		if f.Get(x, row).Filled() {
			return false
		}
	}
	return true
}

// DetectGameLoss reports whether the falling piece sits in the top row on
// top of a landed block, meaning a new piece cannot enter the field.
func (f *Field) DetectGameLoss() bool {
	if f.height < 2 {
		return false
	}
	for x := 0; x < f.width; x++ {
		if f.Get(x, 0) == FallingShape && f.Get(x, 1) == LockedBlock {
			return true
		}
	}
	return false
}

// Hash returns a fingerprint of the field size and contents.
func (f *Field) Hash() uint64 {
	bts := make([]byte, 8, 8+len(f.grid))
	binary.LittleEndian.PutUint32(bts[0:4], uint32(f.width))
	binary.LittleEndian.PutUint32(bts[4:8], uint32(f.height))
	for _, s := range f.grid {
		bts = append(bts, byte(s))
	}
	return xxhash.Sum64(bts)
}

// String returns the field in the host's text format.
func (f *Field) String() string {
	var sb strings.Builder
	for y := 0; y < f.height; y++ {
		if y > 0 {
			sb.WriteByte(';')
		}
		for x := 0; x < f.width; x++ {
			if x > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(int(f.Get(x, y))))
		}
	}
	return sb.String()
}
