package move

import (
	"fmt"

	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/shape"
)

// Placement is a resting position for a piece together with the score the
// field would have with the piece there. Placements only live for a single
// decision.
type Placement struct {
	Shape    shape.Kind
	Rotation int
	X, Y     int
	Score    float64
}

// NewPlacement creates a placement for kind anchored at (x, y).
func NewPlacement(kind shape.Kind, rotation, x, y int, score float64) *Placement {
	return &Placement{Shape: kind, Rotation: rotation, X: x, Y: y, Score: score}
}

// Cells returns the field cells the placement covers.
func (p *Placement) Cells() []field.Cell {
	cells, ok := field.Resolve(p.Shape, p.Rotation, p.X, p.Y)
	if !ok {
		return nil
	}
	return cells[:]
}

// String provides a string just for debugging purposes.
func (p *Placement) String() string {
	return fmt.Sprintf("<%v rot: %d x: %d y: %d score: %.4f>",
		p.Shape, p.Rotation, p.X, p.Y, p.Score)
}

// ShortDescription is a compact form for logs and the shell.
func (p *Placement) ShortDescription() string {
	return fmt.Sprintf("%v%d@%d,%d", p.Shape, p.Rotation, p.X, p.Y)
}

// Equals compares the position, ignoring the score.
func (p *Placement) Equals(other *Placement) bool {
	return p.Shape == other.Shape && p.Rotation == other.Rotation &&
		p.X == other.X && p.Y == other.Y
}
