package move

import (
	"github.com/lentono/blockbot/shape"
)

// Translate returns the inputs that take kind from its spawn column spawnX
// to targetX at the given rotation: turns first, then shifts, then a drop.
// spawnX is the host's piece position, the top-left of the spawn box.
func Translate(kind shape.Kind, rotation, spawnX, targetX int) []Action {
	if rotation < 0 || rotation >= shape.NumRotations(kind) {
		rotation = 0
	}
	x := spawnX + shape.AnchorCorrection(kind, rotation)
	shift := targetX - x
	actions := make([]Action, 0, rotation+abs(shift)+1)
	for i := 0; i < rotation; i++ {
		actions = append(actions, ActionRotateRight)
	}
	for ; shift > 0; shift-- {
		actions = append(actions, ActionShiftRight)
	}
	for ; shift < 0; shift++ {
		actions = append(actions, ActionShiftLeft)
	}
	return append(actions, ActionDrop)
}

// TranslatePlacement is Translate for a chosen placement.
func TranslatePlacement(p *Placement, spawnX int) []Action {
	return Translate(p.Shape, p.Rotation, spawnX, p.X)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
