// Package movegen finds the resting placements available to a piece.
package movegen

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/move"
	"github.com/lentono/blockbot/shape"
)

// MoveGenerator produces the candidate placements for a piece, best first.
type MoveGenerator interface {
	GenAll(f *field.Field, kind shape.Kind) []*move.Placement
}

type checkFunc func(f *field.Field, kind shape.Kind, rotation, x, y int) (bool, float64)

// ColumnScanGenerator approximates gravity without simulating it: in every
// column it scans rows from the garbage floor upward and keeps the first
// row where the piece fits. At most one placement is produced per
// (rotation, column).
type ColumnScanGenerator struct {
	check checkFunc
}

// NewColumnScanGenerator returns a generator that only keeps placements a
// piece can reach by sliding straight down.
func NewColumnScanGenerator() *ColumnScanGenerator {
	return &ColumnScanGenerator{check: (*field.Field).CheckValidPlacement}
}

// NewUnrestrictedGenerator returns a generator that ignores whether the
// piece can reach the placement. It is the fallback for fields where no
// reachable placement exists.
func NewUnrestrictedGenerator() *ColumnScanGenerator {
	return &ColumnScanGenerator{check: (*field.Field).CheckPlacementUnrestricted}
}

// GenAll returns the placements for kind sorted by descending score. Equal
// scores keep their generation order: rotation first, then column.
func (g *ColumnScanGenerator) GenAll(f *field.Field, kind shape.Kind) []*move.Placement {
	floor := f.Height() - 1 - f.SolidRowCount()
	plays := make([]*move.Placement, 0, shape.NumRotations(kind)*f.Width())
	for _, rot := range shape.ValidRotations(kind) {
		for x := 0; x < f.Width(); x++ {
			for y := floor; y >= 0; y-- {
				fits, score := g.check(f, kind, rot, x, y)
				if fits {
					plays = append(plays, move.NewPlacement(kind, rot, x, y, score))
					break
				}
			}
		}
	}
	SortPlacements(plays)
	log.Debug().Str("shape", kind.String()).Int("nplays", len(plays)).Msg("generated-placements")
	return plays
}

// SortPlacements orders placements by descending score, keeping the
// relative order of equal scores.
func SortPlacements(plays []*move.Placement) {
	sort.SliceStable(plays, func(i, j int) bool {
		return plays[j].Score < plays[i].Score
	})
}
