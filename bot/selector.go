package bot

import (
	"sort"

	"github.com/samber/lo"

	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/move"
)

type pairing struct {
	current, next *move.Placement
}

func (p pairing) combined() float64 {
	return p.current.Score + p.next.Score
}

// SelectTwoPiece pairs the best breadth placements of the current piece with
// the best breadth placements of the next piece and returns the pairing with
// the highest combined score in which the next piece does not land on the
// current piece or on an occupied cell. Both lists must be sorted best
// first.
//
// When every pairing collides, or there are no next placements, the best
// current placement is returned with a nil next. Both results are nil only
// when current is empty.
func SelectTwoPiece(f *field.Field, current, next []*move.Placement, breadth int) (*move.Placement, *move.Placement) {
	if len(current) == 0 {
		return nil, nil
	}
	topCurrent := lo.Slice(current, 0, breadth)
	topNext := lo.Slice(next, 0, breadth)

	pairings := make([]pairing, 0, len(topCurrent)*len(topNext))
	for _, c := range topCurrent {
		for _, n := range topNext {
			pairings = append(pairings, pairing{current: c, next: n})
		}
	}
	sort.SliceStable(pairings, func(i, j int) bool {
		return pairings[j].combined() < pairings[i].combined()
	})

	for _, p := range pairings {
		if !f.Collides(p.current.Cells(), p.next.Cells()) {
			return p.current, p.next
		}
	}
	return current[0], nil
}
