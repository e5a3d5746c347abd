// Package bot decides where to put the current piece. It looks one piece
// ahead: the current piece is only committed to a spot that leaves a
// collision-free spot for the next piece.
package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/lentono/blockbot/equity"
	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/move"
	"github.com/lentono/blockbot/movegen"
	"github.com/lentono/blockbot/shape"
)

// LookaheadBreadth is how many of the best placements of each piece are
// paired up, bounding a decision to LookaheadBreadth^2 pairs.
const LookaheadBreadth = 10

// Source tells how a decision's placement was found.
type Source int

const (
	// SourceLookahead: best collision-free pairing of current and next piece.
	SourceLookahead Source = iota
	// SourceBestSingle: no pairing was collision-free; best current placement.
	SourceBestSingle
	// SourceUnrestricted: nothing reachable; best placement ignoring reachability.
	SourceUnrestricted
	// SourceNone: no placement fits at all; the piece is dropped where it spawned.
	SourceNone
)

func (s Source) String() string {
	switch s {
	case SourceLookahead:
		return "lookahead"
	case SourceBestSingle:
		return "best-single"
	case SourceUnrestricted:
		return "unrestricted"
	case SourceNone:
		return "none"
	}
	return "unknown"
}

// Request is everything needed for one decision.
type Request struct {
	// Field is the acting player's field, falling piece included.
	Field   *field.Field
	Current shape.Kind
	Next    shape.Kind
	// SpawnX and SpawnY are the host's position of the current piece: the
	// top-left corner of its spawn box.
	SpawnX, SpawnY int
}

// Decision is the outcome of one decision cycle.
type Decision struct {
	Placement *move.Placement
	// Next is the spot assumed for the next piece. Advisory only.
	Next    *move.Placement
	Actions []move.Action
	Source  Source
	// Lost is set when the field shows the game is already lost.
	Lost bool
}

type Engine struct {
	weights  equity.Weights
	gen      movegen.MoveGenerator
	fallback movegen.MoveGenerator
	breadth  int
}

// NewEngine creates an engine that scores fields with weights.
func NewEngine(weights equity.Weights) *Engine {
	return &Engine{
		weights:  weights,
		gen:      movegen.NewColumnScanGenerator(),
		fallback: movegen.NewUnrestrictedGenerator(),
		breadth:  LookaheadBreadth,
	}
}

func (e *Engine) Weights() equity.Weights {
	return e.weights
}

// Decide runs one decision cycle. It always produces a placement and a
// non-empty action list ending in a drop. req.Field is not modified.
func (e *Engine) Decide(req Request) *Decision {
	d := &Decision{Lost: req.Field.DetectGameLoss()}

	settled := req.Field.Settled()
	settled.SetCalculator(e.weights)

	current := e.gen.GenAll(settled, req.Current)
	next := e.gen.GenAll(settled, req.Next)

	cur, nxt := SelectTwoPiece(settled, current, next, e.breadth)
	switch {
	case cur != nil && nxt != nil:
		d.Source = SourceLookahead
	case cur != nil:
		d.Source = SourceBestSingle
	default:
		relaxed := e.fallback.GenAll(settled, req.Current)
		if len(relaxed) > 0 {
			cur = relaxed[0]
			d.Source = SourceUnrestricted
		} else {
			cur = move.NewPlacement(req.Current, 0, req.SpawnX, req.SpawnY, 0)
			d.Source = SourceNone
		}
	}
	d.Placement = cur
	d.Next = nxt
	d.Actions = move.TranslatePlacement(cur, req.SpawnX)

	ev := log.Debug().
		Str("current", req.Current.String()).
		Str("next", req.Next.String()).
		Int("ncurrent", len(current)).
		Int("nnext", len(next)).
		Stringer("source", d.Source).
		Stringer("placement", cur).
		Bool("lost", d.Lost)
	if nxt != nil {
		ev = ev.Stringer("next-placement", nxt)
	}
	ev.Msg("decision")
	return d
}
