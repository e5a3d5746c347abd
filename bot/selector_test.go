package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/move"
	"github.com/lentono/blockbot/shape"
)

func TestSelectTwoPieceSkipsCollidingPairs(t *testing.T) {
	f, _ := field.New(10, 20)
	a := move.NewPlacement(shape.O, 0, 0, 19, -1)
	b := move.NewPlacement(shape.O, 0, 4, 19, -2)
	c := move.NewPlacement(shape.O, 0, 0, 19, -1)
	d := move.NewPlacement(shape.O, 0, 8, 19, -3)

	cur, next := SelectTwoPiece(f, []*move.Placement{a, b}, []*move.Placement{c, d}, LookaheadBreadth)
	// a+c scores best but c lands on a.
	assert.Same(t, b, cur)
	assert.Same(t, c, next)
}

func TestSelectTwoPieceFallsBack(t *testing.T) {
	f, _ := field.New(10, 20)
	a := move.NewPlacement(shape.O, 0, 0, 19, -1)
	b := move.NewPlacement(shape.O, 0, 4, 19, -2)
	same := move.NewPlacement(shape.O, 0, 0, 19, -1)
	far := move.NewPlacement(shape.O, 0, 8, 19, -3)

	cur, next := SelectTwoPiece(f, []*move.Placement{a}, []*move.Placement{same}, LookaheadBreadth)
	assert.Same(t, a, cur)
	assert.Nil(t, next)

	cur, next = SelectTwoPiece(f, []*move.Placement{a, b}, nil, LookaheadBreadth)
	assert.Same(t, a, cur)
	assert.Nil(t, next)

	// far is outside the breadth.
	cur, next = SelectTwoPiece(f, []*move.Placement{a}, []*move.Placement{same, far}, 1)
	assert.Same(t, a, cur)
	assert.Nil(t, next)

	cur, next = SelectTwoPiece(f, nil, []*move.Placement{far}, LookaheadBreadth)
	assert.Nil(t, cur)
	assert.Nil(t, next)
}

func TestSelectTwoPieceRejectsFilledCells(t *testing.T) {
	f, _ := field.New(10, 20)
	f.Set(9, 19, field.LockedBlock)
	a := move.NewPlacement(shape.O, 0, 0, 19, -1)
	bad := move.NewPlacement(shape.O, 0, 8, 19, 5)
	good := move.NewPlacement(shape.O, 0, 4, 19, -2)

	cur, next := SelectTwoPiece(f, []*move.Placement{a}, []*move.Placement{bad, good}, LookaheadBreadth)
	assert.Same(t, a, cur)
	assert.Same(t, good, next)
}
