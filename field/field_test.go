package field

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/lentono/blockbot/equity"
	"github.com/lentono/blockbot/shape"
)

func emptyField(t *testing.T, w, h int) *Field {
	t.Helper()
	f, err := New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func mustRows(t *testing.T, rows ...string) *Field {
	t.Helper()
	f, err := FromRows(rows...)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestNewRejectsBadDimensions(t *testing.T) {
	is := is.New(t)
	_, err := New(0, 20)
	is.True(errors.Is(err, ErrBadDimensions))
	_, err = New(10, -1)
	is.True(errors.Is(err, ErrBadDimensions))
	_, err = New(MaxDimension+1, 20)
	is.True(errors.Is(err, ErrBadDimensions))
	// The product would overflow int; the sides are rejected first.
	_, err = New(1<<62, 4)
	is.True(errors.Is(err, ErrBadDimensions))
	f, err := New(MaxDimension, MaxDimension)
	is.NoErr(err)
	is.Equal(f.Height(), MaxDimension)
}

func TestParseRejectsHugeDimensions(t *testing.T) {
	is := is.New(t)
	_, err := Parse(1<<31, 1<<31, "0")
	is.True(errors.Is(err, ErrBadDimensions))
	_, err = Parse(10, 1<<20, "0")
	is.True(errors.Is(err, ErrBadDimensions))
	// Row counts are checked against the text before anything is allocated.
	_, err = Parse(MaxDimension, MaxDimension, "0")
	is.True(errors.Is(err, ErrBadFieldText))
}

func TestParse(t *testing.T) {
	is := is.New(t)
	f, err := Parse(3, 2, "0,1,0;2,3,2")
	is.NoErr(err)
	is.Equal(f.Get(1, 0), FallingShape)
	is.Equal(f.Get(0, 1), LockedBlock)
	is.Equal(f.Get(1, 1), Garbage)
	is.Equal(f.String(), "0,1,0;2,3,2")

	for _, bad := range []string{
		"0,1,0",
		"0,1;2,3,2",
		"0,1,0;2,9,2",
		"0,x,0;2,3,2",
		"0,1,0;2,3,2;0,0,0",
	} {
		_, err := Parse(3, 2, bad)
		is.True(errors.Is(err, ErrBadFieldText))
	}
}

func TestFromRowsRoundTrip(t *testing.T) {
	f := mustRows(t,
		"..o.",
		"#..=",
	)
	assert.Equal(t, FallingShape, f.Get(2, 0))
	assert.Equal(t, LockedBlock, f.Get(0, 1))
	assert.Equal(t, Garbage, f.Get(3, 1))
	assert.True(t, strings.Contains(f.ToDisplayText(), "#..="))
	assert.True(t, strings.Contains(f.ToDisplayText(Cell{X: 1, Y: 1}), "#@.="))

	_, err := FromRows("..", "...")
	assert.ErrorIs(t, err, ErrBadFieldText)
	_, err = FromRows("?.")
	assert.ErrorIs(t, err, ErrBadFieldText)
}

func TestSolidRowCount(t *testing.T) {
	is := is.New(t)
	is.Equal(emptyField(t, 4, 4).SolidRowCount(), 0)
	f := mustRows(t,
		"....",
		"#..#",
		"====",
		"====",
	)
	is.Equal(f.SolidRowCount(), 2)
	f = mustRows(t,
		"....",
		"====",
		"#.#.",
		"====",
	)
	is.Equal(f.SolidRowCount(), 1)
}

func TestIsAccessible(t *testing.T) {
	is := is.New(t)
	f := emptyField(t, 4, 12)
	f.Set(0, 2, LockedBlock)
	// Rows 10 down to 2 are scanned and row 2 is blocked.
	is.True(!f.IsAccessible(0, 10))
	// Rows 11 down to 3 are clear.
	is.True(f.IsAccessible(0, 11))
	is.True(f.IsAccessible(1, 10))
	is.True(!f.IsAccessible(0, 2))
	is.True(!f.IsAccessible(-1, 2))
	f.Set(3, 0, Garbage)
	is.True(!f.IsAccessible(3, 5))
}

func TestPredicates(t *testing.T) {
	is := is.New(t)
	f := emptyField(t, 4, 4)
	f.Set(1, 1, FallingShape)
	is.True(f.IsOutOfBounds(4, 0))
	is.True(f.IsOutOfBounds(0, -1))
	is.True(!f.IsOutOfBounds(3, 3))
	is.True(f.HasCollision(1, 1))
	is.True(f.HasCollision(-1, 1))
	is.True(!f.HasCollision(2, 2))
}

func TestDetectGameLoss(t *testing.T) {
	is := is.New(t)
	is.True(!emptyField(t, 10, 20).DetectGameLoss())
	f := mustRows(t,
		".oo.",
		".#..",
		".#..",
	)
	is.True(f.DetectGameLoss())
	f = mustRows(t,
		".oo.",
		"#..#",
		"####",
	)
	is.True(!f.DetectGameLoss())
	// Garbage under the piece does not count.
	f = mustRows(t,
		"oo..",
		"====",
	)
	is.True(!f.DetectGameLoss())
}

func TestSettledAndClone(t *testing.T) {
	is := is.New(t)
	f := mustRows(t,
		".oo.",
		"#..#",
	)
	s := f.Settled()
	is.Equal(s.Get(1, 0), Empty)
	is.Equal(f.Get(1, 0), FallingShape)
	is.Equal(s.Get(0, 1), LockedBlock)

	c := f.Clone()
	is.True(c.Equals(f))
	is.Equal(c.Hash(), f.Hash())
	c.Set(0, 0, LockedBlock)
	is.True(!c.Equals(f))
	is.True(c.Hash() != f.Hash())
}

func TestCalculateMoveScoreEmpty(t *testing.T) {
	for _, dims := range [][2]int{{10, 20}, {4, 4}, {1, 1}, {17, 3}} {
		f := emptyField(t, dims[0], dims[1])
		assert.Equal(t, 0.0, f.CalculateMoveScore())
	}
}

func TestOneCompletedLine(t *testing.T) {
	is := is.New(t)
	f := emptyField(t, 10, 20)
	for x := 0; x < 10; x++ {
		f.Set(x, 19, LockedBlock)
	}
	feats := f.Features()
	is.Equal(feats.CompletedLines, 1)
	is.Equal(feats.HeightSum, 10)
	is.Equal(feats.BlockedHoles, 0)
	is.Equal(feats.Roughness, 0)
}

func TestGarbageRowIsNotACompletedLine(t *testing.T) {
	f := mustRows(t,
		"....",
		"####",
		"====",
	)
	feats := f.Features()
	assert.Equal(t, 1, feats.CompletedLines)
	assert.Equal(t, 8, feats.HeightSum)
}

func TestFallingShapeCompletesLine(t *testing.T) {
	f := mustRows(t,
		"....",
		"##oo",
	)
	feats := f.Features()
	assert.Equal(t, 1, feats.CompletedLines)
	// Falling cells do not give a column height.
	assert.Equal(t, []int{1, 1, 0, 0}, feats.Heights)
}

func TestHolesAndRoughness(t *testing.T) {
	f := mustRows(t,
		"...",
		"#..",
		"...",
		"...",
	)
	feats := f.Features()
	assert.Equal(t, []int{3, 0, 0}, feats.Heights)
	assert.Equal(t, 2, feats.BlockedHoles)
	assert.Equal(t, 3, feats.Roughness)
	assert.Equal(t, 0, feats.CompletedLines)
	expected := -0.510066*3 - 0.35663*2 - 0.184483*3
	assert.InDelta(t, expected, f.CalculateMoveScore(), 1e-9)

	f = mustRows(t,
		"#..",
		".#.",
		"#..",
		"...",
	)
	feats = f.Features()
	// Column 0 has one hole under each block, column 1 has two.
	assert.Equal(t, 4, feats.BlockedHoles)
	assert.Equal(t, []int{4, 3, 0}, feats.Heights)
}

func TestRoughnessUsesFieldWidth(t *testing.T) {
	f := emptyField(t, 12, 5)
	f.Set(11, 4, LockedBlock)
	f.Set(11, 3, LockedBlock)
	assert.Equal(t, 2, f.Features().Roughness)
}

type linesOnly struct{}

func (linesOnly) Equity(feats equity.Features) float64 {
	return float64(feats.CompletedLines)
}

func TestSetCalculator(t *testing.T) {
	f := mustRows(t,
		"..",
		"#.",
	)
	assert.Equal(t, equity.DefaultWeights, f.Calculator())
	f.SetCalculator(equity.Weights{Height: 1})
	assert.Equal(t, 1.0, f.CalculateMoveScore())
	assert.Equal(t, equity.Weights{Height: 1}, f.Calculator())

	g := mustRows(t,
		"..",
		"##",
	)
	g.SetCalculator(linesOnly{})
	assert.Equal(t, 1.0, g.CalculateMoveScore())
	assert.Equal(t, 1.0, g.Clone().CalculateMoveScore())
}

func TestCheckValidPlacementScoresAndReverts(t *testing.T) {
	is := is.New(t)
	f := emptyField(t, 10, 20)
	before := f.Clone()

	fits, score := f.CheckValidPlacement(shape.O, 0, 0, 19)
	is.True(fits)
	assert.InDelta(t, -0.510066*4-0.184483*2, score, 1e-9)
	is.True(f.Equals(before))

	fits2, score2 := f.CheckValidPlacement(shape.O, 0, 0, 19)
	is.Equal(fits, fits2)
	is.Equal(score, score2)
	is.True(f.Equals(before))
}

func TestCheckValidPlacementBounds(t *testing.T) {
	is := is.New(t)
	f := emptyField(t, 10, 20)
	fits, _ := f.CheckValidPlacement(shape.I, 0, 7, 19)
	is.True(!fits) // x+3 == width
	fits, _ = f.CheckValidPlacement(shape.I, 0, 6, 19)
	is.True(fits)
	fits, _ = f.CheckValidPlacement(shape.I, 1, 0, 2)
	is.True(!fits) // y-3 < 0
	fits, _ = f.CheckValidPlacement(shape.I, 1, 0, 3)
	is.True(fits)
	fits, _ = f.CheckValidPlacement(shape.T, 1, 8, 19)
	is.True(fits)
	fits, _ = f.CheckValidPlacement(shape.T, 1, 9, 19)
	is.True(!fits)
	fits, _ = f.CheckValidPlacement(shape.O, 0, -1, 19)
	is.True(!fits)
}

func TestCheckValidPlacementInvalidShape(t *testing.T) {
	is := is.New(t)
	f := emptyField(t, 10, 20)
	fits, score := f.CheckValidPlacement(shape.O, 1, 0, 19)
	is.True(!fits)
	is.Equal(score, 0.0)
	fits, _ = f.CheckValidPlacement(shape.Kind(7), 0, 0, 19)
	is.True(!fits)
	fits, _ = f.CheckValidPlacement(shape.I, 2, 0, 19)
	is.True(!fits)
}

func TestCheckValidPlacementOccupiedAndInaccessible(t *testing.T) {
	is := is.New(t)
	f := mustRows(t,
		"....",
		"....",
		"#...",
		"....",
		"oo..",
	)
	// Under the block in column 0.
	fits, _ := f.CheckValidPlacement(shape.O, 0, 0, 3)
	is.True(!fits)
	// On top of the falling piece.
	fits, _ = f.CheckValidPlacement(shape.O, 0, 0, 4)
	is.True(!fits)
	fits, _ = f.CheckValidPlacement(shape.O, 0, 2, 4)
	is.True(fits)
	// Row 3 is free, but column 0 is covered by the block above.
	fits, _ = f.CheckValidPlacement(shape.I, 0, 0, 3)
	is.True(!fits)
	fits, _ = f.CheckPlacementUnrestricted(shape.I, 0, 0, 3)
	is.True(fits)
	fits, _ = f.CheckPlacementUnrestricted(shape.I, 1, 0, 3)
	is.True(!fits) // crosses the block at row 2
	fits, _ = f.CheckValidPlacement(shape.I, 1, 1, 3)
	is.True(fits)
}

func TestWithPlacementRestoresOnPanic(t *testing.T) {
	f := emptyField(t, 4, 4)
	before := f.Clone()
	cells, _ := Resolve(shape.O, 0, 0, 3)
	assert.Panics(t, func() {
		f.withPlacement(cells[:], func() {
			assert.Equal(t, LockedBlock, f.Get(0, 3))
			panic("scoring failed")
		})
	})
	assert.True(t, f.Equals(before))
}

func TestResolve(t *testing.T) {
	cells, ok := Resolve(shape.J, 1, 2, 5)
	assert.True(t, ok)
	assert.Equal(t, [4]Cell{
		{X: 2, Y: 5, State: LockedBlock},
		{X: 2, Y: 4, State: LockedBlock},
		{X: 2, Y: 3, State: LockedBlock},
		{X: 3, Y: 3, State: LockedBlock},
	}, cells)
	_, ok = Resolve(shape.S, 3, 0, 0)
	assert.False(t, ok)
}

func TestCollides(t *testing.T) {
	is := is.New(t)
	f := mustRows(t,
		"....",
		"....",
		"#...",
	)
	first := []Cell{{X: 1, Y: 2}, {X: 2, Y: 2}}
	is.True(f.Collides(first, []Cell{{X: 2, Y: 2}}))
	is.True(f.Collides(first, []Cell{{X: 0, Y: 2}}))
	is.True(f.Collides(first, []Cell{{X: 4, Y: 2}}))
	is.True(!f.Collides(first, []Cell{{X: 1, Y: 1}, {X: 3, Y: 2}}))
	is.True(f.Fits(first))
	is.True(!f.Fits([]Cell{{X: 0, Y: 2}}))
}
