package field

import (
	"github.com/lentono/blockbot/equity"
)

// Features measures the field as it is currently laid out.
func (f *Field) Features() equity.Features {
	feats := equity.Features{Heights: make([]int, f.width)}

	for x := 0; x < f.width; x++ {
		height := 0
		run := 0
		for y := f.height - 1; y >= 0; y-- {
			s := f.Get(x, y)
			if s == Empty {
				run++
				continue
			}
			if s.Filled() {
				height = f.height - y
				// Every empty cell seen so far sits below this block.
				feats.BlockedHoles += run
				run = 0
			}
		}
		feats.Heights[x] = height
		feats.HeightSum += height
	}

	for y := 0; y < f.height; y++ {
		complete := true
		for x := 0; x < f.width; x++ {
			if s := f.Get(x, y); s == Empty || s == Garbage {
				complete = false
				break
			}
		}
		if complete {
			feats.CompletedLines++
		}
	}

	// Adjacent pairs across the whole width, not a fixed ten columns.
	for x := 0; x+1 < f.width; x++ {
		d := feats.Heights[x] - feats.Heights[x+1]
		if d < 0 {
			d = -d
		}
		feats.Roughness += d
	}
	return feats
}

// CalculateMoveScore scores the field as it is currently laid out with the
// field's calculator.
func (f *Field) CalculateMoveScore() float64 {
	return f.calculator.Equity(f.Features())
}
