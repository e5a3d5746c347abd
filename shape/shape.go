// Package shape holds the static geometry of the seven block-battle pieces:
// which rotations each piece supports and which cells it covers relative to
// its anchor.
package shape

import (
	"fmt"
	"strings"
)

// Kind identifies one of the seven pieces. The numbering follows the
// alphabetical order of the host's piece letters.
type Kind int

const (
	I Kind = iota
	J
	L
	O
	S
	T
	Z

	NumKinds = 7
)

// CellsPerShape is the number of cells every piece occupies.
const CellsPerShape = 4

// MaxRotations is the number of distinct rotation indexes a piece can have.
const MaxRotations = 4

var kindLetters = [NumKinds]string{"I", "J", "L", "O", "S", "T", "Z"}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindLetters[k]
}

// Valid reports whether k is one of the seven known pieces.
func (k Kind) Valid() bool {
	return k >= 0 && k < NumKinds
}

// ParseKind converts a host piece letter (I, J, L, O, S, T, Z) into a Kind.
func ParseKind(letter string) (Kind, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for i, l := range kindLetters {
		if l == letter {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown piece type %q", letter)
}

// Offset is a cell position relative to a piece anchor. DY grows downward,
// so negative values are above the anchor row.
type Offset struct {
	DX, DY int
}

// The anchor is the bottom-left corner of the piece's bounding box: for
// every entry min(DX) == 0 and max(DY) == 0.
var offsetTable = [NumKinds][][CellsPerShape]Offset{
	I: {
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		{{0, 0}, {0, -1}, {0, -2}, {0, -3}},
	},
	J: {
		{{0, 0}, {1, 0}, {2, 0}, {0, -1}},
		{{0, 0}, {0, -1}, {0, -2}, {1, -2}},
		{{0, -1}, {1, -1}, {2, -1}, {2, 0}},
		{{1, 0}, {1, -1}, {1, -2}, {0, 0}},
	},
	L: {
		{{0, 0}, {1, 0}, {2, 0}, {2, -1}},
		{{0, 0}, {0, -1}, {0, -2}, {1, 0}},
		{{0, -1}, {1, -1}, {2, -1}, {0, 0}},
		{{1, 0}, {1, -1}, {1, -2}, {0, -2}},
	},
	O: {
		{{0, 0}, {1, 0}, {0, -1}, {1, -1}},
	},
	S: {
		{{0, 0}, {1, 0}, {1, -1}, {2, -1}},
		{{1, 0}, {1, -1}, {0, -1}, {0, -2}},
	},
	T: {
		{{0, 0}, {1, 0}, {2, 0}, {1, -1}},
		{{0, 0}, {0, -1}, {0, -2}, {1, -1}},
		{{1, 0}, {0, -1}, {1, -1}, {2, -1}},
		{{0, -1}, {1, 0}, {1, -1}, {1, -2}},
	},
	Z: {
		{{1, 0}, {2, 0}, {0, -1}, {1, -1}},
		{{0, 0}, {0, -1}, {1, -1}, {1, -2}},
	},
}

// Offsets returns the four cells covered by kind at rotation, relative to
// the anchor. ok is false for unknown kinds and for rotations the piece
// does not support.
func Offsets(kind Kind, rotation int) (offsets [CellsPerShape]Offset, ok bool) {
	if !kind.Valid() || rotation < 0 || rotation >= len(offsetTable[kind]) {
		return offsets, false
	}
	return offsetTable[kind][rotation], true
}

// NumRotations returns how many rotation indexes kind supports; rotations
// 0..NumRotations-1 are valid. Unknown kinds have none.
func NumRotations(kind Kind) int {
	if !kind.Valid() {
		return 0
	}
	return len(offsetTable[kind])
}

// ValidRotations lists the rotation indexes kind supports.
func ValidRotations(kind Kind) []int {
	n := NumRotations(kind)
	rots := make([]int, n)
	for i := range rots {
		rots[i] = i
	}
	return rots
}

// Bounds returns the width and height of the bounding box of kind at
// rotation. A placement anchored at (x, y) stays in a w x h field iff
// x+width-1 < w, x >= 0, y-(height-1) >= 0 and y < h.
func Bounds(kind Kind, rotation int) (width, height int, ok bool) {
	offs, ok := Offsets(kind, rotation)
	if !ok {
		return 0, 0, false
	}
	for _, o := range offs {
		if o.DX+1 > width {
			width = o.DX + 1
		}
		if -o.DY+1 > height {
			height = -o.DY + 1
		}
	}
	return width, height, true
}
