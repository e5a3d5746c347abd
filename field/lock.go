package field

// Lock permanently places cells on the field as landed blocks.
func (f *Field) Lock(cells []Cell) {
	for _, c := range cells {
		f.Set(c.X, c.Y, LockedBlock)
	}
}

func (f *Field) rowComplete(y int) bool {
	for x := 0; x < f.width; x++ {
		if s := f.Get(x, y); s == Empty || s == Garbage {
			return false
		}
	}
	return true
}

// ClearLines removes every complete row, moving the rows above it down,
// and returns how many rows were removed. Garbage rows never clear.
func (f *Field) ClearLines() int {
	cleared := 0
	// dst walks up from the bottom; rows that survive are copied into it.
	dst := f.height - 1
	for y := f.height - 1; y >= 0; y-- {
		if f.rowComplete(y) {
			cleared++
			continue
		}
		if dst != y {
			copy(f.grid[dst*f.width:(dst+1)*f.width], f.grid[y*f.width:(y+1)*f.width])
		}
		dst--
	}
	for y := dst; y >= 0; y-- {
		clear(f.grid[y*f.width : (y+1)*f.width])
	}
	return cleared
}

// AddGarbageRows pushes n garbage rows in from the bottom, moving every row
// up. It reports whether any occupied cell was pushed off the top.
func (f *Field) AddGarbageRows(n int) (overflow bool) {
	if n <= 0 {
		return false
	}
	n = min(n, f.height)
	for i := 0; i < n*f.width; i++ {
		if f.grid[i] != Empty {
			overflow = true
			break
		}
	}
	copy(f.grid, f.grid[n*f.width:])
	for i := (f.height - n) * f.width; i < len(f.grid); i++ {
		f.grid[i] = Garbage
	}
	return overflow
}
