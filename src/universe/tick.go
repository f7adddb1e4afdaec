package universe

// LiveNeighborCount returns how many of the 8 wrapped neighbours of row, col
// are alive.
func (u *Universe) LiveNeighborCount(row, col uint32) (uint8, error) {
	if !u.contains(row, col) {
		return 0, outOfRange(row, col, u.width, u.height)
	}
	return u.liveNeighborCount(row, col), nil
}

//liveNeighborCount reads the current generation only
//height-1 and width-1 stand for -1 so the sums never go negative
func (u *Universe) liveNeighborCount(row, col uint32) uint8 {
	h, w := uint64(u.height), uint64(u.width)
	var count uint8
	for _, dr := range [3]uint64{h - 1, 0, 1} {
		for _, dc := range [3]uint64{w - 1, 0, 1} {
			//skip my position
			if dr == 0 && dc == 0 {
				continue
			}
			nr := (uint64(row) + dr) % h
			nc := (uint64(col) + dc) % w
			count += u.cells.Bit(u.index(uint32(nr), uint32(nc)))
		}
	}
	return count
}

//Tick computes the next generation into the scratch buffer and swaps it in
//every neighbour count is taken from the current generation
func (u *Universe) Tick() {
	tr := u.tracer
	for row := uint32(0); row < u.height; row++ {
		for col := uint32(0); col < u.width; col++ {
			idx := u.index(row, col)
			alive := u.cells.Get(idx)
			n := u.liveNeighborCount(row, col)
			if tr != nil {
				tr.CellEvaluated(row, col, alive, n)
			}
			u.next.Set(idx, nextState(alive, n))
		}
	}
	if tr != nil {
		tr.GenerationComputed(u.width, u.height, u.next.Words())
	}
	u.stable = u.next.Equal(u.cells)
	u.cells, u.next = u.next, u.cells
}

//nextState applies the Conway rules to one cell
func nextState(alive bool, neighbors uint8) bool {
	switch {
	case alive && neighbors < 2:
		return false
	case alive && (neighbors == 2 || neighbors == 3):
		return true
	case alive && neighbors > 3:
		return false
	case !alive && neighbors == 3:
		return true
	}
	return alive
}
