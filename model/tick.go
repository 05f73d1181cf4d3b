package model

import "github.com/sheikhrachel/gplife/rules"

// Tick advances the grid by one generation in place.
//
// Rows are scanned top to bottom. sums[x] holds the live cells of buffer
// column x over the three rows centred on the current one and is slid down a
// row at a time. A successor is parked in pending[x][y%3] and committed two
// rows later, so rows y-1 and y+1 still hold the current generation while row
// y is evaluated. Padding rows 0 and 1 receive dead values from the empty ring
// slots on the first two commits.
func (g *Grid) Tick() {
	var (
		stride  = g.stride
		cells   = g.cells
		sums    = g.sums
		pending = g.pending
		last    = g.width // buffer columns 1..width are logical
		end     = g.height + padRows
	)
	clear(sums)
	clear(pending)

	for x := 1; x <= last; x++ {
		sums[x] = cells[stride+x] + cells[2*stride+x]
	}

	y := padRows
	for ; y < end; y++ {
		leaving := (y - 2) * stride
		entering := (y + 1) * stride
		for x := 1; x <= last; x++ {
			sums[x] = sums[x] - cells[leaving+x] + cells[entering+x]
		}

		row := y * stride
		slot, commit := y%3, (y-2)%3
		for x := 1; x <= last; x++ {
			cells[leaving+x] = pending[x][commit]

			cell := cells[row+x]
			neighbors := sums[x-1] + sums[x] + sums[x+1] - cell
			pending[x][slot] = rules.Lookup[cell][neighbors]
		}
	}

	// Flush the two rows still waiting in the ring.
	for x := 1; x <= last; x++ {
		cells[(y-2)*stride+x] = pending[x][(y-2)%3]
		cells[(y-1)*stride+x] = pending[x][(y-1)%3]
	}
}
