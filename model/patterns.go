package model

import "math/rand/v2"

// AddGlider adds a glider pattern at the specified position. Cells that fall
// outside the grid are dropped.
func (g *Grid) AddGlider(startX, startY int) {
	pattern := [][]bool{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	}

	for y, row := range pattern {
		for x, cell := range row {
			g.SetClamped(startX+x, startY+y, cell)
		}
	}
}

// AddOscillator adds a horizontal blinker at the specified position
func (g *Grid) AddOscillator(startX, startY int) {
	for x := range 3 {
		g.SetClamped(startX+x, startY, true)
	}
}

// InjectRandomLife brings count random cells to life
func (g *Grid) InjectRandomLife(rng *rand.Rand, count int) {
	if g.width == 0 || g.height == 0 {
		return
	}
	for range count {
		g.Set(rng.IntN(g.width), rng.IntN(g.height), true)
	}
}

// ResetWithInterestingPatterns clears the grid, stamps a few gliders and
// blinkers, then sprinkles extra life at the given density.
func (g *Grid) ResetWithInterestingPatterns(rng *rand.Rand, density float64) {
	g.Clear()

	if g.width >= 10 && g.height >= 10 {
		g.AddGlider(5, 5)
		if g.width >= 20 && g.height >= 15 {
			g.AddGlider(g.width-8, 5)
		}

		g.AddOscillator(g.width/4, g.height/4)
		if g.width >= 30 {
			g.AddOscillator(3*g.width/4, 3*g.height/4)
		}
	}

	for y := range g.height {
		row := g.row(y)
		for x := range row {
			if rng.Float64() < density {
				row[x] = 1
			}
		}
	}
}
