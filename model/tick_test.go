package model

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/sheikhrachel/gplife/rules"
)

// referenceStep computes the next generation into a fresh grid by counting
// each cell's eight neighbours directly.
func referenceStep(t *testing.T, g *Grid) *Grid {
	t.Helper()
	next := newTestGrid(t, g.GetWidth(), g.GetHeight())
	for y := range g.GetHeight() {
		for x := range g.GetWidth() {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if g.inBounds(x+dx, y+dy) && g.Get(x+dx, y+dy) {
						neighbors++
					}
				}
			}
			next.Set(x, y, rules.ApplyConwayRules(neighbors, g.Get(x, y)))
		}
	}
	return next
}

func setCells(g *Grid, cells ...[2]int) {
	for _, c := range cells {
		g.Set(c[0], c[1], true)
	}
}

func expectCells(t *testing.T, g *Grid, want ...[2]int) {
	t.Helper()
	got := livingCells(g)
	if len(got) != len(want) {
		t.Fatalf("living cells = %v, want %v", got, want)
	}
	for _, c := range want {
		if !got[c] {
			t.Fatalf("living cells = %v, want %v", got, want)
		}
	}
}

func TestTickBlinker(t *testing.T) {
	for _, size := range []int{3, 5, 8} {
		t.Run(fmt.Sprintf("%dx%d", size, size), func(t *testing.T) {
			g := newTestGrid(t, size, size)
			setCells(g, [2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2})

			g.Tick()
			expectCells(t, g, [2]int{0, 1}, [2]int{1, 1}, [2]int{2, 1})

			g.Tick()
			expectCells(t, g, [2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2})
			checkPadding(t, g)
		})
	}
}

func TestTickBlock(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	block := [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}
	setCells(g, block...)
	for range 3 {
		g.Tick()
		expectCells(t, g, block...)
	}
	checkPadding(t, g)
}

func TestTickBlockInCorner(t *testing.T) {
	g := newTestGrid(t, 2, 2)
	block := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	setCells(g, block...)
	g.Tick()
	expectCells(t, g, block...)
	checkPadding(t, g)
}

func TestTickUnderpopulation(t *testing.T) {
	tests := []struct {
		width, height int
		x, y          int
	}{
		{1, 1, 0, 0},
		{3, 1, 1, 0},
		{1, 3, 0, 2},
		{6, 6, 5, 5},
		{6, 6, 3, 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d@%d,%d", tt.width, tt.height, tt.x, tt.y), func(t *testing.T) {
			g := newTestGrid(t, tt.width, tt.height)
			g.Set(tt.x, tt.y, true)
			g.Tick()
			expectCells(t, g)
			checkPadding(t, g)
		})
	}
}

func TestTickGliderTravels(t *testing.T) {
	g := newTestGrid(t, 10, 10)
	g.AddGlider(1, 1)
	want := livingCells(g)

	for range 4 {
		g.Tick()
	}

	got := livingCells(g)
	if len(got) != len(want) {
		t.Fatalf("glider has %d cells after 4 ticks, want %d", len(got), len(want))
	}
	for c := range want {
		if !got[[2]int{c[0] + 1, c[1] + 1}] {
			t.Fatalf("cell %v did not move diagonally; got %v", c, got)
		}
	}
}

func TestTickNoWraparound(t *testing.T) {
	// A blinker against the left edge would gain cells on the right if the
	// board wrapped.
	g := newTestGrid(t, 5, 5)
	setCells(g, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})
	g.Tick()
	expectCells(t, g, [2]int{0, 2}, [2]int{1, 2})
	checkPadding(t, g)
}

func TestTickMatchesReference(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1, 7}, {7, 1}, {2, 2}, {3, 5}, {16, 9}, {31, 17}, {50, 50}}
	for i, size := range sizes {
		t.Run(fmt.Sprintf("%dx%d", size[0], size[1]), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(uint64(i), 99))
			g := newTestGrid(t, size[0], size[1])
			g.Randomize(rng)

			for gen := range 10 {
				want := referenceStep(t, g)
				g.Tick()
				if !g.Equal(want) {
					t.Fatalf("generation %d differs from the reference step", gen+1)
				}
				checkPadding(t, g)
			}
		})
	}
}

func TestTickDeterministic(t *testing.T) {
	a := newTestGrid(t, 25, 13)
	b := newTestGrid(t, 25, 13)
	a.Randomize(rand.New(rand.NewPCG(5, 5)))
	b.Randomize(rand.New(rand.NewPCG(5, 5)))

	for range 20 {
		a.Tick()
		b.Tick()
	}
	if !a.Equal(b) {
		t.Fatal("identical grids diverged")
	}
}

func TestTickDoesNotAllocate(t *testing.T) {
	g := newTestGrid(t, 40, 40)
	g.Randomize(rand.New(rand.NewPCG(3, 3)))
	if allocs := testing.AllocsPerRun(20, g.Tick); allocs != 0 {
		t.Fatalf("Tick allocated %v times per run", allocs)
	}
}

func BenchmarkTick(b *testing.B) {
	g, err := NewGrid(512, 512)
	if err != nil {
		b.Fatal(err)
	}
	g.Randomize(rand.New(rand.NewPCG(1, 1)))
	b.ResetTimer()
	for range b.N {
		g.Tick()
	}
}
