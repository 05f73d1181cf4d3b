package model

import (
	"crypto/md5"
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/pkg/errors"
)

// Padding around the logical region. The tick needs one dead column on each
// side and two rows above and below for its look-back and delayed write-back.
const (
	padCols = 1
	padRows = 2
)

// Grid is a bounded, non-wrapping Life board stored as a single padded buffer.
//
// Logical cell (x, y) lives at cells[(y+padRows)*stride + x+padCols]. Padding
// cells are always dead outside of Tick.
type Grid struct {
	width  int
	height int
	stride int
	cells  []uint8

	// Tick scratch space, allocated once so a generation never allocates.
	sums    []uint8
	pending [][3]uint8
}

// NewGrid allocates a fully dead grid. Zero width or height is legal and
// yields a grid with no addressable cells.
func NewGrid(width, height int) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, errors.Wrapf(ErrAllocation, "[NewGrid] invalid dimensions: %dx%d", width, height)
	}
	if width > math.MaxInt-2*padCols || height > math.MaxInt-2*padRows {
		return nil, errors.Wrapf(ErrAllocation, "[NewGrid] dimensions too large: %dx%d", width, height)
	}

	stride := width + 2*padCols
	hi, size := bits.Mul64(uint64(stride), uint64(height+2*padRows))
	if hi != 0 || size > math.MaxInt {
		return nil, errors.Wrapf(ErrAllocation, "[NewGrid] dimensions too large: %dx%d", width, height)
	}

	cells, err := allocate[uint8](int(size))
	if err != nil {
		return nil, errors.Wrapf(err, "[NewGrid] cells for %dx%d", width, height)
	}
	sums, err := allocate[uint8](stride)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewGrid] column sums for %dx%d", width, height)
	}
	pending, err := allocate[[3]uint8](stride)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewGrid] pending rows for %dx%d", width, height)
	}

	return &Grid{
		width:   width,
		height:  height,
		stride:  stride,
		cells:   cells,
		sums:    sums,
		pending: pending,
	}, nil
}

// allocate turns the runtime's refusal to make a slice into ErrAllocation.
func allocate[T any](n int) (buf []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, errors.Wrapf(ErrAllocation, "cannot allocate %d elements: %v", n, r)
		}
	}()
	return make([]T, n), nil
}

// GetWidth returns the width of the grid
func (g *Grid) GetWidth() int {
	return g.width
}

// GetHeight returns the height of the grid
func (g *Grid) GetHeight() int {
	return g.height
}

// index translates logical coordinates into a buffer offset.
func (g *Grid) index(x, y int) int {
	return (y+padRows)*g.stride + x + padCols
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) mustBeInBounds(x, y int) {
	if !g.inBounds(x, y) {
		panic(fmt.Sprintf("model: cell (%d,%d) outside %dx%d grid", x, y, g.width, g.height))
	}
}

// row returns the logical cells of row y.
func (g *Grid) row(y int) []uint8 {
	start := g.index(0, y)
	return g.cells[start : start+g.width]
}

// Get returns the state of a cell. It panics when (x, y) is outside the grid.
func (g *Grid) Get(x, y int) bool {
	g.mustBeInBounds(x, y)
	return g.cells[g.index(x, y)] == 1
}

// Set sets a cell to alive (true) or dead (false). It panics when (x, y) is
// outside the grid; use SetClamped for untrusted coordinates.
func (g *Grid) Set(x, y int, alive bool) {
	g.mustBeInBounds(x, y)
	g.cells[g.index(x, y)] = cellValue(alive)
}

// SetClamped is Set for coordinates that may fall outside the grid. Such
// writes are dropped and reported by returning false.
func (g *Grid) SetClamped(x, y int, alive bool) bool {
	if !g.inBounds(x, y) {
		return false
	}
	g.cells[g.index(x, y)] = cellValue(alive)
	return true
}

func cellValue(alive bool) uint8 {
	if alive {
		return 1
	}
	return 0
}

// Clear kills every cell, padding included.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Randomize gives every cell an independent, uniformly random state. A nil
// rng uses the global source.
func (g *Grid) Randomize(rng *rand.Rand) {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for y := range g.height {
		row := g.row(y)
		for x := range row {
			row[x] = uint8(intN(2))
		}
	}
}

// RandomizeDensity fills the grid with living cells at the given density.
func (g *Grid) RandomizeDensity(rng *rand.Rand, density float64) {
	float64n := rand.Float64
	if rng != nil {
		float64n = rng.Float64
	}
	for y := range g.height {
		row := g.row(y)
		for x := range row {
			row[x] = cellValue(float64n() < density)
		}
	}
}

// Resize returns a new grid of the given dimensions holding the overlapping
// top-left part of g. On success g is released and must not be used again.
// On failure g is left untouched and still owned by the caller.
func (g *Grid) Resize(width, height int) (*Grid, error) {
	next, err := NewGrid(width, height)
	if err != nil {
		return nil, errors.Wrapf(err, "[Resize] %dx%d -> %dx%d", g.width, g.height, width, height)
	}

	w := min(g.width, width)
	for y := range min(g.height, height) {
		copy(next.row(y)[:w], g.row(y)[:w])
	}

	g.Release()
	return next, nil
}

// Release drops the grid's storage. It is a no-op on a nil or already
// released grid.
func (g *Grid) Release() {
	if g == nil {
		return
	}
	g.width, g.height, g.stride = 0, 0, 0
	g.cells, g.sums, g.pending = nil, nil, nil
}

// Equal reports whether both grids have the same dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	for y := range g.height {
		if string(g.row(y)) != string(other.row(y)) {
			return false
		}
	}
	return true
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for y := range g.height {
		for _, c := range g.row(y) {
			count += int(c)
		}
	}
	return
}

// GetGridHash returns an MD5 hash of the dimensions and logical cells.
func (g *Grid) GetGridHash() string {
	h := md5.New()
	fmt.Fprintf(h, "%dx%d:", g.width, g.height)
	for y := range g.height {
		h.Write(g.row(y))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
