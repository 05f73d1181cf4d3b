package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/gplife/model"
	"github.com/sheikhrachel/gplife/utils"
)

const historySize = 5

// game bundles the state the terminal loop owns. grid is the single live
// handle; it is only replaced after a successful load, resize or reseed.
// seeded is false while grid still holds a loaded pattern.
type game struct {
	config   utils.Config
	rng      *rand.Rand
	grid     *model.Grid
	seeded   bool
	history  *model.History
	renderer *model.TerminalRenderer
	stats    *utils.Stats
	out      io.Writer
}

// newRNG seeds a PCG source, picking a seed from the clock when seed is zero.
func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, 0))
}

// initializeGame sets up the initial game state
func initializeGame(config utils.Config, out io.Writer) (*game, error) {
	view := model.Viewport{
		X:      config.ViewX,
		Y:      config.ViewY,
		Width:  config.ViewWidth,
		Height: config.ViewHeight,
		Zoom:   1,
	}
	if config.Zoom > 1 {
		view.ZoomIn(config.Zoom - 1)
	}

	g := &game{
		config:   config,
		rng:      newRNG(config.Seed),
		seeded:   config.PatternFile == "",
		history:  model.NewHistory(historySize),
		renderer: &model.TerminalRenderer{View: view},
		stats:    utils.NewStats(),
		out:      out,
	}

	grid, err := g.initialGrid()
	if err != nil {
		return nil, err
	}
	g.grid = grid
	return g, nil
}

// initialGrid loads the configured pattern or seeds a random board.
func (g *game) initialGrid() (*model.Grid, error) {
	if g.config.PatternFile == "" {
		return g.seededGrid()
	}

	grid, err := model.LoadFile(g.config.PatternFile)
	if err != nil {
		return nil, errors.Wrap(err, "[initialGrid] failed to load pattern")
	}
	if !g.config.FitToConfig {
		return grid, nil
	}

	resized, err := grid.Resize(g.config.Width, g.config.Height)
	if err != nil {
		fmt.Fprintf(g.out, "Keeping %dx%d pattern: %v\n", grid.GetWidth(), grid.GetHeight(), err)
		return grid, nil
	}
	return resized, nil
}

// seededGrid builds a board of the configured size filled according to the
// seeding mode.
func (g *game) seededGrid() (*model.Grid, error) {
	grid, err := model.NewGrid(g.config.Width, g.config.Height)
	if err != nil {
		return nil, errors.Wrap(err, "[seededGrid] failed to create grid")
	}
	switch g.config.Seeding {
	case utils.SeedUniform:
		grid.Randomize(g.rng)
	case utils.SeedDensity:
		grid.RandomizeDensity(g.rng, g.config.RandomDensity)
	default:
		grid.ResetWithInterestingPatterns(g.rng, g.config.RandomDensity)
	}
	return grid, nil
}

// displayGameInfo shows the initial game information
func (g *game) displayGameInfo() {
	source := "random patterns"
	if g.config.PatternFile != "" {
		source = g.config.PatternFile
	}
	fmt.Fprintf(g.out, "Source: %s | Auto restart: %v\n", source, g.config.AutoRestart)
	fmt.Fprintf(g.out, "Grid: %dx%d | Initial living cells: %d\n",
		g.grid.GetWidth(), g.grid.GetHeight(), g.grid.CountLivingCells())
	fmt.Fprintln(g.out, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(g.out)
}

// updateGameState updates the game state and returns status information
func (g *game) updateGameState(generation int, frameDuration time.Duration) (int, float64, string, bool) {
	livingCells := g.grid.CountLivingCells()
	density := 0.0
	if area := g.grid.GetWidth() * g.grid.GetHeight(); area > 0 {
		density = float64(livingCells) / float64(area) * 100
	}

	g.stats.Update(generation, livingCells, frameDuration)

	isStagnant := g.history.IsStagnant(g.grid)
	g.history.Update(g.grid)

	status := "Active"
	if isStagnant {
		status = "Stagnant"
	}
	if livingCells == 0 {
		status = "Extinct"
	}

	return livingCells, density, status, isStagnant
}

// displayGameStatus shows the current game status
func (g *game) displayGameStatus(generation, livingCells int, density float64, status string, lastRestartGen int) {
	fmt.Fprintf(g.out, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		generation, livingCells, density, status)
	fmt.Fprintf(g.out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Peak: %d | Runtime: %.1fs\n",
		g.stats.GenerationsPerSecond, g.stats.AveragePopulation, g.stats.PeakPopulation, g.stats.Runtime().Seconds())

	if generation > lastRestartGen {
		fmt.Fprintf(g.out, "Generations since restart: %d\n", generation-lastRestartGen)
	}
	fmt.Fprintln(g.out)
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(livingCells, stagnantCount int, config utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// restartGame swaps in a freshly seeded board. On failure the current board
// is kept.
func (g *game) restartGame() error {
	grid, err := g.seededGrid()
	if err != nil {
		return err
	}
	g.grid.Release()
	g.grid = grid
	g.seeded = true
	g.history.Reset()
	g.stats.RecordRestart()

	fmt.Fprintf(g.out, "New patterns loaded! Living cells: %d\n", g.grid.CountLivingCells())
	return nil
}

// saveGame writes the current board when a save file is configured.
func (g *game) saveGame() error {
	if g.config.SaveFile == "" {
		return nil
	}
	if err := g.grid.SaveFile(g.config.SaveFile); err != nil {
		return errors.Wrap(err, "[saveGame] failed to save board")
	}
	fmt.Fprintf(g.out, "Saved %dx%d board to %s\n", g.grid.GetWidth(), g.grid.GetHeight(), g.config.SaveFile)
	return nil
}
