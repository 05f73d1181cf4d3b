package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikhrachel/gplife/utils"
)

const defaultConfigFile = "config.json"

func main() {
	configFile := os.Getenv("GPLIFE_CONFIG")
	if configFile == "" {
		configFile = defaultConfigFile
	}

	config, err := utils.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	config.BindFlags(flag.CommandLine)
	flag.Parse()
	if err = config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flag.NArg() > 0 {
		if err = runBatch(ctx, config, flag.Args(), os.Stdout); err != nil {
			log.Fatalf("Batch failed: %v", err)
		}
		return
	}

	game, err := initializeGame(config, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	game.displayGameInfo()

	if err = game.run(ctx, true); err != nil {
		log.Printf("Stopped: %v", err)
	}
	if err = game.saveGame(); err != nil {
		log.Printf("%v", err)
	}
	game.grid.Release()
}

// run is the main game loop. It returns when the generation limit is hit or
// ctx is cancelled. clearScreen is false when output is not a terminal.
func (g *game) run(ctx context.Context, clearScreen bool) error {
	var (
		generation     = 0
		stagnantCount  = 0
		lastRestartGen = 0
		lastFrameTime  = time.Now()
	)

	for {
		frameStart := time.Now()
		if clearScreen {
			g.renderer.Clear()
		}

		livingCells, density, status, isStagnant := g.updateGameState(generation, frameStart.Sub(lastFrameTime))
		lastFrameTime = frameStart

		if isStagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		g.displayGameStatus(generation, livingCells, density, status, lastRestartGen)
		if err := g.renderer.Display(g.out, g.grid); err != nil {
			return err
		}

		if g.config.MaxGenerations > 0 && generation >= g.config.MaxGenerations {
			fmt.Fprintf(g.out, "\nReached maximum generations limit (%d)\n", g.config.MaxGenerations)
			return nil
		}

		shouldRestart, restartReason := checkRestartConditions(livingCells, stagnantCount, g.config)
		switch {
		case shouldRestart && g.config.AutoRestart:
			fmt.Fprintf(g.out, "Restarting due to %s...\n", restartReason)
			if err := g.restartGame(); err != nil {
				return err
			}
			lastRestartGen = generation
			stagnantCount = 0
		case g.seeded && g.config.AutoRestart &&
			stagnantCount >= 2 && stagnantCount < g.config.StagnationThreshold:
			// Inject some life to try to break the stagnation. Loaded
			// patterns are never edited behind the user's back.
			g.grid.InjectRandomLife(g.rng, g.config.InjectionCount)
		}

		g.grid.Tick()
		generation++

		select {
		case <-ctx.Done():
			fmt.Fprintln(g.out, "\nShutting down gracefully...")
			fmt.Fprintf(g.out, "Final stats: %d generations in %.1f seconds, %d restarts\n",
				generation, g.stats.Runtime().Seconds(), g.stats.Restarts)
			return nil
		case <-time.After(g.config.FrameRate):
		}
	}
}
