package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/gplife/model"
	"github.com/sheikhrachel/gplife/utils"
)

// runBatch advances every pattern file config.Advance generations and saves
// the result next to it. Files are processed concurrently, each on its own
// grid; the first failure cancels the rest.
func runBatch(ctx context.Context, config utils.Config, paths []string, out io.Writer) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(config.Workers)

	var mu sync.Mutex
	for _, path := range paths {
		eg.Go(func() error {
			target, population, err := advanceFile(ctx, path, config.Advance)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "%s -> %s (%d living cells)\n", path, target, population)
			return nil
		})
	}
	return eg.Wait()
}

// advanceFile loads one pattern, ticks it and writes the result.
func advanceFile(ctx context.Context, path string, generations int) (string, int, error) {
	grid, err := model.LoadFile(path)
	if err != nil {
		return "", 0, errors.Wrapf(err, "[advanceFile] %s", path)
	}
	defer grid.Release()

	for range generations {
		if err = ctx.Err(); err != nil {
			return "", 0, errors.Wrapf(err, "[advanceFile] %s", path)
		}
		grid.Tick()
	}

	target := batchOutputPath(path, generations)
	if err = grid.SaveFile(target); err != nil {
		return "", 0, errors.Wrapf(err, "[advanceFile] %s", path)
	}
	return target, grid.CountLivingCells(), nil
}

// batchOutputPath turns dir/name.rle into dir/name.gen<N>.rle.
func batchOutputPath(path string, generations int) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".rle"
	}
	return fmt.Sprintf("%s.gen%d%s", strings.TrimSuffix(path, filepath.Ext(path)), generations, ext)
}
