package utils

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config holds the configuration for the game
type Config struct {
	Width               int           `json:"width"                env:"GPLIFE_WIDTH"`
	Height              int           `json:"height"               env:"GPLIFE_HEIGHT"`
	FrameRate           time.Duration `json:"frame_rate"           env:"GPLIFE_FRAME_RATE"`
	MaxGenerations      int           `json:"max_generations"      env:"GPLIFE_MAX_GENERATIONS"`
	Seed                uint64        `json:"seed"                 env:"GPLIFE_SEED"`
	RandomDensity       float64       `json:"random_density"       env:"GPLIFE_RANDOM_DENSITY"`
	AutoRestart         bool          `json:"auto_restart"         env:"GPLIFE_AUTO_RESTART"`
	StagnationThreshold int           `json:"stagnation_threshold" env:"GPLIFE_STAGNATION_THRESHOLD"`
	InjectionCount      int           `json:"injection_count"      env:"GPLIFE_INJECTION_COUNT"`
	Seeding             string        `json:"seeding"              env:"GPLIFE_SEEDING"`

	// PatternFile is loaded instead of seeding random patterns. With
	// FitToConfig the loaded pattern is resized to Width x Height.
	PatternFile string `json:"pattern_file"  env:"GPLIFE_PATTERN_FILE"`
	FitToConfig bool   `json:"fit_to_config" env:"GPLIFE_FIT_TO_CONFIG"`
	SaveFile    string `json:"save_file"     env:"GPLIFE_SAVE_FILE"`

	ViewX      int `json:"view_x"      env:"GPLIFE_VIEW_X"`
	ViewY      int `json:"view_y"      env:"GPLIFE_VIEW_Y"`
	ViewWidth  int `json:"view_width"  env:"GPLIFE_VIEW_WIDTH"`
	ViewHeight int `json:"view_height" env:"GPLIFE_VIEW_HEIGHT"`
	Zoom       int `json:"zoom"        env:"GPLIFE_ZOOM"`

	// Advance switches to batch mode: every pattern file given on the
	// command line is advanced this many generations and saved.
	Advance int `json:"advance" env:"GPLIFE_ADVANCE"`
	Workers int `json:"workers" env:"GPLIFE_WORKERS"`
}

// Seeding modes for boards that do not come from a pattern file.
const (
	// SeedPatterns stamps gliders and blinkers, then adds life at RandomDensity.
	SeedPatterns = "patterns"
	// SeedDensity fills every cell alive with probability RandomDensity.
	SeedDensity = "density"
	// SeedUniform makes every cell alive or dead with equal odds.
	SeedUniform = "uniform"
)

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               60,
		Height:              30,
		FrameRate:           150 * time.Millisecond,
		MaxGenerations:      1000,
		RandomDensity:       0.15,
		AutoRestart:         true,
		StagnationThreshold: 5,
		InjectionCount:      3,
		Seeding:             SeedPatterns,
		Zoom:                1,
		Workers:             4,
	}
}

// LoadConfig loads configuration from a JSON file over the defaults. A
// missing file is not an error. GPLIFE_* environment variables override both.
// The result is not validated, since flags may still override it.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	default:
		if err = json.Unmarshal(data, &config); err != nil {
			return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
		}
	}

	if err = env.Parse(&config); err != nil {
		return config, errors.Wrap(err, "[LoadConfig] failed to parse environment")
	}
	return config, nil
}

// BindFlags registers command line flags that override c.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "grid width")
	fs.IntVar(&c.Height, "h", c.Height, "grid height")
	fs.DurationVar(&c.FrameRate, "frame-rate", c.FrameRate, "delay between generations")
	fs.IntVar(&c.MaxGenerations, "max-generations", c.MaxGenerations, "stop after this many generations (0 runs forever)")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed (0 picks one from the clock)")
	fs.Float64Var(&c.RandomDensity, "density", c.RandomDensity, "density of random life when seeding")
	fs.StringVar(&c.Seeding, "seeding", c.Seeding, "how random boards are filled: patterns, density or uniform")
	fs.BoolVar(&c.AutoRestart, "auto-restart", c.AutoRestart, "reseed on extinction or stagnation")
	fs.StringVar(&c.PatternFile, "load", c.PatternFile, "RLE pattern to start from")
	fs.BoolVar(&c.FitToConfig, "fit", c.FitToConfig, "resize a loaded pattern to -w x -h")
	fs.StringVar(&c.SaveFile, "save", c.SaveFile, "write the final generation to this RLE file")
	fs.IntVar(&c.ViewX, "view-x", c.ViewX, "leftmost visible column")
	fs.IntVar(&c.ViewY, "view-y", c.ViewY, "topmost visible row")
	fs.IntVar(&c.ViewWidth, "view-w", c.ViewWidth, "visible columns (0 shows up to the edge)")
	fs.IntVar(&c.ViewHeight, "view-h", c.ViewHeight, "visible rows (0 shows up to the edge)")
	fs.IntVar(&c.Zoom, "zoom", c.Zoom, "terminal cells per grid cell")
	fs.IntVar(&c.Advance, "advance", c.Advance, "batch mode: advance each pattern file argument this many generations")
	fs.IntVar(&c.Workers, "workers", c.Workers, "batch mode: pattern files processed at once")
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return errors.Errorf("[Validate] grid must be at least 1x1, got %dx%d", c.Width, c.Height)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Errorf("[Validate] density must be within [0, 1], got %v", c.RandomDensity)
	case c.FrameRate < 0:
		return errors.Errorf("[Validate] negative frame rate %v", c.FrameRate)
	case c.Advance < 0:
		return errors.Errorf("[Validate] negative generation count %d", c.Advance)
	case c.Workers < 1:
		return errors.Errorf("[Validate] need at least one worker, got %d", c.Workers)
	case c.Zoom < 1:
		return errors.Errorf("[Validate] zoom must be at least 1, got %d", c.Zoom)
	case c.Seeding != SeedPatterns && c.Seeding != SeedDensity && c.Seeding != SeedUniform:
		return errors.Errorf("[Validate] unknown seeding mode %q", c.Seeding)
	}
	return nil
}
