package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akmonengine/bounce"
	"github.com/akmonengine/bounce/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// ShapeConfig describes Count bodies sharing one outline:
// either a named preset or explicit vertices, in counter-clockwise order
type ShapeConfig struct {
	Preset   string       `toml:"preset" yaml:"preset"`
	Vertices [][2]float64 `toml:"vertices" yaml:"vertices"`
	Count    int          `toml:"count" yaml:"count"`
	Static   bool         `toml:"static" yaml:"static"`
}

type LogConfig struct {
	// Format is text or json
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
}

// Config holds the simulation parameters, read from a TOML or YAML file
type Config struct {
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`
	Ticks  int     `toml:"ticks" yaml:"ticks"`
	// DT is the simulated time per tick, in seconds
	DT            float64     `toml:"dt" yaml:"dt"`
	Seed          int64       `toml:"seed" yaml:"seed"`
	Mode          bounce.Mode `toml:"mode" yaml:"mode"`
	Workers       int         `toml:"workers" yaml:"workers"`
	MaxSpawnSpeed float64     `toml:"max_spawn_speed" yaml:"max_spawn_speed"`
	// TickBudget is a duration such as "2ms", empty for unbounded ticks
	TickBudget string `toml:"tick_budget" yaml:"tick_budget"`
	// Verify runs the other detection mode on every tick and compares the pairs
	Verify bool `toml:"verify" yaml:"verify"`

	Shapes []ShapeConfig `toml:"shapes" yaml:"shapes"`
	// RandomShapes adds random convex polygons on top of Shapes
	RandomShapes int `toml:"random_shapes" yaml:"random_shapes"`

	Log LogConfig `toml:"log" yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		Ticks:         600,
		DT:            1.0 / 60.0,
		Seed:          1,
		Mode:          bounce.ModeSortAndSweep,
		Workers:       bounce.DEFAULT_WORKERS,
		MaxSpawnSpeed: bounce.DEFAULT_MAX_SPAWN_SPEED,
		Shapes: []ShapeConfig{
			{Preset: "parallelogram", Count: 1},
			{Preset: "oblong", Count: 1},
			{Preset: "triangle", Count: 1},
			{Preset: "pentagon", Count: 1},
		},
		Log: LogConfig{Format: "text", Level: "info"},
	}
}

type decoder interface {
	Decode(v any) error
}

// decoderFor picks the file format from the extension, TOML by default
func decoderFor(filename string, r io.Reader) decoder {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		d := yaml.NewDecoder(r)
		d.KnownFields(true)
		return d
	default:
		d := toml.NewDecoder(r)
		d.DisallowUnknownFields()
		return d
	}
}

// LoadConfig reads filename over the defaults
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()
	// A file listing shapes replaces the default ones
	defaultShapes := config.Shapes
	config.Shapes = nil

	fp, err := os.Open(filename)
	if err != nil {
		return config, err
	}
	defer fp.Close()

	if err := decoderFor(filename, bufio.NewReader(fp)).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("%s: %w", filename, err)
	}
	if config.Shapes == nil {
		config.Shapes = defaultShapes
	}

	return config, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Width <= 2*actor.BarrierTolerance || c.Height <= 2*actor.BarrierTolerance {
		errs = append(errs, fmt.Errorf("bounds %gx%g are too small", c.Width, c.Height))
	}
	if c.Ticks < 0 {
		errs = append(errs, fmt.Errorf("ticks must not be negative, got %d", c.Ticks))
	}
	if c.DT <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.DT))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.MaxSpawnSpeed < 0 {
		errs = append(errs, fmt.Errorf("max_spawn_speed must not be negative, got %g", c.MaxSpawnSpeed))
	}
	if _, err := c.tickBudget(); err != nil {
		errs = append(errs, err)
	}
	if c.RandomShapes < 0 {
		errs = append(errs, fmt.Errorf("random_shapes must not be negative, got %d", c.RandomShapes))
	}
	for i, shape := range c.Shapes {
		if _, err := shape.outline(); err != nil {
			errs = append(errs, fmt.Errorf("shapes[%d]: %w", i, err))
		}
		if shape.Count < 0 {
			errs = append(errs, fmt.Errorf("shapes[%d]: count must not be negative, got %d", i, shape.Count))
		}
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log format %q, want text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) Bounds() actor.AABB {
	return actor.AABB{Max: mgl64.Vec2{c.Width, c.Height}}
}

func (c Config) tickBudget() (time.Duration, error) {
	if c.TickBudget == "" {
		return 0, nil
	}
	budget, err := time.ParseDuration(c.TickBudget)
	if err != nil {
		return 0, fmt.Errorf("tick_budget: %w", err)
	}
	if budget < 0 {
		return 0, fmt.Errorf("tick_budget must not be negative, got %s", budget)
	}
	return budget, nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// outline returns the vertices of the shape, anchored as given
func (s ShapeConfig) outline() ([]mgl64.Vec2, error) {
	if s.Preset != "" {
		if len(s.Vertices) > 0 {
			return nil, errors.New("preset and vertices are exclusive")
		}
		vertices, ok := actor.Presets[s.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
		return vertices, nil
	}

	vertices := make([]mgl64.Vec2, len(s.Vertices))
	for i, v := range s.Vertices {
		vertices[i] = mgl64.Vec2{v[0], v[1]}
	}
	// Validates the outline
	if _, err := actor.NewPolygon(0, vertices); err != nil {
		return nil, err
	}
	return vertices, nil
}
