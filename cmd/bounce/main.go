package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"slices"
	"sort"
	"time"

	"github.com/akmonengine/bounce"
	"github.com/akmonengine/bounce/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/muesli/termenv"
)

var ErrModeMismatch = errors.New("detection modes disagree")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// parseConfig reads the -config file if any, then applies the flags that were set
func parseConfig(args []string, stderr io.Writer) (Config, error) {
	fs := flag.NewFlagSet("bounce", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := DefaultConfig()
	var (
		configFile = fs.String("config", "", "TOML or YAML configuration file")
		ticks      = fs.Int("ticks", defaults.Ticks, "number of ticks to simulate")
		seed       = fs.Int64("seed", defaults.Seed, "random seed for spawning")
		workers    = fs.Int("workers", defaults.Workers, "number of worker goroutines")
		verify     = fs.Bool("verify", false, "cross-check every tick against the other detection mode")
		logFormat  = fs.String("log-format", defaults.Log.Format, "log format (text, json)")
		logLevel   = fs.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
		mode       = defaults.Mode
	)
	fs.TextVar(&mode, "mode", defaults.Mode, "detection mode (sort-and-sweep, naive)")

	if err := fs.Parse(args); err != nil {
		return defaults, err
	}

	config := defaults
	if *configFile != "" {
		var err error
		if config, err = LoadConfig(*configFile); err != nil {
			return config, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ticks":
			config.Ticks = *ticks
		case "seed":
			config.Seed = *seed
		case "workers":
			config.Workers = *workers
		case "verify":
			config.Verify = *verify
		case "log-format":
			config.Log.Format = *logFormat
		case "log-level":
			config.Log.Level = *logLevel
		case "mode":
			config.Mode = mode
		}
	})

	return config, config.Validate()
}

func newLogger(w io.Writer, config Config) *slog.Logger {
	level, _ := config.level()
	opts := &slog.HandlerOptions{Level: level}

	if config.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// randomOutline samples sorted angles on a circle, which always gives a convex outline
func randomOutline(rng *rand.Rand, radius float64) []mgl64.Vec2 {
	n := 3 + rng.Intn(6)
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	sort.Float64s(angles)

	vertices := make([]mgl64.Vec2, n)
	for i, a := range angles {
		vertices[i] = mgl64.Vec2{math.Cos(a), math.Sin(a)}.Mul(radius)
	}
	return vertices
}

// buildWorld creates the world and spawns every configured body
func buildWorld(config Config, logger *slog.Logger) (*bounce.World, error) {
	budget, err := config.tickBudget()
	if err != nil {
		return nil, err
	}

	world := bounce.NewWorld(config.Bounds(), config.Seed)
	world.Mode = config.Mode
	world.Workers = config.Workers
	world.MaxSpawnSpeed = config.MaxSpawnSpeed
	world.TickBudget = budget
	world.Logger = logger
	world.Detector = bounce.NewDetector(bounce.WithLogger(logger))

	add := func(outline []mgl64.Vec2, bodyType actor.BodyType) error {
		polygon, err := actor.NewPolygon(len(world.Bodies), outline)
		if err != nil {
			return err
		}
		body := actor.NewBody(polygon, mgl64.Vec2{}, bodyType)
		if err := world.Spawn(body); err != nil {
			return err
		}
		world.AddBody(body)
		return nil
	}

	for i, shape := range config.Shapes {
		outline, err := shape.outline()
		if err != nil {
			return nil, fmt.Errorf("shapes[%d]: %w", i, err)
		}
		bodyType := actor.BodyTypeDynamic
		if shape.Static {
			bodyType = actor.BodyTypeStatic
		}
		for range shape.Count {
			if err := add(outline, bodyType); err != nil {
				return nil, fmt.Errorf("shapes[%d]: %w", i, err)
			}
		}
	}

	rng := rand.New(rand.NewSource(config.Seed))
	for range config.RandomShapes {
		outline := randomOutline(rng, 10+rng.Float64()*30)
		if err := add(outline, actor.BodyTypeDynamic); err != nil {
			// Random outlines may degenerate, skip them
			if errors.Is(err, actor.ErrNotConvex) || errors.Is(err, actor.ErrTooFewVertices) {
				logger.Debug("random shape skipped", "error", err)
				continue
			}
			return nil, fmt.Errorf("random shape: %w", err)
		}
	}

	return world, nil
}

type summary struct {
	ticks            int
	enter, stay      int
	exit             int
	candidates       int
	boxRejected      int
	narrowPhaseCalls int
	inconclusive     int
	truncated        int
	maxPairs         int
	verified         int
	elapsed          time.Duration
}

func (s *summary) add(result *bounce.Result) {
	s.ticks++
	s.candidates += result.Candidates
	s.boxRejected += result.BoxRejected
	s.narrowPhaseCalls += result.NarrowPhaseCalls
	s.inconclusive += result.Inconclusive
	s.maxPairs = max(s.maxPairs, len(result.Pairs))
	if result.Truncated {
		s.truncated++
	}
}

func (s *summary) subscribe(events *bounce.Events, logger *slog.Logger) {
	events.Subscribe(bounce.INTERSECTION_ENTER, func(event bounce.Event) {
		s.enter++
		logger.Debug("intersection", "event", event.Type(), "pair", event)
	})
	events.Subscribe(bounce.INTERSECTION_STAY, func(bounce.Event) {
		s.stay++
	})
	events.Subscribe(bounce.INTERSECTION_EXIT, func(event bounce.Event) {
		s.exit++
		logger.Debug("intersection", "event", event.Type(), "pair", event)
	})
}

func (s *summary) print(w io.Writer, config Config, bodies int) {
	output := termenv.NewOutput(w)
	title := output.String("bounce").Bold()

	fmt.Fprintf(w, "%s: %d bodies, %d ticks, mode %s, %d workers, %s\n",
		title, bodies, s.ticks, config.Mode, config.Workers, s.elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "  candidates: %d, box rejected: %d, narrow phase: %d, inconclusive: %d\n",
		s.candidates, s.boxRejected, s.narrowPhaseCalls, s.inconclusive)
	fmt.Fprintf(w, "  events: %d enter, %d stay, %d exit, max pairs per tick: %d\n",
		s.enter, s.stay, s.exit, s.maxPairs)

	if s.truncated > 0 {
		warning := output.String(fmt.Sprintf("%d truncated ticks", s.truncated)).Foreground(output.Color("3"))
		fmt.Fprintf(w, "  %s\n", warning)
	}
	if config.Verify {
		ok := output.String(fmt.Sprintf("%d ticks verified", s.verified)).Foreground(output.Color("2"))
		fmt.Fprintf(w, "  %s\n", ok)
	}
}

func otherMode(mode bounce.Mode) bounce.Mode {
	if mode == bounce.ModeNaive {
		return bounce.ModeSortAndSweep
	}
	return bounce.ModeNaive
}

func run(args []string, stdout, stderr io.Writer) error {
	config, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, config)
	world, err := buildWorld(config, logger)
	if err != nil {
		return err
	}
	logger.Info("world ready",
		"bodies", len(world.Bodies),
		"bounds", world.Bounds,
		"mode", config.Mode,
		"seed", config.Seed)

	var s summary
	s.subscribe(&world.Events, logger)

	verifier := bounce.NewDetector(bounce.WithWorkers(config.Workers), bounce.WithLogger(logger))
	shapes := make([]actor.ShapeInterface, 0, len(world.Bodies))

	start := time.Now()
	for tick := range config.Ticks {
		result := world.Step(config.DT)
		s.add(result)

		if !config.Verify || result.Truncated {
			continue
		}

		shapes = shapes[:0]
		for _, body := range world.Bodies {
			shapes = append(shapes, body)
		}
		check := verifier.Check(shapes, otherMode(config.Mode))
		if !slices.Equal(result.Pairs, check.Pairs) {
			logger.Error("detection modes disagree",
				"tick", tick,
				config.Mode.String(), result.Pairs,
				check.Mode.String(), check.Pairs)
			return fmt.Errorf("tick %d: %w", tick, ErrModeMismatch)
		}
		s.verified++
	}
	s.elapsed = time.Since(start)

	s.print(stdout, config, len(world.Bodies))
	return nil
}
