package bounce

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/akmonengine/bounce/actor"
)

const DEFAULT_WORKERS = 1

// DEFAULT_MAX_SPAWN_SPEED is the velocity bound on each axis for spawned bodies
const DEFAULT_MAX_SPAWN_SPEED = 600.0

type World struct {
	// List of all bodies in the world. Indices are the identities reported by results and events.
	Bodies []*actor.Body
	// Bodies bounce off the walls of Bounds
	Bounds        actor.AABB
	Mode          Mode
	Workers       int
	MaxSpawnSpeed float64
	// TickBudget bounds the wall-clock time spent on pair tests per Step, zero means unbounded
	TickBudget time.Duration

	Detector *Detector
	Events   Events
	Logger   *slog.Logger

	rng    *rand.Rand
	shapes []actor.ShapeInterface
	moves  []bool
}

// NewWorld creates an empty world; seed drives spawning
func NewWorld(bounds actor.AABB, seed int64) *World {
	return &World{
		Bounds:        bounds,
		Mode:          ModeSortAndSweep,
		Workers:       DEFAULT_WORKERS,
		MaxSpawnSpeed: DEFAULT_MAX_SPAWN_SPEED,
		Detector:      NewDetector(),
		Events:        NewEvents(),
		Logger:        slog.New(slog.DiscardHandler),
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// AddBody adds a body to the world and returns its index
func (w *World) AddBody(body *actor.Body) int {
	w.Bodies = append(w.Bodies, body)
	return len(w.Bodies) - 1
}

// RemoveBody removes the body at index; the bodies after it shift down by one,
// and their shape IDs follow so that ID always matches the body's index.
func (w *World) RemoveBody(index int) {
	if index < 0 || index >= len(w.Bodies) {
		return
	}

	w.Bodies = append(w.Bodies[:index], w.Bodies[index+1:]...)
	for i := index; i < len(w.Bodies); i++ {
		w.Bodies[i].Shape.ID = i
	}
	w.Events.forget(index)
}

// Spawn places a body at a random location inside the bounds, with a random velocity
func (w *World) Spawn(body *actor.Body) error {
	if err := body.Spawn(w.rng, w.Bounds, w.MaxSpawnSpeed); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	return nil
}

// Step moves every body by dt, then detects the intersecting pairs
func (w *World) Step(dt float64) *Result {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Detector.workers = w.Workers

	w.move(dt)

	result := w.detect()

	w.Events.recordResult(result)
	w.Events.flush()

	return result
}

func (w *World) move(dt float64) {
	if cap(w.moves) < len(w.Bodies) {
		w.moves = make([]bool, len(w.Bodies))
	}
	w.moves = w.moves[:len(w.Bodies)]
	clear(w.moves)

	task(w.Workers, w.Bodies, func(i int, body *actor.Body) {
		w.moves[i] = body.Move(dt, w.Bounds)
	})

	// Respawn sequentially, the random source is not safe for concurrent use
	for i, respawn := range w.moves {
		if !respawn {
			continue
		}
		if err := w.Spawn(w.Bodies[i]); err != nil {
			w.Logger.Warn("respawn failed", "body", i, "error", err)
			continue
		}
		w.Logger.Debug("body respawned", "body", i, "aabb", w.Bodies[i].GetAABB())
	}
}

func (w *World) detect() *Result {
	w.shapes = w.shapes[:0]
	for _, body := range w.Bodies {
		w.shapes = append(w.shapes, body)
	}

	ctx := context.Background()
	if w.TickBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.TickBudget)
		defer cancel()
	}

	result := w.Detector.CheckContext(ctx, w.shapes, w.Mode)
	if result.Truncated {
		w.Logger.Warn("tick budget exceeded",
			"budget", w.TickBudget,
			"tested", result.NarrowPhaseCalls)
	}

	return result
}
