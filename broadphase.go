package bounce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/akmonengine/bounce/actor"
	"github.com/akmonengine/bounce/gjk"
)

// Mode selects the broad-phase algorithm.
// Both modes report identical intersecting pairs; they differ in the number of pairs considered.
type Mode uint8

const (
	// ModeSortAndSweep sorts the shapes' x intervals and only considers shapes sharing the sweep window
	ModeSortAndSweep Mode = iota
	// ModeNaive considers every pair, O(n²)
	ModeNaive
)

var ErrUnknownMode = errors.New("unknown detection mode")

func (m Mode) String() string {
	switch m {
	case ModeSortAndSweep:
		return "sort-and-sweep"
	case ModeNaive:
		return "naive"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode parses a mode name, as printed by Mode.String
func ParseMode(s string) (Mode, error) {
	switch s {
	case "sort-and-sweep", "sweep", "sap":
		return ModeSortAndSweep, nil
	case "naive":
		return ModeNaive, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownMode)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// NarrowPhaseFunc decides whether two shapes intersect
type NarrowPhaseFunc func(a, b actor.ShapeInterface) gjk.Result

// Detector runs the broad phase and dispatches the surviving pairs to the narrow phase.
// Its buffers are reused between passes; a Detector must not be used by several goroutines at once.
type Detector struct {
	workers     int
	narrowPhase NarrowPhaseFunc
	logger      *slog.Logger

	events     []sweepEvent
	active     []int
	tested     map[Pair]struct{}
	candidates []Pair
	outcomes   []outcome
}

type Option func(*Detector)

// WithWorkers runs the narrow phase on n goroutines
func WithWorkers(n int) Option {
	return func(d *Detector) {
		d.workers = max(DEFAULT_WORKERS, n)
	}
}

// WithNarrowPhase replaces the GJK narrow phase, e.g. to instrument it
func WithNarrowPhase(fn NarrowPhaseFunc) Option {
	return func(d *Detector) {
		d.narrowPhase = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		workers:     DEFAULT_WORKERS,
		narrowPhase: pooledGJK,
		logger:      slog.New(slog.DiscardHandler),
		tested:      make(map[Pair]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Check finds the intersecting pairs among shapes
func (d *Detector) Check(shapes []actor.ShapeInterface, mode Mode) *Result {
	return d.CheckContext(context.Background(), shapes, mode)
}

// CheckContext is like Check, but stops testing pairs once ctx is done.
// The result then holds the pairs tested so far and is marked Truncated.
func (d *Detector) CheckContext(ctx context.Context, shapes []actor.ShapeInterface, mode Mode) *Result {
	result := newResult(mode, len(shapes))
	d.candidates = d.candidates[:0]

	switch mode {
	case ModeNaive:
		d.naive(shapes, result)
	default:
		d.sortAndSweep(shapes, result)
	}

	d.dispatch(ctx, shapes, result)
	result.finish()

	if result.Truncated {
		d.logger.Debug("broad phase truncated",
			"mode", mode,
			"tested", result.NarrowPhaseCalls,
			"candidates", len(d.candidates))
	}

	return result
}

// naive considers every unordered pair
func (d *Detector) naive(shapes []actor.ShapeInterface, result *Result) {
	for i := range shapes {
		result.Order = append(result.Order, i)
	}

	for i := 0; i < len(shapes); i++ {
		aabbA := shapes[i].GetAABB()
		for j := i + 1; j < len(shapes); j++ {
			if aabbA.OverlapsX(shapes[j].GetAABB()) {
				result.markXOverlap(Pair{A: i, B: j})
			}
			d.consider(shapes, Pair{A: i, B: j}, result)
		}
	}
}

// consider applies the bounding-box filter to a pair and queues it for the narrow phase
func (d *Detector) consider(shapes []actor.ShapeInterface, pair Pair, result *Result) {
	result.Candidates++

	if !shapes[pair.A].GetAABB().Overlaps(shapes[pair.B].GetAABB()) {
		result.BoxRejected++
		return
	}
	d.candidates = append(d.candidates, pair)
}

// OverlappingBoxes reports whether the bounding boxes of two shapes overlap
func OverlappingBoxes(a, b actor.ShapeInterface) bool {
	return a.GetAABB().Overlaps(b.GetAABB())
}

// IntersectingShapes applies the bounding-box filter, then the GJK narrow phase
func IntersectingShapes(a, b actor.ShapeInterface) bool {
	if !OverlappingBoxes(a, b) {
		return false
	}
	return gjk.Intersects(a, b)
}
