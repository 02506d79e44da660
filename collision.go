package bounce

import (
	"context"
	"sync"

	"github.com/akmonengine/bounce/actor"
	"github.com/akmonengine/bounce/gjk"
)

// outcome of the narrow phase for one candidate pair
type outcome struct {
	tested bool
	result gjk.Result
}

func pooledGJK(a, b actor.ShapeInterface) gjk.Result {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	simplex.Reset()
	result := gjk.GJK(a, b, simplex)
	gjk.SimplexPool.Put(simplex)

	return result
}

// dispatch runs the narrow phase on the queued candidates, then writes the
// confirmed pairs back to the result in candidate order.
func (d *Detector) dispatch(ctx context.Context, shapes []actor.ShapeInterface, result *Result) {
	if cap(d.outcomes) < len(d.candidates) {
		d.outcomes = make([]outcome, len(d.candidates))
	}
	d.outcomes = d.outcomes[:len(d.candidates)]
	clear(d.outcomes)

	if d.workers > 1 && len(d.candidates) > 1 {
		d.narrowPhaseParallel(ctx, shapes)
	} else {
		d.narrowPhaseSequential(ctx, shapes)
	}

	for k, pair := range d.candidates {
		o := d.outcomes[k]
		if !o.tested {
			result.Truncated = true
			continue
		}

		result.NarrowPhaseCalls++
		switch o.result {
		case gjk.Intersecting:
			result.record(pair)
		case gjk.Inconclusive:
			result.Inconclusive++
			d.logger.Debug("narrow phase inconclusive, pair recorded as separated",
				"a", pair.A,
				"b", pair.B)
		}
	}
}

func (d *Detector) narrowPhaseSequential(ctx context.Context, shapes []actor.ShapeInterface) {
	for k, pair := range d.candidates {
		if ctx.Err() != nil {
			return
		}
		d.outcomes[k] = outcome{
			tested: true,
			result: d.narrowPhase(shapes[pair.A], shapes[pair.B]),
		}
	}
}

// narrowPhaseParallel tests the candidates on d.workers goroutines.
// Each candidate owns its outcome slot, so workers never write to shared state.
func (d *Detector) narrowPhaseParallel(ctx context.Context, shapes []actor.ShapeInterface) {
	jobs := make(chan int, d.workers)

	var wg sync.WaitGroup
	for range d.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for k := range jobs {
				if ctx.Err() != nil {
					continue
				}
				pair := d.candidates[k]
				d.outcomes[k] = outcome{
					tested: true,
					result: d.narrowPhase(shapes[pair.A], shapes[pair.B]),
				}
			}
		}()
	}

	for k := range d.candidates {
		if ctx.Err() != nil {
			break
		}
		jobs <- k
	}
	close(jobs)
	wg.Wait()
}
