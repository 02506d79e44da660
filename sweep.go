package bounce

import (
	"sort"

	"github.com/akmonengine/bounce/actor"
)

// sweepEvent is one end of a shape's x interval
type sweepEvent struct {
	x     float64
	index int
	exit  bool
}

// buildEvents emits exactly two events per shape: enter at min x, exit at max x
func (d *Detector) buildEvents(shapes []actor.ShapeInterface) {
	d.events = d.events[:0]
	for i, shape := range shapes {
		aabb := shape.GetAABB()
		d.events = append(d.events,
			sweepEvent{x: aabb.Min.X(), index: i},
			sweepEvent{x: aabb.Max.X(), index: i, exit: true},
		)
	}

	// Enter before exit on equal x, so that a zero-width overlap is still tested.
	// Shape index breaks the remaining ties for a deterministic order.
	sort.Slice(d.events, func(i, j int) bool {
		a, b := d.events[i], d.events[j]
		if a.x != b.x {
			return a.x < b.x
		}
		if a.exit != b.exit {
			return !a.exit
		}
		return a.index < b.index
	})
}

// sortAndSweep sweeps the sorted events along x, maintaining the set of shapes spanning the sweep line.
// A shape entering the window is paired with every shape already in it.
func (d *Detector) sortAndSweep(shapes []actor.ShapeInterface, result *Result) {
	d.buildEvents(shapes)
	d.active = d.active[:0]
	clear(d.tested)

	for _, event := range d.events {
		if event.exit {
			d.deactivate(event.index)
			continue
		}

		result.Order = append(result.Order, event.index)
		for _, other := range d.active {
			pair := makePair(event.index, other)
			if _, ok := d.tested[pair]; ok {
				continue
			}
			d.tested[pair] = struct{}{}

			result.markXOverlap(pair)
			d.consider(shapes, pair, result)
		}
		d.active = append(d.active, event.index)
	}
}

// deactivate removes a shape from the active set, swapping with the last one
func (d *Detector) deactivate(index int) {
	for i, id := range d.active {
		if id == index {
			d.active[i] = d.active[len(d.active)-1]
			d.active = d.active[:len(d.active)-1]
			return
		}
	}
}
