package bounce

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/akmonengine/bounce/actor"
	"github.com/akmonengine/bounce/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// Test helper functions

func createSquare(x, y, size float64) *actor.Polygon {
	return actor.MustPolygon(0, []mgl64.Vec2{
		{x, y},
		{x + size, y},
		{x + size, y + size},
		{x, y + size},
	})
}

func createPolygon(vertices ...mgl64.Vec2) *actor.Polygon {
	return actor.MustPolygon(0, vertices)
}

func shapesOf(polygons ...*actor.Polygon) []actor.ShapeInterface {
	shapes := make([]actor.ShapeInterface, len(polygons))
	for i, p := range polygons {
		p.ID = i
		shapes[i] = p
	}
	return shapes
}

// randomConvexPolygon samples sorted angles on a circle, which always gives a convex outline
func randomConvexPolygon(rng *rand.Rand, center mgl64.Vec2, radius float64) *actor.Polygon {
	for {
		n := 3 + rng.Intn(6)
		angles := make([]float64, n)
		for i := range angles {
			angles[i] = rng.Float64() * 2 * math.Pi
		}
		sort.Float64s(angles)

		vertices := make([]mgl64.Vec2, 0, n)
		for _, a := range angles {
			vertices = append(vertices, center.Add(mgl64.Vec2{math.Cos(a), math.Sin(a)}.Mul(radius)))
		}
		if p, err := actor.NewPolygon(0, vertices); err == nil {
			return p
		}
	}
}

func randomScene(rng *rand.Rand, n int, size float64) []actor.ShapeInterface {
	polygons := make([]*actor.Polygon, n)
	for i := range polygons {
		center := mgl64.Vec2{rng.Float64() * size, rng.Float64() * size}
		polygons[i] = randomConvexPolygon(rng, center, 5+rng.Float64()*40)
	}
	return shapesOf(polygons...)
}

// narrowPhaseRecorder counts the narrow-phase calls per pair
type narrowPhaseRecorder struct {
	mu      sync.Mutex
	indices map[actor.ShapeInterface]int
	calls   map[Pair]int
	total   int
}

func newRecorder(shapes []actor.ShapeInterface) *narrowPhaseRecorder {
	r := &narrowPhaseRecorder{
		indices: make(map[actor.ShapeInterface]int, len(shapes)),
		calls:   make(map[Pair]int),
	}
	for i, s := range shapes {
		r.indices[s] = i
	}
	return r
}

func (r *narrowPhaseRecorder) narrowPhase(a, b actor.ShapeInterface) gjk.Result {
	r.mu.Lock()
	r.calls[makePair(r.indices[a], r.indices[b])]++
	r.total++
	r.mu.Unlock()

	return pooledGJK(a, b)
}

// scaledScene returns copies of the polygons with every coordinate multiplied by s
func scaledScene(shapes []actor.ShapeInterface, s float64) []actor.ShapeInterface {
	polygons := make([]*actor.Polygon, len(shapes))
	for i, shape := range shapes {
		vertices := shape.(*actor.Polygon).Vertices()
		for j := range vertices {
			vertices[j] = vertices[j].Mul(s)
		}
		polygons[i] = createPolygon(vertices...)
	}
	return shapesOf(polygons...)
}

// separationSAT returns the largest gap between the projections of both polygons
// over their edge normals: positive when separated, negative when overlapping.
func separationSAT(a, b actor.ShapeInterface) float64 {
	best := math.Inf(-1)
	for _, p := range []actor.ShapeInterface{a, b} {
		vertices := p.(*actor.Polygon).Vertices()
		for i := range vertices {
			edge := vertices[(i+1)%len(vertices)].Sub(vertices[i])
			axis := mgl64.Vec2{-edge.Y(), edge.X()}.Normalize()

			minA, maxA := a.Support(axis.Mul(-1)).Dot(axis), a.Support(axis).Dot(axis)
			minB, maxB := b.Support(axis.Mul(-1)).Dot(axis), b.Support(axis).Dot(axis)
			best = math.Max(best, math.Max(minB-maxA, minA-maxB))
		}
	}
	return best
}
