// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for 2D intersection tests.
//
// GJK detects whether two convex shapes overlap by testing if their Minkowski difference
// contains the origin. The algorithm builds a simplex incrementally (point, line, triangle),
// converging toward the origin in a handful of iterations.
//
// Touching shapes (a shared vertex or edge) count as intersecting.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/akmonengine/bounce/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultMaxIterations bounds the loop for shapes that do not report their vertex count
const DefaultMaxIterations = 64

// collinearEpsilon bounds the squared sine of the angle between two vectors
// under which they are treated as collinear. Comparing sines keeps the test
// independent of the shapes' scale.
const collinearEpsilon = 1e-18

// collinear reports whether u and v are parallel, up to collinearEpsilon
func collinear(u, v mgl64.Vec2) bool {
	c := cross(u, v)
	return c*c <= collinearEpsilon*u.LenSqr()*v.LenSqr()
}

// Result is the outcome of a GJK query
type Result uint8

const (
	Separated Result = iota
	Intersecting
	// Inconclusive means the iteration cap was reached before a decision.
	// Callers treat it as no intersection.
	Inconclusive
)

func (r Result) String() string {
	switch r {
	case Separated:
		return "separated"
	case Intersecting:
		return "intersecting"
	case Inconclusive:
		return "inconclusive"
	}
	return "unknown"
}

// VertexCounter is implemented by shapes with a finite vertex count.
// It lets GJK size its iteration cap to the shapes being tested.
type VertexCounter interface {
	VertexCount() int
}

// Simplex represents a set of 1-3 points in the Minkowski difference space.
// The newest point is always last.
// Size progression: 1 point → 2 points (line) → 3 points (triangle)
type Simplex struct {
	Points [3]mgl64.Vec2
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) push(point mgl64.Vec2) {
	s.Points[s.Count] = point
	s.Count++
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport computes a support point in the Minkowski difference (A - B):
// furthestPoint(A, direction) - furthestPoint(B, -direction)
func MinkowskiSupport(a, b actor.ShapeInterface, direction mgl64.Vec2) mgl64.Vec2 {
	supportA := a.Support(direction)
	supportB := b.Support(direction.Mul(-1))
	return supportA.Sub(supportB)
}

// MaxIterations returns the iteration cap for a pair of shapes.
// The Minkowski difference of two polygons has at most nA+nB vertices; the cap
// allows each of them to be visited twice before giving up.
func MaxIterations(a, b actor.ShapeInterface) int {
	ca, okA := a.(VertexCounter)
	cb, okB := b.(VertexCounter)
	if !okA || !okB {
		return DefaultMaxIterations
	}
	return 2*(ca.VertexCount()+cb.VertexCount()) + 8
}

// Intersects reports whether two convex shapes overlap.
// An inconclusive query reports false.
func Intersects(a, b actor.ShapeInterface) bool {
	simplex := SimplexPool.Get().(*Simplex)
	defer SimplexPool.Put(simplex)
	simplex.Reset()

	return GJK(a, b, simplex) == Intersecting
}

// GJK performs the intersection test between two convex shapes.
//
// Algorithm overview:
//  1. Start with the direction from A's centroid toward B's centroid
//  2. Get first support point in the Minkowski difference
//  3. Iteratively refine the simplex toward the origin
//  4. If the origin is enclosed → intersection
//  5. If a support point cannot pass the origin → separated
//
// The simplex is modified in place and holds 1-3 points.
func GJK(a, b actor.ShapeInterface, simplex *Simplex) Result {
	// Starting toward the other shape typically reduces iterations
	direction := b.Centroid().Sub(a.Centroid())
	if direction.LenSqr() == 0 {
		direction = mgl64.Vec2{1, 0} // Fallback if centroids coincide
	} else {
		direction = direction.Normalize()
	}

	simplex.Reset()
	simplex.push(MinkowskiSupport(a, b, direction))

	// New direction towards the origin from this first point
	direction = simplex.Points[0].Mul(-1)

	// The origin is a point of the Minkowski difference, shapes are touching
	if direction.LenSqr() == 0 {
		return Intersecting
	}

	maxIterations := MaxIterations(a, b)
	for i := 0; i < maxIterations; i++ {
		newPoint := MinkowskiSupport(a, b, direction)

		// The new point does not pass the origin along the search direction:
		// a separating axis exists
		if newPoint.Dot(direction) < 0 {
			return Separated
		}

		simplex.push(newPoint)

		if containsOrigin(simplex, &direction) {
			return Intersecting
		}
	}

	return Inconclusive
}

// containsOrigin tests if the simplex contains the origin and refines the simplex.
//
// Behavior by simplex dimension:
//   - 2 points (line): search perpendicular to the segment, toward the origin
//   - 3 points (triangle): drop the vertex opposite to the edge facing the origin,
//     or report the origin as enclosed
func containsOrigin(simplex *Simplex, direction *mgl64.Vec2) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	}

	// Single point, after a degenerate reduction
	*direction = simplex.Points[0].Mul(-1)
	return direction.LenSqr() == 0
}

// line handles the line simplex case (2 points: B then A, A newest).
//
// The new direction is AB × AO × AB: perpendicular to AB, on the origin's side.
// A segment cannot enclose the origin, unless the origin lies on it.
func line(simplex *Simplex, direction *mgl64.Vec2) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if !collinear(ab, ao) {
		*direction = tripleProduct(ab, ao, ab)
		return false
	}

	// The origin is on the line through A and B
	abLenSqr := ab.LenSqr()
	if abLenSqr == 0 {
		// Identical points
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = ao
		return ao.LenSqr() == 0
	}

	t := ao.Dot(ab)
	if t >= 0 && t <= abLenSqr {
		// On the segment, which lies inside the Minkowski difference
		return true
	}

	// Past A, away from B: restart from A alone
	simplex.Points[0] = a
	simplex.Count = 1
	*direction = ao
	return false
}

// triangle handles the triangle simplex case (3 points: C, B, A, A newest).
//
// Tests the two edges adjacent to A (the edge BC was already tested when the
// search direction toward A was chosen):
//   - Origin outside AB → drop C, search along the AB normal
//   - Origin outside AC → drop B, search along the AC normal
//   - Otherwise the origin is inside (or on) the triangle
func triangle(simplex *Simplex, direction *mgl64.Vec2) bool {
	a := simplex.Points[2] // Most recent point
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	// Collinear points: keep the segment BA and treat it as a line
	if collinear(ab, ac) {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		return line(simplex, direction)
	}

	// Region AB (edge)
	abPerp := tripleProduct(ac, ab, ab)
	if abPerp.Dot(ao) > 0 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = abPerp
		return false
	}

	// Region AC (edge)
	acPerp := tripleProduct(ab, ac, ac)
	if acPerp.Dot(ao) > 0 {
		simplex.Points[0] = c
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = acPerp
		return false
	}

	return true
}

// tripleProduct computes (a × b) × c for vectors of the z=0 plane,
// expanded as b(a·c) - a(b·c).
func tripleProduct(a, b, c mgl64.Vec2) mgl64.Vec2 {
	return b.Mul(a.Dot(c)).Sub(a.Mul(b.Dot(c)))
}

// cross returns the z component of a × b
func cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}
