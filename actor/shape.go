package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	ErrNotConvex      = errors.New("polygon is not convex")
	ErrNonFinite      = errors.New("polygon vertex is not finite")
)

// collinearEpsilon is the sine of the angle under which two edges are
// considered collinear during convexity validation.
// The cross product is compared against it scaled by both edge lengths.
const collinearEpsilon = 1e-9

// Cardinal axes used to derive the bounding box from the support function.
var (
	axisPosX = mgl64.Vec2{1, 0}
	axisNegX = mgl64.Vec2{-1, 0}
	axisPosY = mgl64.Vec2{0, 1}
	axisNegY = mgl64.Vec2{0, -1}
)

// ShapeInterface is the contract the collision pipeline requires from a shape.
// Implementations must be convex: both the support function and GJK rely on it.
type ShapeInterface interface {
	// Support returns the point of the shape furthest along direction
	Support(direction mgl64.Vec2) mgl64.Vec2
	// GetAABB returns the bounding box computed for the current geometry
	GetAABB() AABB
	// Centroid returns the point used to seed the GJK search direction
	Centroid() mgl64.Vec2
}

// Polygon is a convex polygon stored in world coordinates.
// Winding order is not constrained.
type Polygon struct {
	ID       int
	vertices []mgl64.Vec2
	centroid mgl64.Vec2
	aabb     AABB
}

// NewPolygon validates the vertices and builds a polygon with its centroid and AABB computed.
func NewPolygon(id int, vertices []mgl64.Vec2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("polygon %d has %d vertices: %w", id, len(vertices), ErrTooFewVertices)
	}
	for i, v := range vertices {
		if math.IsNaN(v.X()) || math.IsNaN(v.Y()) || math.IsInf(v.X(), 0) || math.IsInf(v.Y(), 0) {
			return nil, fmt.Errorf("polygon %d vertex %d %v: %w", id, i, v, ErrNonFinite)
		}
	}
	if !IsConvex(vertices) {
		return nil, fmt.Errorf("polygon %d: %w", id, ErrNotConvex)
	}

	p := &Polygon{
		ID:       id,
		vertices: append([]mgl64.Vec2(nil), vertices...),
	}
	p.computeCentroid()
	p.ComputeAABB()

	return p, nil
}

// MustPolygon is like NewPolygon but panics on invalid input.
// Meant for literal shapes known to be valid.
func MustPolygon(id int, vertices []mgl64.Vec2) *Polygon {
	p, err := NewPolygon(id, vertices)
	if err != nil {
		panic(err)
	}
	return p
}

// IsConvex reports whether the vertices, taken in order, describe a convex polygon.
// Collinear vertices are accepted, self-intersecting (star) outlines are not.
func IsConvex(vertices []mgl64.Vec2) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}

	sign := 0
	turning := 0.0
	for i := 0; i < n; i++ {
		e1 := vertices[(i+1)%n].Sub(vertices[i])
		e2 := vertices[(i+2)%n].Sub(vertices[(i+1)%n])
		cross := e1.X()*e2.Y() - e1.Y()*e2.X()

		if math.Abs(cross) > collinearEpsilon*e1.Len()*e2.Len() {
			s := 1
			if cross < 0 {
				s = -1
			}
			if sign == 0 {
				sign = s
			} else if s != sign {
				return false
			}
		}
		turning += math.Atan2(cross, e1.Dot(e2))
	}

	// All vertices on one line
	if sign == 0 {
		return false
	}

	// A convex outline turns exactly once around
	return math.Abs(math.Abs(turning)-2*math.Pi) < 1e-6
}

// Support returns the vertex maximizing the dot product with direction.
// Ties keep the first maximal vertex in vertex order, so the result is deterministic.
func (p *Polygon) Support(direction mgl64.Vec2) mgl64.Vec2 {
	best := p.vertices[0]
	bestDot := best.Dot(direction)

	for _, v := range p.vertices[1:] {
		if dot := v.Dot(direction); dot > bestDot {
			bestDot = dot
			best = v
		}
	}

	return best
}

// ComputeAABB derives the bounding box from the support function along the four cardinal directions.
func (p *Polygon) ComputeAABB() {
	p.aabb = AABB{
		Min: mgl64.Vec2{p.Support(axisNegX).X(), p.Support(axisNegY).Y()},
		Max: mgl64.Vec2{p.Support(axisPosX).X(), p.Support(axisPosY).Y()},
	}
}

func (p *Polygon) GetAABB() AABB {
	return p.aabb
}

func (p *Polygon) Centroid() mgl64.Vec2 {
	return p.centroid
}

func (p *Polygon) VertexCount() int {
	return len(p.vertices)
}

// Vertices returns a copy of the polygon vertices
func (p *Polygon) Vertices() []mgl64.Vec2 {
	return append([]mgl64.Vec2(nil), p.vertices...)
}

// Translate moves the polygon by delta and recomputes the derived attributes
func (p *Polygon) Translate(delta mgl64.Vec2) {
	for i := range p.vertices {
		p.vertices[i] = p.vertices[i].Add(delta)
	}
	p.centroid = p.centroid.Add(delta)
	p.ComputeAABB()
}

// Clone returns a deep copy of the polygon with a new id
func (p *Polygon) Clone(id int) *Polygon {
	return &Polygon{
		ID:       id,
		vertices: p.Vertices(),
		centroid: p.centroid,
		aabb:     p.aabb,
	}
}

func (p *Polygon) computeCentroid() {
	var sum mgl64.Vec2
	for _, v := range p.vertices {
		sum = sum.Add(v)
	}
	n := float64(len(p.vertices))
	p.centroid = mgl64.Vec2{sum.X() / n, sum.Y() / n}
}
