package actor

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of body
type BodyType int

const (
	// BodyTypeDynamic bodies move with their velocity and bounce off the world bounds
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies never move (e.g. obstacles)
	// They still take part in collision detection
	BodyTypeStatic
)

const (
	// BarrierTolerance is the distance to the bounds at which a wall counts as hit
	BarrierTolerance = 1.0
	// BounceBoost scales the displacement of the first tick after a wall hit,
	// to push the body out of the barrier zone
	BounceBoost = 1.1
)

var ErrDoesNotFit = errors.New("body does not fit inside the bounds")

// Body is a convex polygon moving at constant velocity
type Body struct {
	Shape    *Polygon
	Velocity mgl64.Vec2
	BodyType BodyType

	// consecutive ticks spent touching a wall
	wallHits int
}

// NewBody creates a body around the given shape
func NewBody(shape *Polygon, velocity mgl64.Vec2, bodyType BodyType) *Body {
	b := &Body{
		Shape:    shape,
		Velocity: velocity,
		BodyType: bodyType,
	}
	if bodyType == BodyTypeStatic {
		b.Velocity = mgl64.Vec2{}
	}

	return b
}

func (b *Body) Support(direction mgl64.Vec2) mgl64.Vec2 {
	return b.Shape.Support(direction)
}

func (b *Body) GetAABB() AABB {
	return b.Shape.GetAABB()
}

func (b *Body) Centroid() mgl64.Vec2 {
	return b.Shape.Centroid()
}

func (b *Body) VertexCount() int {
	return b.Shape.VertexCount()
}

// WallHit reports whether the body touches a vertical wall of bounds
func (b *Body) WallHit(bounds AABB) bool {
	aabb := b.Shape.GetAABB()
	return aabb.Min.X() <= bounds.Min.X()+BarrierTolerance || aabb.Max.X() >= bounds.Max.X()-BarrierTolerance
}

// FloorHit reports whether the body touches a horizontal wall of bounds
func (b *Body) FloorHit(bounds AABB) bool {
	aabb := b.Shape.GetAABB()
	return aabb.Min.Y() <= bounds.Min.Y()+BarrierTolerance || aabb.Max.Y() >= bounds.Max.Y()-BarrierTolerance
}

// Move advances the body by velocity*dt, bouncing off the walls of bounds.
// A body stuck on a wall for two consecutive ticks is not moved and Move returns true:
// the caller is expected to respawn it.
func (b *Body) Move(dt float64, bounds AABB) (respawn bool) {
	if b.BodyType == BodyTypeStatic {
		return false
	}

	hit := false
	bounce := 1.0
	if b.WallHit(bounds) {
		b.Velocity[0] = -b.Velocity[0]
		hit = true
	}
	if b.FloorHit(bounds) {
		b.Velocity[1] = -b.Velocity[1]
		hit = true
	}

	if hit {
		b.wallHits++
		if b.wallHits > 1 {
			return true
		}
		bounce = BounceBoost
	} else {
		b.wallHits = 0
	}

	b.Shape.Translate(b.Velocity.Mul(dt * bounce))
	return false
}

// Spawn moves the body to a random location fully inside bounds, away from the walls,
// and gives it a random velocity in [-maxSpeed, maxSpeed] on each axis.
func (b *Body) Spawn(rng *rand.Rand, bounds AABB, maxSpeed float64) error {
	aabb := b.Shape.GetAABB()

	minX := bounds.Min.X() + BarrierTolerance - aabb.Min.X()
	maxX := bounds.Max.X() - BarrierTolerance - aabb.Max.X()
	minY := bounds.Min.Y() + BarrierTolerance - aabb.Min.Y()
	maxY := bounds.Max.Y() - BarrierTolerance - aabb.Max.Y()
	if maxX <= minX || maxY <= minY {
		return fmt.Errorf("polygon %d (%.1fx%.1f): %w", b.Shape.ID, aabb.Width(), aabb.Height(), ErrDoesNotFit)
	}

	// Keep one unit away from the barrier zone, so the spawned body does not hit a wall right away
	shrink := min(1.0, (maxX-minX)/2, (maxY-minY)/2)
	b.Shape.Translate(mgl64.Vec2{
		randRange(rng, minX+shrink, maxX-shrink),
		randRange(rng, minY+shrink, maxY-shrink),
	})

	b.wallHits = 0
	if b.BodyType == BodyTypeDynamic {
		b.Velocity = mgl64.Vec2{
			randRange(rng, -maxSpeed, maxSpeed),
			randRange(rng, -maxSpeed, maxSpeed),
		}
	}

	return nil
}

func randRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
