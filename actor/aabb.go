package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y()
}

// Overlaps checks if two AABBs overlap.
// Touching boxes overlap: a zero-width contact still reaches the narrow phase.
func (a AABB) Overlaps(other AABB) bool {
	return a.Min.X() <= other.Max.X() && other.Min.X() <= a.Max.X() &&
		a.Min.Y() <= other.Max.Y() && other.Min.Y() <= a.Max.Y()
}

// OverlapsX checks if the x intervals of two AABBs overlap
func (a AABB) OverlapsX(other AABB) bool {
	return a.Min.X() <= other.Max.X() && other.Min.X() <= a.Max.X()
}

func (a AABB) Width() float64 {
	return a.Max.X() - a.Min.X()
}

func (a AABB) Height() float64 {
	return a.Max.Y() - a.Min.Y()
}
