package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// AABB Utility Function Tests
// =============================================================================

func TestAABBOverlaps_Separated(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
	}{
		{
			name:  "Separated on X axis (positive)",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{1, 1}},
			aabb2: AABB{Min: mgl64.Vec2{2, 0}, Max: mgl64.Vec2{3, 1}},
		},
		{
			name:  "Separated on X axis (negative)",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{1, 1}},
			aabb2: AABB{Min: mgl64.Vec2{-2, 0}, Max: mgl64.Vec2{-1, 1}},
		},
		{
			name:  "Separated on Y axis (positive)",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{1, 1}},
			aabb2: AABB{Min: mgl64.Vec2{0, 2}, Max: mgl64.Vec2{1, 3}},
		},
		{
			name:  "Separated on Y axis (negative)",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{1, 1}},
			aabb2: AABB{Min: mgl64.Vec2{0, -2}, Max: mgl64.Vec2{1, -1}},
		},
		{
			name:  "Squares 10 units apart",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}},
			aabb2: AABB{Min: mgl64.Vec2{20, 0}, Max: mgl64.Vec2{30, 10}},
		},
		{
			name:  "Diagonal separation",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{1, 1}},
			aabb2: AABB{Min: mgl64.Vec2{1.5, 1.5}, Max: mgl64.Vec2{2, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.aabb1.Overlaps(tt.aabb2), "AABBs should not overlap")
			// Test symmetry
			assert.False(t, tt.aabb2.Overlaps(tt.aabb1), "AABBs should not overlap (symmetry test)")
		})
	}
}

func TestAABBOverlaps_Overlapping(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
	}{
		{
			name:  "Partial overlap",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}},
			aabb2: AABB{Min: mgl64.Vec2{5, 5}, Max: mgl64.Vec2{15, 15}},
		},
		{
			name:  "Contained",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}},
			aabb2: AABB{Min: mgl64.Vec2{2, 2}, Max: mgl64.Vec2{3, 3}},
		},
		{
			name:  "Identical",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{1, 1}},
			aabb2: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{1, 1}},
		},
		{
			name:  "Touching edge",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}},
			aabb2: AABB{Min: mgl64.Vec2{10, 0}, Max: mgl64.Vec2{20, 10}},
		},
		{
			name:  "Touching corner",
			aabb1: AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}},
			aabb2: AABB{Min: mgl64.Vec2{10, 10}, Max: mgl64.Vec2{20, 20}},
		},
		{
			name:  "Cross shape",
			aabb1: AABB{Min: mgl64.Vec2{-10, -1}, Max: mgl64.Vec2{10, 1}},
			aabb2: AABB{Min: mgl64.Vec2{-1, -10}, Max: mgl64.Vec2{1, 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.aabb1.Overlaps(tt.aabb2), "AABBs should overlap")
			assert.True(t, tt.aabb2.Overlaps(tt.aabb1), "AABBs should overlap (symmetry test)")
		})
	}
}

func TestAABBOverlapsX(t *testing.T) {
	a := AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}}
	b := AABB{Min: mgl64.Vec2{5, 100}, Max: mgl64.Vec2{15, 110}}
	c := AABB{Min: mgl64.Vec2{11, 0}, Max: mgl64.Vec2{15, 10}}

	assert.True(t, a.OverlapsX(b), "x intervals [0,10] and [5,15] should overlap")
	assert.False(t, a.Overlaps(b), "boxes separated on y should not overlap")
	assert.False(t, a.OverlapsX(c), "x intervals [0,10] and [11,15] should not overlap")
}

func TestAABBContainsPoint(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec2{-1, -1}, Max: mgl64.Vec2{1, 1}}

	tests := []struct {
		name     string
		point    mgl64.Vec2
		expected bool
	}{
		{"center", mgl64.Vec2{0, 0}, true},
		{"corner", mgl64.Vec2{1, 1}, true},
		{"edge", mgl64.Vec2{1, 0}, true},
		{"outside x", mgl64.Vec2{1.01, 0}, false},
		{"outside y", mgl64.Vec2{0, -1.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, aabb.ContainsPoint(tt.point), "ContainsPoint(%v)", tt.point)
		})
	}
}

func TestAABBDimensions(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec2{-2, 3}, Max: mgl64.Vec2{4, 4}}
	assert.Equal(t, 6.0, aabb.Width())
	assert.Equal(t, 1.0, aabb.Height())
}
