package actor

import "github.com/go-gl/mathgl/mgl64"

// Preset outlines, anchored at the origin.
var (
	Parallelogram = []mgl64.Vec2{{0, 0}, {100, 0}, {150, 100}, {50, 100}}
	Oblong        = []mgl64.Vec2{{0, 0}, {200, 0}, {200, 50}, {0, 50}}
	Triangle      = []mgl64.Vec2{{0, 0}, {100, 0}, {50, 100}}
	Pentagon      = []mgl64.Vec2{{0, 50}, {50, 0}, {100, 50}, {80, 100}, {20, 100}}
)

// Presets lists the preset outlines by name
var Presets = map[string][]mgl64.Vec2{
	"parallelogram": Parallelogram,
	"oblong":        Oblong,
	"triangle":      Triangle,
	"pentagon":      Pentagon,
}
