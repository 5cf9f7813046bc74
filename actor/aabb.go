package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Overlaps checks if two AABBs overlap. Touching boxes overlap.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Expand grows the box by margin on every side
func (a AABB) Expand(margin float64) AABB {
	m := mgl64.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// aabbFromPoints builds the tightest box around a set of world points
func aabbFromPoints(points []mgl64.Vec3) AABB {
	min := points[0]
	max := points[0]

	for _, p := range points[1:] {
		min[0] = math.Min(min[0], p[0])
		min[1] = math.Min(min[1], p[1])
		min[2] = math.Min(min[2], p[2])

		max[0] = math.Max(max[0], p[0])
		max[1] = math.Max(max[1], p[1])
		max[2] = math.Max(max[2], p[2])
	}

	return AABB{Min: min, Max: max}
}
