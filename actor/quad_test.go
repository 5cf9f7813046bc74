package actor

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// floorQuad is a 4x4 quad on the y=0 plane, facing up
func floorQuad(t *testing.T) *Quad {
	t.Helper()

	quad, err := NewQuad(mgl64.Vec3{-2, 0, 2}, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 0, -4})
	if err != nil {
		t.Fatalf("NewQuad() error = %v", err)
	}
	return quad
}

func TestNewQuad(t *testing.T) {
	quad := floorQuad(t)

	if !vec3ApproxEqual(quad.Normal, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("Normal = %v, want +Y", quad.Normal)
	}
	if quad.EdgeALength != 4 || quad.EdgeBLength != 4 {
		t.Errorf("edge lengths = %v, %v, want 4, 4", quad.EdgeALength, quad.EdgeBLength)
	}
	if !vec3ApproxEqual(quad.Center(), mgl64.Vec3{0, 0, 0}, 1e-12) {
		t.Errorf("Center() = %v, want origin", quad.Center())
	}

	tests := []struct {
		name  string
		sideA mgl64.Vec3
		sideB mgl64.Vec3
	}{
		{"zero side A", mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}},
		{"zero side B", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}},
		{"parallel sides", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuad(mgl64.Vec3{}, tt.sideA, tt.sideB)
			if !errors.Is(err, ErrDegenerateQuad) {
				t.Errorf("NewQuad() error = %v, want %v", err, ErrDegenerateQuad)
			}
		})
	}
}

func TestQuadSupportPoint(t *testing.T) {
	quad := floorQuad(t)

	tests := []struct {
		name      string
		direction mgl64.Vec3
		expected  mgl64.Vec3
		feature   Feature
	}{
		{"far A near B", mgl64.Vec3{1, 0, 1}, mgl64.Vec3{2, 0, 2}, FeatureQuadFarA | FeatureQuadNearB},
		{"near A far B", mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{-2, 0, -2}, FeatureQuadNearA | FeatureQuadFarB},
		{"both far", mgl64.Vec3{1, 0, -1}, mgl64.Vec3{2, 0, -2}, FeatureQuadFarA | FeatureQuadFarB},
		// Perpendicular directions keep the corner
		{"straight down", mgl64.Vec3{0, -1, 0}, mgl64.Vec3{-2, 0, 2}, FeatureQuadNearA | FeatureQuadNearB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, feature := quad.SupportPoint(tt.direction)
			if !vec3ApproxEqual(point, tt.expected, 1e-12) {
				t.Errorf("SupportPoint(%v) = %v, want %v", tt.direction, point, tt.expected)
			}
			if feature != tt.feature {
				t.Errorf("feature = %04b, want %04b", feature, tt.feature)
			}
		})
	}
}

func TestQuadSupportWithBasis(t *testing.T) {
	quad := floorQuad(t)

	// Identity basis is the world-space support
	expected, _ := quad.SupportPoint(mgl64.Vec3{1, 0, 1})
	got, _ := quad.Support(mgl64.Ident3(), mgl64.Vec3{1, 0, 1})
	if !vec3ApproxEqual(got, expected, 1e-12) {
		t.Errorf("Support(identity) = %v, want %v", got, expected)
	}

	// Flipped upside down around X: the far corner along -Z becomes +Z
	basis := mgl64.Rotate3DX(math.Pi)
	got, _ = quad.Support(basis, mgl64.Vec3{1, 0, 1})
	if !vec3ApproxEqual(got, mgl64.Vec3{2, 0, 2}, 1e-9) {
		t.Errorf("Support(rotated) = %v, want %v", got, mgl64.Vec3{2, 0, 2})
	}
}

func TestQuadComputeAABB(t *testing.T) {
	quad := floorQuad(t)

	aabb := quad.ComputeAABB(NewTransform())
	if !vec3ApproxEqual(aabb.Min, mgl64.Vec3{-2, 0, -2}, 1e-12) || !vec3ApproxEqual(aabb.Max, mgl64.Vec3{2, 0, 2}, 1e-12) {
		t.Errorf("ComputeAABB() = %v", aabb)
	}

	if !math.IsInf(quad.ComputeMass(1), 1) {
		t.Errorf("ComputeMass() = %v, want +Inf", quad.ComputeMass(1))
	}
}
