package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType tags the variant held by a Collider
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypeQuad
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeBox:
		return "box"
	case ShapeTypeQuad:
		return "quad"
	}
	return "unknown"
}

// Feature identifies which face, edge or vertex of a flat-faced shape a support
// query selected. Curved shapes report 0.
type Feature uint8

// Box features, one bit per signed local axis.
const (
	FeatureBoxPosX Feature = 1 << iota
	FeatureBoxNegX
	FeatureBoxPosY
	FeatureBoxNegY
	FeatureBoxPosZ
	FeatureBoxNegZ
)

// Shape is the interface that all collision shapes must implement.
// It is the whole dispatch table the collision core sees: nothing else about
// a shape is ever inspected.
type Shape interface {
	// Support returns the point of the shape, rotated by basis and relative to its
	// origin, that lies farthest along direction.
	Support(basis mgl64.Mat3, direction mgl64.Vec3) (mgl64.Vec3, Feature)
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform) AABB
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Support(basis mgl64.Mat3, direction mgl64.Vec3) (mgl64.Vec3, Feature) {
	var result mgl64.Vec3
	var feature Feature

	for i := 0; i < 3; i++ {
		axis := basis.Col(i).Mul(b.HalfExtents[i])

		if axis.Dot(direction) > 0 {
			result = result.Add(axis)
			feature |= FeatureBoxPosX << (2 * i)
		} else {
			result = result.Sub(axis)
			feature |= FeatureBoxNegX << (2 * i)
		}
	}

	return result, feature
}

func (b *Box) ComputeAABB(transform Transform) AABB {
	basis := transform.Basis()

	// Projected radius on each world axis: sum over local axes of |R_ji| * h_i
	var extent mgl64.Vec3
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			extent[j] += math.Abs(basis.At(j, i)) * b.HalfExtents[i]
		}
	}

	return AABB{
		Min: transform.Position.Sub(extent),
		Max: transform.Position.Add(extent),
	}
}

// ComputeMass calculates mass data for the box
func (b *Box) ComputeMass(density float64) float64 {
	// Volume = 8 * hx * hy * hz (full dimensions are 2*halfExtents)
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0

	return mgl64.Diag3(mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	})
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
}

func (s *Sphere) Support(_ mgl64.Mat3, direction mgl64.Vec3) (mgl64.Vec3, Feature) {
	length := direction.Len()
	if length == 0 {
		return mgl64.Vec3{}, 0
	}

	return direction.Mul(s.Radius / length), 0
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) AABB {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	return AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	// Volume of sphere = (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r²
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}
