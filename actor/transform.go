package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform places a body in world space.
// Scale is carried for rendering and bounds only; contact math ignores it.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Basis returns the rotation as a 3x3 matrix whose columns are the local axes in world space.
func (t Transform) Basis() mgl64.Mat3 {
	return t.rotation().Mat4().Mat3()
}

// TransformPointNoScale maps a local point to world space: R*p + position.
func (t Transform) TransformPointNoScale(point mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(point).Add(t.Position)
}

// InverseTransformPointNoScale maps a world point to local space: R^-1*(p - position).
func (t Transform) InverseTransformPointNoScale(point mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Conjugate().Rotate(point.Sub(t.Position))
}

// rotation tolerates the zero quaternion of an unset Transform.
func (t Transform) rotation() mgl64.Quat {
	return t.Rotation.Normalize()
}
